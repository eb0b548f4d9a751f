package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deliverly/cart-service/api/controllers"
	"github.com/deliverly/cart-service/api/middleware"
	cartsvc "github.com/deliverly/cart-service/internal/cart"
	"github.com/deliverly/cart-service/pkg/config"
	"github.com/deliverly/cart-service/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	cartManager *cartsvc.Manager,
	catalog controllers.Catalog,
	submitter controllers.OrderSubmitter,
	readiness ...controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartManager, logg))
			r.Delete("/", controllers.ClearCart(cartManager, logg))
			r.Post("/items", controllers.AddItem(cartManager, catalog, logg))
			r.Patch("/items/{productID}", controllers.UpdateItemQuantity(cartManager, logg))
			r.Delete("/items/{productID}", controllers.RemoveItem(cartManager, logg))
			r.Put("/items/{productID}/selection", controllers.UpdateItemSelection(cartManager, catalog, logg))
			r.Post("/checkout", controllers.Checkout(cartManager, submitter, logg))
		})

		r.Post("/selection/validate", controllers.ValidateSelection(catalog, logg))
	})

	return r
}
