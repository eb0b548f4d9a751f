package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snapshotRecord struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Payload   []byte    `gorm:"column:payload"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (snapshotRecord) TableName() string { return "cart_snapshots" }

// GormStore persists cart snapshots in a relational table, for deployments
// that prefer the database over the cache for durability.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a GORM connection as a cart Store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &GormStore{db: db}, nil
}

// AutoMigrate creates the snapshot table when it does not exist yet.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&snapshotRecord{})
}

// Load fetches and decodes the snapshot row. Missing rows and undecodable
// payloads both read as "no cart".
func (s *GormStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	var record snapshotRecord
	err := s.db.WithContext(ctx).First(&record, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal(record.Payload, &cart); err != nil {
		return nil, nil
	}
	return &cart, nil
}

// Save upserts the serialized cart for the session. A nil cart deletes the row.
func (s *GormStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	if cart == nil {
		return s.Delete(ctx, sessionID)
	}
	blob, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	record := snapshotRecord{
		SessionID: sessionID,
		Payload:   blob,
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, UpdateAll: true}).
		Create(&record).Error
}

// Delete removes the snapshot row for the session.
func (s *GormStore) Delete(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Delete(&snapshotRecord{}, "session_id = ?", sessionID).Error
}
