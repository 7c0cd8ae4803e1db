package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is one persisted state blob. The whole persistence surface is
// three independent blobs (night history, settings, sync cursor), so a
// keyed byte column is all the schema there is.
type Blob struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)"`
	Value     []byte    `gorm:"type:bytea"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Blob) TableName() string {
	return "blobs"
}

// BlobStore is the key-value persistence collaborator.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type gormBlobStore struct {
	db *gorm.DB
}

// NewBlobStore creates a gorm-backed BlobStore.
func NewBlobStore(db *gorm.DB) BlobStore {
	return &gormBlobStore{db: db}
}

func (s *gormBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob Blob
	err := s.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return blob.Value, nil
}

func (s *gormBlobStore) Put(ctx context.Context, key string, value []byte) error {
	blob := Blob{Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&blob).Error
}

func (s *gormBlobStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Blob{}, "key = ?", key).Error
}
