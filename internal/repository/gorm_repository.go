package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snapshotRecord struct {
	Name      string `gorm:"primaryKey;column:name"`
	Payload   string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (snapshotRecord) TableName() string {
	return "snapshots"
}

// GormSnapshotRepository keeps each snapshot as one row of the snapshots table.
type GormSnapshotRepository struct {
	db *gorm.DB
}

func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Migrate creates the snapshots table if it is missing.
func (r *GormSnapshotRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&snapshotRecord{})
}

func (r *GormSnapshotRepository) Name() string {
	return "postgres"
}

func (r *GormSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	var records []snapshotRecord
	if err := r.db.WithContext(ctx).Where("name = ?", key).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return []byte(records[0].Payload), nil
}

// Put overwrites the whole row for key.
func (r *GormSnapshotRepository) Put(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	record := snapshotRecord{
		Name:      key,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
}
