package repository

import (
	"context"
	"errors"
	"time"

	"garagemitre/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BoxListRepository interface {
	// FindByDate returns nil (no error) when no snapshot exists for the date.
	FindByDate(ctx context.Context, date time.Time) (*model.BoxList, error)
	// Upsert overwrites the snapshot for its date — last writer wins.
	Upsert(ctx context.Context, b *model.BoxList) error
}

type boxListRepo struct{ db *gorm.DB }

func NewBoxListRepository(db *gorm.DB) BoxListRepository { return &boxListRepo{db: db} }

func (r *boxListRepo) FindByDate(ctx context.Context, date time.Time) (*model.BoxList, error) {
	var b model.BoxList
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *boxListRepo) Upsert(ctx context.Context, b *model.BoxList) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_price", "recomputed_at"}),
	}).Create(b).Error
}
