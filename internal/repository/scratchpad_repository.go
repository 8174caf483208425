package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-planner/internal/model"
)

// scratchpadID is the fixed row backing the singleton scratchpad.
const scratchpadID int64 = 1

// ScratchpadRepository manages the singleton scratchpad row.
type ScratchpadRepository struct {
	db *gorm.DB
}

func NewScratchpadRepository(db *gorm.DB) *ScratchpadRepository {
	return &ScratchpadRepository{db: db}
}

// GetOrCreate returns the scratchpad, creating an empty one on first use.
func (r *ScratchpadRepository) GetOrCreate(ctx context.Context) (*model.Scratchpad, error) {
	var pad model.Scratchpad
	db := r.db.WithContext(ctx)
	err := db.First(&pad, scratchpadID).Error
	switch {
	case err == nil:
		return &pad, nil
	case err == gorm.ErrRecordNotFound:
		pad = model.Scratchpad{ID: scratchpadID, Content: "", LastModified: time.Now()}
		if err := db.Create(&pad).Error; err != nil {
			return nil, fmt.Errorf("create scratchpad: %w", err)
		}
		return &pad, nil
	default:
		return nil, fmt.Errorf("find scratchpad: %w", err)
	}
}

func (r *ScratchpadRepository) Save(ctx context.Context, pad *model.Scratchpad) error {
	if err := r.db.WithContext(ctx).Save(pad).Error; err != nil {
		return fmt.Errorf("save scratchpad: %w", err)
	}
	return nil
}
