package service

import (
	"context"
	"time"

	"todo-planner/internal/model"
	"todo-planner/internal/repository"
)

// ScratchpadService provides access to the singleton scratchpad blob.
type ScratchpadService struct {
	repo *repository.ScratchpadRepository
}

func NewScratchpadService(repo *repository.ScratchpadRepository) *ScratchpadService {
	return &ScratchpadService{repo: repo}
}

func (s *ScratchpadService) Get(ctx context.Context) (*model.Scratchpad, error) {
	return s.repo.GetOrCreate(ctx)
}

func (s *ScratchpadService) Save(ctx context.Context, content string) (*model.Scratchpad, error) {
	pad, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	pad.Content = content
	pad.LastModified = time.Now()
	if err := s.repo.Save(ctx, pad); err != nil {
		return nil, err
	}
	return pad, nil
}
