package services

import (
	"context"

	"github.com/cognicursos/backend-go/internal/repository"
)

// InteractionService exposes the question log read-only. Records are written
// by QuestionService only.
type InteractionService struct {
	repo repository.InteractionRepository
}

func NewInteractionService(repo repository.InteractionRepository) *InteractionService {
	return &InteractionService{repo: repo}
}

func (s *InteractionService) List(ctx context.Context, filter repository.InteractionFilter) ([]InteractionResponse, error) {
	interactions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repoError(err, msgInteractionNotFound)
	}
	return mapSlice(interactions, NewInteractionResponse), nil
}

func (s *InteractionService) Get(ctx context.Context, id uint) (*InteractionResponse, error) {
	interaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgInteractionNotFound)
	}
	resp := NewInteractionResponse(interaction)
	return &resp, nil
}
