package service

import (
	"context"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/validation"
)

// ProfileService is a read-only view of the alumni directory.
type ProfileService struct {
	userRepo repository.UserRepositoryInterface
}

func NewProfileService(userRepo repository.UserRepositoryInterface) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

func (s *ProfileService) Get(ctx context.Context, id uint) (*models.ProfileSummary, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("load profile", err)
	}
	summary := u.Summary()
	return &summary, nil
}

// Search matches query against names and company. An empty query returns
// nothing rather than the whole directory.
func (s *ProfileService) Search(ctx context.Context, query string, limit int) ([]models.ProfileSummary, error) {
	query = validation.NormalizeSearchQuery(query)
	if query == "" {
		return []models.ProfileSummary{}, nil
	}

	users, err := s.userRepo.Search(ctx, query, validation.ClampLimit(limit))
	if err != nil {
		return nil, persistence("search profiles", err)
	}
	out := make([]models.ProfileSummary, len(users))
	for i := range users {
		out[i] = users[i].Summary()
	}
	return out, nil
}
