package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/silent2803/NurtiDuo/internal/models"
	"github.com/silent2803/NurtiDuo/internal/repository"
)

// ErrProfileNotFound is returned when a user has no profile record.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRecords is the persistence surface the profile service needs.
type ProfileRecords interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	UpdateFields(ctx context.Context, id, username, bio string) error
	UpdateAvatarURL(ctx context.Context, id, avatarURL string) error
	ListCandidates(ctx context.Context, excludeID string) ([]*models.Profile, error)
}

// ProfileService handles profile reads, the two mutable field updates and the
// candidate pool projection
type ProfileService struct {
	records ProfileRecords
}

// NewProfileService creates a new profile service
func NewProfileService(records ProfileRecords) *ProfileService {
	return &ProfileService{records: records}
}

// Profile retrieves a profile by user ID
func (s *ProfileService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.records.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile persists the two mutable profile fields
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, username, bio string) error {
	if err := s.records.UpdateFields(ctx, userID, username, bio); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdateAvatarURL persists a new avatar URL onto the profile
func (s *ProfileService) UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error {
	if err := s.records.UpdateAvatarURL(ctx, userID, avatarURL); err != nil {
		return fmt.Errorf("failed to update avatar url: %w", err)
	}
	return nil
}

// Candidates returns the browsing pool for a user: every other profile,
// projected to the read-only candidate shape, in stable store order
func (s *ProfileService) Candidates(ctx context.Context, userID string) ([]models.Candidate, error) {
	profiles, err := s.records.ListCandidates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, p.Candidate())
	}
	return candidates, nil
}
