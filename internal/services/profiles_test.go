package services

import (
	"context"
	"errors"
	"testing"

	"github.com/silent2803/NurtiDuo/internal/models"
	"github.com/silent2803/NurtiDuo/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRecords struct {
	getFunc    func(ctx context.Context, id string) (*models.Profile, error)
	updateFunc func(ctx context.Context, id, username, bio string) error
	avatarFunc func(ctx context.Context, id, avatarURL string) error
	listFunc   func(ctx context.Context, excludeID string) ([]*models.Profile, error)
}

func (f *fakeProfileRecords) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeProfileRecords) UpdateFields(ctx context.Context, id, username, bio string) error {
	return f.updateFunc(ctx, id, username, bio)
}

func (f *fakeProfileRecords) UpdateAvatarURL(ctx context.Context, id, avatarURL string) error {
	return f.avatarFunc(ctx, id, avatarURL)
}

func (f *fakeProfileRecords) ListCandidates(ctx context.Context, excludeID string) ([]*models.Profile, error) {
	return f.listFunc(ctx, excludeID)
}

func TestProfileService_ProfileNotFound(t *testing.T) {
	records := &fakeProfileRecords{getFunc: func(ctx context.Context, id string) (*models.Profile, error) {
		return nil, repository.ErrNotFound
	}}
	svc := NewProfileService(records)

	_, err := svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_ProfileStoreFailureWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	records := &fakeProfileRecords{getFunc: func(ctx context.Context, id string) (*models.Profile, error) {
		return nil, cause
	}}
	svc := NewProfileService(records)

	_, err := svc.Profile(context.Background(), "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_CandidatesProjection(t *testing.T) {
	records := &fakeProfileRecords{listFunc: func(ctx context.Context, excludeID string) ([]*models.Profile, error) {
		assert.Equal(t, "user-1", excludeID)
		return []*models.Profile{
			{ID: "a", Username: "Ana", Gender: models.GenderFemale, Age: 24, Bio: "support main", AvatarURL: "https://cdn.example.com/a.jpg"},
			{ID: "b", Username: "Ben", Gender: models.GenderMale, Age: 30},
		}, nil
	}}
	svc := NewProfileService(records)

	candidates, err := svc.Candidates(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Store order is preserved and only presentation fields are carried.
	assert.Equal(t, "a", candidates[0].ID)
	assert.Equal(t, "Ana", candidates[0].Username)
	assert.Equal(t, models.GenderFemale, candidates[0].Gender)
	assert.Equal(t, 24, candidates[0].Age)
	assert.Equal(t, "https://cdn.example.com/a.jpg", candidates[0].AvatarURL)
	assert.Equal(t, "b", candidates[1].ID)
}
