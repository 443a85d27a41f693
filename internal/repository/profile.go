package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/silent2803/NurtiDuo/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, username, gender, birth_date, age, bio, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.Username, profile.Gender, profile.BirthDate,
		profile.Age, profile.Bio, profile.AvatarURL, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by user ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, username, gender, birth_date, age, bio, avatar_url, created_at
		FROM profiles
		WHERE id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID, &profile.Username, &profile.Gender, &profile.BirthDate,
		&profile.Age, &profile.Bio, &profile.AvatarURL, &profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// UpdateFields updates the two mutable profile fields
func (r *ProfileRepository) UpdateFields(ctx context.Context, id, username, bio string) error {
	query := `UPDATE profiles SET username = $1, bio = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, username, bio, id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAvatarURL updates the avatar URL for a profile
func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, id, avatarURL string) error {
	query := `UPDATE profiles SET avatar_url = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, avatarURL, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCandidates retrieves every profile except the given user's, oldest first
func (r *ProfileRepository) ListCandidates(ctx context.Context, excludeID string) ([]*models.Profile, error) {
	query := `
		SELECT id, username, gender, birth_date, age, bio, avatar_url, created_at
		FROM profiles
		WHERE id <> $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var profile models.Profile
		if err := rows.Scan(
			&profile.ID, &profile.Username, &profile.Gender, &profile.BirthDate,
			&profile.Age, &profile.Bio, &profile.AvatarURL, &profile.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	return profiles, nil
}
