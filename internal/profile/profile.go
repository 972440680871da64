// Package profile stores the user's name and body measurements.
package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
	"go.uber.org/zap"
)

var ErrInvalid = errors.New("invalid profile")

// Profile is persisted under db.KeyUserProfile.
type Profile struct {
	Name     string  `json:"name"`
	HeightCm float64 `json:"height"`
	WeightKg float64 `json:"weight"`
	StrideM  float64 `json:"strideLength"`
}

// Default is the profile used before the user edits anything.
func Default() Profile {
	return Profile{
		Name:     "Imane",
		HeightCm: 165,
		WeightKg: 60,
		StrideM:  0.7,
	}
}

// Validate checks the measurements are physically plausible.
func (p Profile) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalid)
	case p.HeightCm < 50 || p.HeightCm > 272:
		return fmt.Errorf("%w: height %.0f cm", ErrInvalid, p.HeightCm)
	case p.WeightKg < 20 || p.WeightKg > 400:
		return fmt.Errorf("%w: weight %.1f kg", ErrInvalid, p.WeightKg)
	case p.StrideM < 0.2 || p.StrideM > 2:
		return fmt.Errorf("%w: stride %.2f m", ErrInvalid, p.StrideM)
	}
	return nil
}

// Body returns the values step totals are computed from.
func (p Profile) Body() steps.Body {
	return steps.Body{StrideM: p.StrideM, WeightKg: p.WeightKg}
}

// Store persists JSON documents by key.
type Store interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
}

type Repository struct {
	store  Store
	logger *zap.Logger
}

func NewRepository(store Store, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{store: store, logger: logger}
}

// Load returns the saved profile, or Default when none is saved. Missing or
// invalid fields in a saved profile fall back to their defaults.
func (r *Repository) Load() (Profile, error) {
	p := Default()
	found, err := r.store.LoadJSON(db.KeyUserProfile, &p)
	if err != nil {
		return Default(), fmt.Errorf("load profile: %w", err)
	}
	if !found {
		return p, nil
	}
	if err := p.Validate(); err != nil {
		r.logger.Warn("Stored profile is invalid, using defaults", zap.Error(err))
		return Default(), nil
	}
	return p, nil
}

// Save validates and stores p.
func (r *Repository) Save(p Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return err
	}
	if err := r.store.SaveJSON(db.KeyUserProfile, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	r.logger.Info("Profile saved", zap.String("name", p.Name))
	return nil
}
