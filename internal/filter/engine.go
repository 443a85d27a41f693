package filter

import "github.com/silent2803/NurtiDuo/internal/models"

// Age bounds for the browse filter sliders.
const (
	MinAge = 13
	MaxAge = 65
)

// Config holds the candidate filter settings. Transient and client-only,
// never persisted across sessions.
type Config struct {
	MinAge        int  `json:"min_age"`
	MaxAge        int  `json:"max_age"`
	IncludeMale   bool `json:"include_male"`
	IncludeFemale bool `json:"include_female"`
}

// DefaultConfig returns the filter settings used on application start.
func DefaultConfig() Config {
	return Config{
		MinAge:        MinAge,
		MaxAge:        MaxAge,
		IncludeMale:   true,
		IncludeFemale: true,
	}
}

// Engine applies an age-range and gender predicate to a candidate pool.
// The min/max invariant is kept by clamping the other bound, never by
// rejecting input.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the default configuration.
func NewEngine() *Engine {
	return &Engine{cfg: DefaultConfig()}
}

// Config returns the current filter configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetMinAge sets the lower age bound. The value is clamped to [MinAge, MaxAge];
// dragging the minimum past the maximum pushes the maximum up.
func (e *Engine) SetMinAge(v int) {
	v = clampAge(v)
	e.cfg.MinAge = v
	if v > e.cfg.MaxAge {
		e.cfg.MaxAge = v
	}
}

// SetMaxAge sets the upper age bound. The value is clamped to [MinAge, MaxAge];
// dragging the maximum past the minimum pushes the minimum down.
func (e *Engine) SetMaxAge(v int) {
	v = clampAge(v)
	e.cfg.MaxAge = v
	if v < e.cfg.MinAge {
		e.cfg.MinAge = v
	}
}

// SetGenderIncluded toggles a gender flag. Both flags false is legal and
// yields an empty result. Genders other than male/female have no flag and are
// never matched.
func (e *Engine) SetGenderIncluded(gender models.Gender, included bool) {
	switch gender {
	case models.GenderMale:
		e.cfg.IncludeMale = included
	case models.GenderFemale:
		e.cfg.IncludeFemale = included
	}
}

// Apply returns the candidates visible under the current configuration,
// preserving pool order. Pure: no side effects, same inputs give same output.
func (e *Engine) Apply(pool []models.Candidate) []models.Candidate {
	return Apply(e.cfg, pool)
}

// Apply returns the candidates from pool that match cfg, preserving order.
func Apply(cfg Config, pool []models.Candidate) []models.Candidate {
	visible := make([]models.Candidate, 0, len(pool))
	for _, c := range pool {
		if !matches(cfg, c) {
			continue
		}
		visible = append(visible, c)
	}
	return visible
}

func matches(cfg Config, c models.Candidate) bool {
	if c.Age < cfg.MinAge || c.Age > cfg.MaxAge {
		return false
	}
	switch c.Gender {
	case models.GenderMale:
		return cfg.IncludeMale
	case models.GenderFemale:
		return cfg.IncludeFemale
	default:
		return false
	}
}

func clampAge(v int) int {
	if v < MinAge {
		return MinAge
	}
	if v > MaxAge {
		return MaxAge
	}
	return v
}
