package catalog

import "time"

// RateLimit is the static configuration for one rate-sensitive operation.
type RateLimit struct {
	// Operation names the action being limited, e.g. "reviews.create".
	Operation string `yaml:"operation" json:"operation"`

	// MaxRequests is the number of requests allowed per window.
	MaxRequests int `yaml:"max_requests" json:"max_requests"`

	// WindowSeconds is the sliding window length in seconds.
	WindowSeconds int `yaml:"window_seconds" json:"window_seconds"`

	// IsAdaptive marks limits derived from user behavior rather than
	// authored in the catalog.
	IsAdaptive bool `yaml:"is_adaptive,omitempty" json:"is_adaptive,omitempty"`
}

// Window returns the sliding window as a duration.
func (r RateLimit) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// AudienceKind discriminates the closed set of audience rules.
type AudienceKind string

const (
	// AudienceAll matches every user.
	AudienceAll AudienceKind = "all"

	// AudiencePercentage matches users whose stable bucket falls below
	// the configured percentage.
	AudiencePercentage AudienceKind = "percentage"

	// AudienceUserIDs matches an explicit list of user ids.
	AudienceUserIDs AudienceKind = "user_ids"

	// AudienceNewUsers is reserved for account-age targeting. Matching is
	// not implemented and always fails closed.
	AudienceNewUsers AudienceKind = "new_users"

	// AudiencePremiumUsers is reserved for plan-tier targeting. Matching is
	// not implemented and always fails closed.
	AudiencePremiumUsers AudienceKind = "premium_users"
)

// Audience selects which users an experiment targets. Kind picks the rule;
// Percentage and UserIDs carry the payload for their respective kinds and
// are ignored otherwise. An omitted audience defaults to AudienceAll.
type Audience struct {
	Kind       AudienceKind `yaml:"kind" json:"kind"`
	Percentage float64      `yaml:"percentage,omitempty" json:"percentage,omitempty"`
	UserIDs    []string     `yaml:"user_ids,omitempty" json:"user_ids,omitempty"`
}

// Variant is one arm of an experiment.
type Variant struct {
	ID string `yaml:"id" json:"id"`

	// Percentage is this variant's share of eligible traffic, 0-100.
	// Shares may sum to less than 100; unallocated traffic sees control.
	Percentage float64 `yaml:"percentage" json:"percentage"`

	// IsControl marks the baseline arm. When no variant is marked, the
	// first declared variant serves as control.
	IsControl bool `yaml:"is_control,omitempty" json:"is_control,omitempty"`

	// Payload is opaque variant configuration handed back to the caller.
	Payload map[string]any `yaml:"payload,omitempty" json:"payload,omitempty"`
}

// Experiment is a named A/B test with weighted variants and an audience.
type Experiment struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name,omitempty" json:"name,omitempty"`
	Variants []Variant `yaml:"variants" json:"variants"`
	Audience Audience  `yaml:"audience" json:"audience"`
	IsActive bool      `yaml:"is_active" json:"is_active"`

	// StartDate and EndDate record the planned run window. They are
	// descriptive: assignment keys on IsActive alone, so an experiment past
	// its end date keeps assigning until it is deactivated.
	StartDate *time.Time `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"`
}

// ControlVariant returns the first variant flagged as control, falling back
// to the first declared variant. Experiments with no variants return a zero
// Variant; validation rejects such catalogs.
func (e Experiment) ControlVariant() Variant {
	for _, v := range e.Variants {
		if v.IsControl {
			return v
		}
	}
	if len(e.Variants) > 0 {
		return e.Variants[0]
	}
	return Variant{}
}

// FeatureFlag is an on/off switch with optional gradual rollout or explicit
// user targeting.
type FeatureFlag struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	IsEnabled bool   `yaml:"is_enabled" json:"is_enabled"`

	// RolloutPercentage, when set, gates the flag by stable user bucket.
	// It takes precedence over TargetUserIDs.
	RolloutPercentage *float64 `yaml:"rollout_percentage,omitempty" json:"rollout_percentage,omitempty"`

	// TargetUserIDs, when non-empty, restricts the flag to the listed users.
	TargetUserIDs []string `yaml:"target_user_ids,omitempty" json:"target_user_ids,omitempty"`
}

// Catalog bundles every decision input the engine consumes. Rate limits are
// keyed by operation; experiments and flags by id.
type Catalog struct {
	RateLimits  map[string]RateLimit
	Experiments map[string]Experiment
	Flags       map[string]FeatureFlag
}

// Empty returns a catalog with no entries. Every lookup misses, which makes
// rate limit checks fail open and flag checks fail closed.
func Empty() *Catalog {
	return &Catalog{
		RateLimits:  map[string]RateLimit{},
		Experiments: map[string]Experiment{},
		Flags:       map[string]FeatureFlag{},
	}
}
