package assign

import (
	"time"

	"github.com/google/uuid"

	"arbiter-hq/arbiter/pkg/catalog"
)

// ExposureEvent records that a user was shown a variant. Construction is
// pure; persisting or shipping the event is the caller's concern.
type ExposureEvent struct {
	ID           string    `json:"id"`
	ExperimentID string    `json:"experiment_id"`
	VariantID    string    `json:"variant_id"`
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Assigner deterministically assigns users to experiment variants and
// evaluates feature flags.
type Assigner struct {
	hasher  Hasher
	matcher Matcher
}

// NewAssigner creates an Assigner.
func NewAssigner() *Assigner {
	return &Assigner{}
}

// GetVariant returns the variant of exp shown to userID.
//
// Inactive experiments and audience mismatches resolve to the control
// variant. Otherwise the bucket of "<userID>-<experimentID>" walks the
// variants in declared order, accumulating percentage shares; the first
// variant whose cumulative share exceeds the bucket wins. When the shares
// sum to less than 100 and no variant reaches the bucket, control is
// returned.
func (a *Assigner) GetVariant(userID string, exp catalog.Experiment) catalog.Variant {
	if !exp.IsActive || !a.matcher.InAudience(userID, exp.Audience) {
		return exp.ControlVariant()
	}

	bucket := a.hasher.Bucket(userID + "-" + exp.ID)

	cumulative := 0.0
	for _, v := range exp.Variants {
		cumulative += v.Percentage
		if bucket < cumulative {
			return v
		}
	}

	return exp.ControlVariant()
}

// FlagEnabled reports whether flag is on for userID.
//
// Disabled flags are always off. A rollout percentage, when present, gates
// by the bucket of "<userID>-<flagID>" and takes precedence over the target
// list. Otherwise a non-empty target list grants access by exact membership,
// and a flag with neither gate is on for everyone.
func (a *Assigner) FlagEnabled(userID string, flag catalog.FeatureFlag) bool {
	if !flag.IsEnabled {
		return false
	}

	if flag.RolloutPercentage != nil {
		return a.hasher.Bucket(userID+"-"+flag.ID) < *flag.RolloutPercentage
	}

	if len(flag.TargetUserIDs) > 0 {
		for _, id := range flag.TargetUserIDs {
			if id == userID {
				return true
			}
		}
		return false
	}

	return true
}

// TrackExposure builds the exposure event for an assignment.
func (a *Assigner) TrackExposure(experimentID, variantID, userID string) ExposureEvent {
	return ExposureEvent{
		ID:           uuid.New().String(),
		ExperimentID: experimentID,
		VariantID:    variantID,
		UserID:       userID,
		Timestamp:    time.Now().UTC(),
	}
}
