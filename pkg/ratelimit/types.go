package ratelimit

import "time"

// Scope selects whose usage records a window scan counts.
type Scope string

const (
	// ScopeGlobal counts every user's records for the operation, making
	// each limit a shared pool. This is the default.
	ScopeGlobal Scope = "global"

	// ScopePerUser counts only the checking user's records, giving each
	// user an independent allowance.
	ScopePerUser Scope = "per_user"
)

// BurstRecommendation advises how to react to detected traffic patterns.
type BurstRecommendation string

const (
	RecommendAllow    BurstRecommendation = "allow"
	RecommendThrottle BurstRecommendation = "throttle"
	RecommendBlock    BurstRecommendation = "block"
)

// DefaultRetryAfter is reported for a blocked operation whose reset time
// could not be computed.
const DefaultRetryAfter = 60 * time.Second

// Permission is the outcome of a single rate-limit check.
type Permission struct {
	Operation string `json:"operation"`
	Allowed   bool   `json:"allowed"`

	// Unlimited marks operations with no configured limit. Remaining,
	// Limit, and ResetsAt carry no meaning when set.
	Unlimited bool `json:"unlimited,omitempty"`

	// Remaining is how many more requests fit in the current window.
	Remaining int `json:"remaining"`

	// Limit is the configured window maximum.
	Limit int `json:"limit"`

	// ResetsAt is when the oldest in-window record ages out, freeing one
	// slot. Zero when the window is empty.
	ResetsAt time.Time `json:"resets_at"`

	// RetryAfter is how long to wait for a freed slot. Set only when the
	// check is denied.
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// BlockedOperation names one denied operation inside an OperationsCheck.
type BlockedOperation struct {
	Operation  string        `json:"operation"`
	RetryAfter time.Duration `json:"retry_after"`
}

// OperationsCheck aggregates independent permission checks over several
// operations.
type OperationsCheck struct {
	AllAllowed  bool               `json:"all_allowed"`
	Permissions []Permission       `json:"permissions"`
	Blocked     []BlockedOperation `json:"blocked,omitempty"`
}

// QuotaEntry is the display projection of one configured limit, e.g.
// "23/50 this hour".
type QuotaEntry struct {
	Operation string        `json:"operation"`
	Used      int           `json:"used"`
	Limit     int           `json:"limit"`
	Remaining int           `json:"remaining"`
	Window    time.Duration `json:"window"`
	ResetsAt  time.Time     `json:"resets_at"`
}

// QuotaStatus projects every configured limit for one user.
type QuotaStatus struct {
	UserID string       `json:"user_id"`
	AsOf   time.Time    `json:"as_of"`
	Quotas []QuotaEntry `json:"quotas"`
}

// BurstAnalysis is the advisory result of burst detection. It never blocks
// anything by itself; callers decide what to do with the recommendation.
type BurstAnalysis struct {
	Operation string `json:"operation"`
	IsBurst   bool   `json:"is_burst"`

	// SampleSize is how many records were examined. Below the configured
	// window size the analysis is inconclusive and never flags a burst.
	SampleSize int `json:"sample_size"`

	// AvgInterval is the mean inter-arrival gap across the sample. Zero
	// when the sample was too small to judge.
	AvgInterval time.Duration `json:"avg_interval"`

	// MinInterval is the burst threshold the sample was compared against.
	MinInterval time.Duration `json:"min_interval"`

	Recommendation BurstRecommendation `json:"recommendation"`
}

// AvailabilityForecast predicts when a number of request slots will be free.
type AvailabilityForecast struct {
	Operation      string `json:"operation"`
	RequestedCount int    `json:"requested_count"`

	// Available reports whether the slots are free right now.
	Available bool `json:"available"`

	// AvailableAt is when the requested slots are expected to be free. It
	// equals the check time when Available is true.
	AvailableAt time.Time `json:"available_at"`
}

// UserBehavior carries the analytics signals adaptive limits react to.
// Producing these numbers is the caller's concern.
type UserBehavior struct {
	// ErrorRate is the fraction of the user's recent requests that failed,
	// in [0, 1].
	ErrorRate float64 `json:"error_rate"`

	// AvgRequestInterval is the user's mean time between requests.
	AvgRequestInterval time.Duration `json:"avg_request_interval"`

	// AccountAge is how long the account has existed.
	AccountAge time.Duration `json:"account_age"`

	// RecentViolations counts recent rate-limit violations.
	RecentViolations int `json:"recent_violations"`
}
