package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Finding severities. Errors make a catalog unloadable; warnings flag
// suspicious-but-legal configuration.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is one catalog validation problem. Lint reports every finding;
// Load and Parse fail on the first error-severity finding.
type Finding struct {
	Section  string `json:"section"`
	ID       string `json:"id,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func (f Finding) String() string {
	if f.ID == "" {
		return fmt.Sprintf("%s: %s", f.Section, f.Message)
	}
	return fmt.Sprintf("%s %q: %s", f.Section, f.ID, f.Message)
}

func errorf(section, id, format string, args ...any) Finding {
	return Finding{Section: section, ID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnf(section, id, format string, args ...any) Finding {
	return Finding{Section: section, ID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

// catalogFile is the YAML wire form. Entries are lists so that authoring
// order is visible during validation; Parse indexes them into maps.
type catalogFile struct {
	RateLimits   []RateLimit   `yaml:"rate_limits"`
	Experiments  []Experiment  `yaml:"experiments"`
	FeatureFlags []FeatureFlag `yaml:"feature_flags"`
}

// Load reads, parses, and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse parses and validates catalog YAML. Warnings do not block parsing.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	file.applyDefaults()

	for _, finding := range file.lint() {
		if finding.Severity == SeverityError {
			return nil, fmt.Errorf("invalid catalog: %s", finding)
		}
	}

	return file.build(), nil
}

// Lint parses catalog YAML and reports every validation problem instead of
// stopping at the first. A syntax error yields a single file-level finding.
func Lint(data []byte) []Finding {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return []Finding{{Section: "file", Message: err.Error(), Severity: SeverityError}}
	}

	file.applyDefaults()
	return file.lint()
}

func (f *catalogFile) applyDefaults() {
	for i := range f.Experiments {
		if f.Experiments[i].Audience.Kind == "" {
			f.Experiments[i].Audience.Kind = AudienceAll
		}
	}
}

func (f *catalogFile) lint() []Finding {
	var findings []Finding

	seen := make(map[string]bool, len(f.RateLimits))
	for _, rl := range f.RateLimits {
		findings = append(findings, lintRateLimit(rl, seen)...)
	}

	seen = make(map[string]bool, len(f.Experiments))
	for _, exp := range f.Experiments {
		findings = append(findings, lintExperiment(exp, seen)...)
	}

	seen = make(map[string]bool, len(f.FeatureFlags))
	for _, flag := range f.FeatureFlags {
		findings = append(findings, lintFlag(flag, seen)...)
	}

	return findings
}

func lintRateLimit(rl RateLimit, seen map[string]bool) []Finding {
	const section = "rate_limits"

	if rl.Operation == "" {
		return []Finding{errorf(section, "", "operation must not be empty")}
	}

	var findings []Finding
	if seen[rl.Operation] {
		findings = append(findings, errorf(section, rl.Operation, "duplicate operation"))
	}
	seen[rl.Operation] = true

	if rl.MaxRequests <= 0 {
		findings = append(findings, errorf(section, rl.Operation, "max_requests must be positive"))
	}
	if rl.WindowSeconds <= 0 {
		findings = append(findings, errorf(section, rl.Operation, "window_seconds must be positive"))
	}
	return findings
}

func lintExperiment(exp Experiment, seen map[string]bool) []Finding {
	const section = "experiments"

	if exp.ID == "" {
		return []Finding{errorf(section, "", "id must not be empty")}
	}

	var findings []Finding
	if seen[exp.ID] {
		findings = append(findings, errorf(section, exp.ID, "duplicate id"))
	}
	seen[exp.ID] = true

	if len(exp.Variants) == 0 {
		findings = append(findings, errorf(section, exp.ID, "at least one variant is required"))
	}

	total := 0.0
	controls := 0
	variantIDs := make(map[string]bool, len(exp.Variants))
	for _, v := range exp.Variants {
		if v.ID == "" {
			findings = append(findings, errorf(section, exp.ID, "variant id must not be empty"))
			continue
		}
		if variantIDs[v.ID] {
			findings = append(findings, errorf(section, exp.ID, "duplicate variant id %q", v.ID))
		}
		variantIDs[v.ID] = true

		if v.Percentage < 0 || v.Percentage > 100 {
			findings = append(findings, errorf(section, exp.ID, "variant %q percentage %v outside [0, 100]", v.ID, v.Percentage))
		}
		total += v.Percentage
		if v.IsControl {
			controls++
		}
	}

	if total > 100 {
		findings = append(findings, errorf(section, exp.ID, "variant percentages sum to %v, must not exceed 100", total))
	}
	if controls > 1 {
		findings = append(findings, warnf(section, exp.ID, "more than one control variant; the first declared wins"))
	}
	if exp.StartDate != nil && exp.EndDate != nil && exp.EndDate.Before(*exp.StartDate) {
		findings = append(findings, errorf(section, exp.ID, "end_date precedes start_date"))
	}

	findings = append(findings, lintAudience(exp)...)
	return findings
}

func lintAudience(exp Experiment) []Finding {
	const section = "experiments"
	aud := exp.Audience

	switch aud.Kind {
	case AudienceAll:
		return nil
	case AudienceNewUsers, AudiencePremiumUsers:
		return []Finding{warnf(section, exp.ID, "audience kind %q is not implemented and matches nobody", aud.Kind)}
	case AudiencePercentage:
		if aud.Percentage < 0 || aud.Percentage > 100 {
			return []Finding{errorf(section, exp.ID, "audience percentage %v outside [0, 100]", aud.Percentage)}
		}
		return nil
	case AudienceUserIDs:
		if len(aud.UserIDs) == 0 {
			return []Finding{warnf(section, exp.ID, "user_ids audience with empty list matches nobody")}
		}
		return nil
	default:
		return []Finding{errorf(section, exp.ID, "unknown audience kind %q", aud.Kind)}
	}
}

func lintFlag(flag FeatureFlag, seen map[string]bool) []Finding {
	const section = "feature_flags"

	if flag.ID == "" {
		return []Finding{errorf(section, "", "id must not be empty")}
	}

	var findings []Finding
	if seen[flag.ID] {
		findings = append(findings, errorf(section, flag.ID, "duplicate id"))
	}
	seen[flag.ID] = true

	if p := flag.RolloutPercentage; p != nil && (*p < 0 || *p > 100) {
		findings = append(findings, errorf(section, flag.ID, "rollout_percentage %v outside [0, 100]", *p))
	}
	return findings
}

func (f *catalogFile) build() *Catalog {
	c := Empty()
	for _, rl := range f.RateLimits {
		c.RateLimits[rl.Operation] = rl
	}
	for _, exp := range f.Experiments {
		c.Experiments[exp.ID] = exp
	}
	for _, flag := range f.FeatureFlags {
		c.Flags[flag.ID] = flag
	}
	return c
}
