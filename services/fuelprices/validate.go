package fuelprices

import "fmt"

// ValidationResult records how complete one fuel kind's extraction was
// against the expected baseline.
type ValidationResult struct {
	Kind      Kind
	Extracted int
	Expected  int
	Ratio     float64
	Passed    bool
}

// ValidationError is fatal for the whole run: losing too many entries
// means the source broke structurally, and a partial snapshot must not
// replace the published one.
type ValidationError struct {
	Result    ValidationResult
	Threshold float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf(
		"validation failed for %s: extracted %d of expected %d (ratio %.2f < %.2f)",
		e.Result.Kind, e.Result.Extracted, e.Result.Expected, e.Result.Ratio, e.Threshold,
	)
}

// Validate computes the extraction ratio for one fuel kind. The
// baseline is the prior snapshot's entry count when one exists (so the
// expectation grows with coverage), otherwise the configured minimum.
func Validate(entries []PriceEntry, kind Kind, baseline int, threshold float64) ValidationResult {
	extracted := len(entries)
	ratio := 0.0
	if baseline > 0 {
		ratio = float64(extracted) / float64(baseline)
	}
	return ValidationResult{
		Kind:      kind,
		Extracted: extracted,
		Expected:  baseline,
		Ratio:     ratio,
		Passed:    ratio >= threshold,
	}
}
