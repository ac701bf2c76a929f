// Package budget holds the pure cost-control arithmetic: per-category
// rollups of budgeted vs spent vs committed money, and the classification
// of those numbers into alert tiers. Nothing here touches the database,
// so every consumer shares the exact same thresholds.
package budget

// Status is the three-tier alert state for a budget bucket.
type Status string

const (
	StatusOnBudget   Status = "on_budget"
	StatusNearLimit  Status = "near_limit"
	StatusOverBudget Status = "over_budget"
)

// Classification thresholds, in percent of the budgeted amount.
const (
	NearLimitThreshold  = 85.0
	OverBudgetThreshold = 100.0
)

// Classify maps rollup numbers to an alert tier.
//
// exposure is spent+committed and matters only when budgetedAmount is
// zero: a category with no allocation but real spending must be flagged
// over budget even though its percentage computes to zero.
func Classify(percentUsed float64, budgetedAmount, exposure int64) Status {
	if budgetedAmount == 0 {
		if exposure > 0 {
			return StatusOverBudget
		}
		return StatusOnBudget
	}
	switch {
	case percentUsed > OverBudgetThreshold:
		return StatusOverBudget
	case percentUsed >= NearLimitThreshold:
		return StatusNearLimit
	default:
		return StatusOnBudget
	}
}
