package budget

// CategoryRollup is the derived budget exposure for one category.
// Amounts are cents; percentages are of the budgeted amount and are
// zero when nothing is budgeted.
type CategoryRollup struct {
	CategoryID      uint    `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	BudgetedAmount  int64   `json:"budgeted_amount"`
	SpentAmount     int64   `json:"spent_amount"`
	CommittedAmount int64   `json:"committed_amount"`
	AvailableAmount int64   `json:"available_amount"`
	PctSpent        float64 `json:"percentage_spent"`
	PctCommitted    float64 `json:"percentage_committed"`
	PctUsed         float64 `json:"percentage_used"`
	Status          Status  `json:"status"`
}

// Totals is the project-wide sum of rollup fields. Percentages are
// recomputed from the summed amounts rather than averaged across
// categories, so they can diverge slightly from per-category figures
// when zero-budget categories are present. Accepted, not corrected.
type Totals struct {
	BudgetedAmount  int64   `json:"budgeted_amount"`
	SpentAmount     int64   `json:"spent_amount"`
	CommittedAmount int64   `json:"committed_amount"`
	AvailableAmount int64   `json:"available_amount"`
	PctSpent        float64 `json:"percentage_spent"`
	PctCommitted    float64 `json:"percentage_committed"`
	PctUsed         float64 `json:"percentage_used"`
	Status          Status  `json:"status"`
}

// Compute fills the derived fields of a rollup from its budgeted, spent,
// and committed amounts.
func Compute(r *CategoryRollup) {
	r.AvailableAmount = r.BudgetedAmount - r.SpentAmount - r.CommittedAmount
	r.PctSpent = percentage(r.SpentAmount, r.BudgetedAmount)
	r.PctCommitted = percentage(r.CommittedAmount, r.BudgetedAmount)
	r.PctUsed = r.PctSpent + r.PctCommitted
	r.Status = Classify(r.PctUsed, r.BudgetedAmount, r.SpentAmount+r.CommittedAmount)
}

// Sum aggregates per-category rollups into project totals.
func Sum(rollups []CategoryRollup) Totals {
	var t Totals
	for i := range rollups {
		t.BudgetedAmount += rollups[i].BudgetedAmount
		t.SpentAmount += rollups[i].SpentAmount
		t.CommittedAmount += rollups[i].CommittedAmount
		t.AvailableAmount += rollups[i].AvailableAmount
	}
	t.PctSpent = percentage(t.SpentAmount, t.BudgetedAmount)
	t.PctCommitted = percentage(t.CommittedAmount, t.BudgetedAmount)
	t.PctUsed = t.PctSpent + t.PctCommitted
	t.Status = Classify(t.PctUsed, t.BudgetedAmount, t.SpentAmount+t.CommittedAmount)
	return t
}

func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
