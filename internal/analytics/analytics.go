package analytics

// Summary is the headline rollup over the scoped expenses.
type Summary struct {
	TotalExpenses  float64 `json:"totalExpenses"`
	TotalCount     int64   `json:"totalCount"`
	AverageExpense float64 `json:"averageExpense"`
}

// CategoryStat is the per-category rollup. Categories with no matching
// expenses are never emitted.
type CategoryStat struct {
	Category      string  `json:"category"`
	TotalAmount   float64 `json:"totalAmount"`
	Count         int64   `json:"count"`
	AverageAmount float64 `json:"averageAmount"`
}

// MonthlyStat is one "YYYY-MM" bucket within the trailing twelve months.
type MonthlyStat struct {
	Month       string  `json:"month"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int64   `json:"count"`
}

// StatusStat is the per-status rollup, only present in the admin payload.
type StatusStat struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// Payload is the full analytics response. StatusBreakdown is empty in the
// personal (scoped) view.
type Payload struct {
	Summary         Summary        `json:"summary"`
	CategoryStats   []CategoryStat `json:"categoryStats"`
	MonthlyStats    []MonthlyStat  `json:"monthlyStats"`
	StatusBreakdown []StatusStat   `json:"statusBreakdown"`
}
