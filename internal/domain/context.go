package domain

// PropertyContext is read-mostly reference data about a property backing a
// loan. Looked up by Task.PropertyID.
type PropertyContext struct {
	ID            string  `json:"property_id"`
	PropertyType  string  `json:"property_type"`
	OccupancyRate float64 `json:"occupancy_rate"`
	SquareFootage int     `json:"square_footage,omitempty"`
}

// LoanContext is read-mostly reference data about a loan.
// Looked up by Task.LoanID.
type LoanContext struct {
	ID           string  `json:"loan_id"`
	LoanType     string  `json:"loan_type"`
	MaturityDate Date    `json:"maturity_date"`
	DSCRCovenant float64 `json:"dscr_covenant,omitempty"`
}

// CombinedContext is the full picture assembled for one task before text
// generation: the task itself plus whatever reference data resolved.
// It is built fresh each cycle and never persisted.
type CombinedContext struct {
	Task              Task             `json:"task_context"`
	Property          *PropertyContext `json:"property_context,omitempty"`
	Loan              *LoanContext     `json:"loan_context,omitempty"`
	MarketNewsSummary string           `json:"market_news_summary,omitempty"`
}
