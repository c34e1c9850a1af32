package model

// Session is the part of the dashboard state that survives bot restarts.
type Session struct {
	PortfolioID int64 `json:"portfolio_id"`
	PageNumber  int   `json:"page_number"`
}
