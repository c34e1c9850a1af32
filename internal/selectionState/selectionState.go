// Package selectionState tracks the active portfolio and the highlighted asset row.
package selectionState

import "github.com/KotFed0t/portfolio_dashboard_bot/internal/model"

// NoSelection marks the absence of a selected portfolio or row.
const NoSelection int64 = 0

type State struct {
	PortfolioID int64
	RowID       int64
}

// Find looks the portfolio up by id.
func Find(portfolios []model.Portfolio, id int64) (model.Portfolio, bool) {
	for _, portfolio := range portfolios {
		if portfolio.ID == id {
			return portfolio, true
		}
	}
	return model.Portfolio{}, false
}

// SelectPortfolio clears the previous selection and selects id.
// An id missing from portfolios leaves nothing selected.
func (s State) SelectPortfolio(portfolios []model.Portfolio, id int64) (State, model.Portfolio, bool) {
	next := State{PortfolioID: NoSelection, RowID: NoSelection}

	portfolio, ok := Find(portfolios, id)
	if !ok {
		return next, model.Portfolio{}, false
	}

	next.PortfolioID = portfolio.ID
	if portfolio.ID == s.PortfolioID {
		next.RowID = s.RowID
	}
	return next, portfolio, true
}

// HighlightRow toggles the row highlight: the highlighted row is cleared, any other replaces it.
func (s State) HighlightRow(rowID int64) State {
	if s.RowID == rowID {
		s.RowID = NoSelection
		return s
	}
	s.RowID = rowID
	return s
}

func (s State) HasPortfolio() bool {
	return s.PortfolioID != NoSelection
}

// Active returns the selected portfolio if it is still part of portfolios.
func (s State) Active(portfolios []model.Portfolio) (model.Portfolio, bool) {
	if !s.HasPortfolio() {
		return model.Portfolio{}, false
	}
	return Find(portfolios, s.PortfolioID)
}
