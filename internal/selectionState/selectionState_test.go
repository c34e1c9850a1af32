package selectionState

import (
	"testing"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

var portfolios = []model.Portfolio{
	{ID: 1, Name: "Main"},
	{ID: 2, Name: "Long term"},
}

func TestSelectPortfolio(t *testing.T) {
	state, portfolio, ok := State{}.SelectPortfolio(portfolios, 2)

	assert.True(t, ok)
	assert.Equal(t, "Long term", portfolio.Name)
	assert.Equal(t, int64(2), state.PortfolioID)
}

func TestSelectUnknownPortfolioClearsSelection(t *testing.T) {
	state := State{PortfolioID: 1, RowID: 5}

	state, portfolio, ok := state.SelectPortfolio(portfolios, 42)

	assert.False(t, ok)
	assert.Equal(t, model.Portfolio{}, portfolio)
	assert.False(t, state.HasPortfolio())
	assert.Equal(t, NoSelection, state.RowID)
}

func TestSelectAnotherPortfolioClearsRowHighlight(t *testing.T) {
	state := State{PortfolioID: 1, RowID: 5}

	state, _, _ = state.SelectPortfolio(portfolios, 2)
	assert.Equal(t, State{PortfolioID: 2}, state)

	state = state.HighlightRow(9)
	state, _, _ = state.SelectPortfolio(portfolios, 2)
	assert.Equal(t, State{PortfolioID: 2, RowID: 9}, state)
}

func TestHighlightRowToggles(t *testing.T) {
	state := State{PortfolioID: 1}

	state = state.HighlightRow(3)
	assert.Equal(t, int64(3), state.RowID)

	state = state.HighlightRow(4)
	assert.Equal(t, int64(4), state.RowID)

	state = state.HighlightRow(4)
	assert.Equal(t, NoSelection, state.RowID)
}

func TestActive(t *testing.T) {
	_, ok := State{}.Active(portfolios)
	assert.False(t, ok)

	_, ok = State{PortfolioID: 3}.Active(portfolios)
	assert.False(t, ok)

	portfolio, ok := State{PortfolioID: 1}.Active(portfolios)
	assert.True(t, ok)
	assert.Equal(t, "Main", portfolio.Name)
}
