package tgCallback

// Callbacks buttons uniques
const (
	SelectPortfolio string = "select_portfolio" // data: <portfolioID>
	PrevPage        string = "prev_page"
	NextPage        string = "next_page"
	RowAction       string = "row_action"    // data: <action>:<rowID>
	HighlightRow    string = "highlight_row" // data: <rowID>
	NewPortfolio    string = "new_portfolio"
	NewTransaction  string = "new_transaction"
	DeletePortfolio string = "delete_portfolio"
	Report          string = "report"
)
