package marketModel

// TickerPrice is an element of /api/v3/ticker/price response.
type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type ApiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
