package model

// StockPrice is a current-price quote for one symbol.
type StockPrice struct {
	StockCode    string  `json:"stock_code"`
	CurrentPrice int64   `json:"current_price"`
	ChangePrice  int64   `json:"change_price"`
	ChangeRate   float64 `json:"change_rate"`
	Open         int64   `json:"open"`
	High         int64   `json:"high"`
	Low          int64   `json:"low"`
	Volume       int64   `json:"volume"`
}

// OrderBook is the top of the asking-price book for one symbol.
type OrderBook struct {
	StockCode   string `json:"stock_code"`
	AskPrice    int64  `json:"ask_price"`
	AskQuantity int64  `json:"ask_quantity"`
	BidPrice    int64  `json:"bid_price"`
	BidQuantity int64  `json:"bid_quantity"`
	TotalAskQty int64  `json:"total_ask_qty"`
	TotalBidQty int64  `json:"total_bid_qty"`
}

// Holding is one position row of the account balance.
type Holding struct {
	StockCode    string  `json:"stock_code"`
	StockName    string  `json:"stock_name"`
	Quantity     int64   `json:"quantity"`
	AvgBuyPrice  int64   `json:"avg_buy_price"`
	CurrentPrice int64   `json:"current_price"`
	EvalAmount   int64   `json:"eval_amount"`
	ProfitLoss   int64   `json:"profit_loss"`
	ProfitRate   float64 `json:"profit_rate"`
}

// AccountSummary aggregates the cash and valuation totals of the account.
type AccountSummary struct {
	Deposit         int64 `json:"deposit"`
	TotalBuyAmount  int64 `json:"total_buy_amount"`
	TotalEvalAmount int64 `json:"total_eval_amount"`
	TotalProfitLoss int64 `json:"total_profit_loss"`
}

// Balance is the full account state: positions plus summary.
type Balance struct {
	Holdings []Holding      `json:"holdings"`
	Summary  AccountSummary `json:"summary"`
}

// Deposit is the amount available for new orders.
type Deposit struct {
	AvailableCash  int64 `json:"available_cash"`
	AvailableTotal int64 `json:"available_total"`
}

// OrderResult is the broker response to a buy or sell order.
type OrderResult struct {
	Success   bool   `json:"success"`
	OrderNo   string `json:"order_no,omitempty"`
	OrderTime string `json:"order_time,omitempty"`
	Message   string `json:"message"`
}

// OrderInfo is one row of the daily order list.
type OrderInfo struct {
	OrderNo       string `json:"order_no"`
	StockCode     string `json:"stock_code"`
	StockName     string `json:"stock_name"`
	OrderSide     string `json:"order_side"`
	OrderQty      int64  `json:"order_qty"`
	OrderPrice    int64  `json:"order_price"`
	ExecutedQty   int64  `json:"executed_qty"`
	ExecutedPrice int64  `json:"executed_price"`
	OrderTime     string `json:"order_time"`
}

// IsExecuted reports whether the order is completely filled.
func (o OrderInfo) IsExecuted() bool {
	return o.ExecutedQty == o.OrderQty
}
