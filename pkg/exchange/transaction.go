package exchange

import "time"

// Transaction is an immutable audit record of one completed match.
// SellerID or BuyerID equal to MarketTraderID means the exchange's own
// inventory took that side during an intervention. The log is
// append-only and never read back by the matching engine.
type Transaction struct {
	SellerID int
	BuyerID  int
	Qty      float64
	Price    float64
	Time     time.Time
}
