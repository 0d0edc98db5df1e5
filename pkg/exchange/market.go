package exchange

import "math"

// NoPrice is the sentinel returned by the best-price views when that
// side of the book is empty.
const NoPrice = -1.0

// Finalizer settles completed trades against trader wallets and
// records them in the audit trail. The Exchange aggregate implements
// it; the Market never touches a wallet directly.
type Finalizer interface {
	FinalizeSell(traderID int, qty, price float64)
	FinalizeBuy(traderID int, qty, intended, actual float64)
	RecordMatch(sellerID, buyerID int, qty, price float64)
}

// Market owns the two-sided book and the matching algorithm. It never
// rejects an order: validation and escrow happen at the trader
// boundary, so every order reaching the book is covered by blocked
// funds.
type Market struct {
	asks *orderQueue
	bids *orderQueue
}

// NewMarket creates an empty two-sided book.
func NewMarket() *Market {
	return &Market{asks: newAskQueue(), bids: newBidQueue()}
}

// SubmitSell rests the ask and runs the matching loop.
func (m *Market) SubmitSell(o Order, fin Finalizer) {
	m.asks.push(o)
	m.crossMatch(fin)
}

// SubmitBuy rests the bid and runs the matching loop.
func (m *Market) SubmitBuy(o Order, fin Finalizer) {
	m.bids.push(o)
	m.crossMatch(fin)
}

// crossMatch trades the best ask against the best bid for as long as
// they cross. Every trade executes at the resting ask's limit price,
// regardless of which side arrived later; the buyer is refunded the
// difference to its own limit in FinalizeBuy. Whichever side has
// quantity left over after a trade re-enters the book as a new order
// at its original price.
func (m *Market) crossMatch(fin Finalizer) {
	for {
		ask, okAsk := m.asks.peek()
		bid, okBid := m.bids.peek()
		if !okAsk || !okBid || ask.Price > bid.Price+Eps {
			return
		}
		m.asks.pop()
		m.bids.pop()

		qty := math.Min(ask.Qty, bid.Qty)
		price := ask.Price
		if bid.Qty > qty {
			m.bids.push(Order{Side: Buy, TraderID: bid.TraderID, Qty: bid.Qty - qty, Price: bid.Price})
		}
		if ask.Qty > qty {
			m.asks.push(Order{Side: Sell, TraderID: ask.TraderID, Qty: ask.Qty - qty, Price: ask.Price})
		}

		fin.FinalizeSell(ask.TraderID, qty, price)
		fin.FinalizeBuy(bid.TraderID, qty, bid.Price, price)
		fin.RecordMatch(ask.TraderID, bid.TraderID, qty, price)
	}
}

// Intervene pins the price near target by removing all standing
// liquidity that already agrees with it: the exchange's own inventory
// sells to every bid at or above target and buys from every ask at or
// below it, each at that order's own quoted price. With no new
// submissions in between, a second call finds nothing left in the band
// and is a no-op.
func (m *Market) Intervene(target float64, fin Finalizer) {
	for {
		bid, ok := m.bids.peek()
		if !ok || bid.Price < target-Eps {
			break
		}
		m.bids.pop()
		fin.FinalizeBuy(bid.TraderID, bid.Qty, bid.Price, bid.Price)
		fin.RecordMatch(MarketTraderID, bid.TraderID, bid.Qty, bid.Price)
	}
	for {
		ask, ok := m.asks.peek()
		if !ok || ask.Price > target+Eps {
			break
		}
		m.asks.pop()
		fin.FinalizeSell(ask.TraderID, ask.Qty, ask.Price)
		fin.RecordMatch(ask.TraderID, MarketTraderID, ask.Qty, ask.Price)
	}
}

// BestAskPrice returns the lowest resting ask price, or NoPrice if
// there are no asks.
func (m *Market) BestAskPrice() float64 {
	if o, ok := m.asks.peek(); ok {
		return o.Price
	}
	return NoPrice
}

// BestBidPrice returns the highest resting bid price, or NoPrice if
// there are no bids.
func (m *Market) BestBidPrice() float64 {
	if o, ok := m.bids.peek(); ok {
		return o.Price
	}
	return NoPrice
}

// TotalQuoteDemand sums price*qty over all resting bids: the total
// reference currency committed to the buy side.
func (m *Market) TotalQuoteDemand() float64 {
	var total float64
	for _, o := range m.bids.orders {
		total += o.Price * o.Qty
	}
	return total
}

// TotalBaseSupply sums the quantity over all resting asks: the total
// coins offered on the sell side.
func (m *Market) TotalBaseSupply() float64 {
	var total float64
	for _, o := range m.asks.orders {
		total += o.Qty
	}
	return total
}

// AskCount returns the number of resting asks.
func (m *Market) AskCount() int { return m.asks.Len() }

// BidCount returns the number of resting bids.
func (m *Market) BidCount() int { return m.bids.Len() }
