package exchange

import (
	"go.uber.org/zap"

	"github.com/pqoin/exchange/pkg/metrics"
	"github.com/pqoin/exchange/pkg/util"
)

// Exchange aggregates the market, the trader registry, the transaction
// log and the two process counters. Nothing is package-global: the
// whole state of a run lives in one Exchange value and the same
// command sequence always reproduces the same ledgers.
//
// Every operation runs to completion before the next one; there is no
// notion of concurrent submission.
type Exchange struct {
	feePerMille int

	market  *Market
	traders []*Trader
	txs     []Transaction

	matches int
	invalid int

	clock util.Clock
	log   *zap.SugaredLogger
	met   *metrics.Metrics
}

// Balance is one trader's total holdings, blocked funds included.
type Balance struct {
	TraderID int
	Quote    float64
	Base     float64
}

// New creates an exchange charging feePerMille units per 1000 units of
// quote traded. Trader 0, the exchange's own inventory, is created
// here. A nil logger disables logging; nil metrics get a private
// registry.
func New(feePerMille int, logger *zap.Logger, met *metrics.Metrics) *Exchange {
	if logger == nil {
		logger = zap.NewNop()
	}
	if met == nil {
		met = metrics.New()
	}
	ex := &Exchange{
		feePerMille: feePerMille,
		market:      NewMarket(),
		clock:       util.RealClock{},
		log:         logger.Sugar(),
		met:         met,
	}
	ex.NewTrader(0, 0)
	return ex
}

// SetClock overrides the transaction timestamp source.
func (ex *Exchange) SetClock(c util.Clock) { ex.clock = c }

// NewTrader registers a trader with the given initial balances and
// returns its id. IDs ascend from zero; id 0 is the exchange itself.
func (ex *Exchange) NewTrader(quote, base float64) int {
	id := len(ex.traders)
	ex.traders = append(ex.traders, newTrader(id, quote, base))
	return id
}

// NumTraders returns the registry size, the exchange's own trader
// included.
func (ex *Exchange) NumTraders() int { return len(ex.traders) }

func (ex *Exchange) trader(id int) (*Trader, error) {
	if id < 0 || id >= len(ex.traders) {
		return nil, ErrNoTrader
	}
	return ex.traders[id], nil
}

// fail counts an invalid request and hands the error back.
func (ex *Exchange) fail(err error, op string, traderID int) error {
	ex.invalid++
	ex.met.InvalidRequestsTotal.Inc()
	ex.log.Debugw("request rejected", "op", op, "trader", traderID, "reason", err)
	return err
}

// Buy places a limit bid for the trader. A rejected request counts as
// invalid and changes nothing.
func (ex *Exchange) Buy(traderID int, qty, price float64) error {
	t, err := ex.trader(traderID)
	if err != nil {
		return ex.fail(err, "buy", traderID)
	}
	if err := t.PlaceBuy(qty, price, ex.market, ex); err != nil {
		return ex.fail(err, "buy", traderID)
	}
	return nil
}

// Sell places a limit ask for the trader.
func (ex *Exchange) Sell(traderID int, qty, price float64) error {
	t, err := ex.trader(traderID)
	if err != nil {
		return ex.fail(err, "sell", traderID)
	}
	if err := t.PlaceSell(qty, price, ex.market, ex); err != nil {
		return ex.fail(err, "sell", traderID)
	}
	return nil
}

// BuyAtBest places a bid at the current best ask price. Counts as
// invalid when the ask side is empty.
func (ex *Exchange) BuyAtBest(traderID int, qty float64) error {
	price := ex.market.BestAskPrice()
	if price < 0 {
		return ex.fail(ErrEmptyBook, "buy_at_best", traderID)
	}
	return ex.Buy(traderID, qty, price)
}

// SellAtBest places an ask at the current best bid price. Counts as
// invalid when the bid side is empty.
func (ex *Exchange) SellAtBest(traderID int, qty float64) error {
	price := ex.market.BestBidPrice()
	if price < 0 {
		return ex.fail(ErrEmptyBook, "sell_at_best", traderID)
	}
	return ex.Sell(traderID, qty, price)
}

// Deposit adds reference currency to the trader's available balance.
func (ex *Exchange) Deposit(traderID int, amount float64) error {
	t, err := ex.trader(traderID)
	if err != nil {
		return ex.fail(err, "deposit", traderID)
	}
	t.Deposit(amount)
	return nil
}

// Withdraw removes reference currency if the available balance covers
// it; otherwise counts as invalid.
func (ex *Exchange) Withdraw(traderID int, amount float64) error {
	t, err := ex.trader(traderID)
	if err != nil {
		return ex.fail(err, "withdraw", traderID)
	}
	if err := t.Withdraw(amount); err != nil {
		return ex.fail(err, "withdraw", traderID)
	}
	return nil
}

// CreditBase mints coins into the trader's available balance. Used by
// the reward operation; this is the only way base enters the system.
func (ex *Exchange) CreditBase(traderID int, amount float64) error {
	t, err := ex.trader(traderID)
	if err != nil {
		return ex.fail(err, "credit_base", traderID)
	}
	t.CreditBase(amount)
	return nil
}

// Intervene runs an open-market operation pinning the price near
// target; see Market.Intervene.
func (ex *Exchange) Intervene(target float64) {
	ex.log.Infow("market intervention", "target", target)
	ex.market.Intervene(target, ex)
	ex.met.InterventionsTotal.Inc()
}

// FinalizeSell implements Finalizer: the seller's wallet is settled
// and the exchange's fee is accounted.
func (ex *Exchange) FinalizeSell(traderID int, qty, price float64) {
	ex.traders[traderID].FinalizeSell(qty, price, ex.feePerMille)
	ex.met.FeesCollected.Add(qty * price * float64(ex.feePerMille) / 1000)
}

// FinalizeBuy implements Finalizer.
func (ex *Exchange) FinalizeBuy(traderID int, qty, intended, actual float64) {
	ex.traders[traderID].FinalizeBuy(qty, intended, actual)
}

// RecordMatch implements Finalizer: one transaction appended, one
// counter tick.
func (ex *Exchange) RecordMatch(sellerID, buyerID int, qty, price float64) {
	ex.txs = append(ex.txs, Transaction{
		SellerID: sellerID,
		BuyerID:  buyerID,
		Qty:      qty,
		Price:    price,
		Time:     ex.clock.Now(),
	})
	ex.matches++
	ex.met.MatchesTotal.Inc()
	ex.met.TradedQuoteVolume.Add(qty * price)
	ex.log.Debugw("match", "seller", sellerID, "buyer", buyerID, "qty", qty, "price", price)
}

// Balances returns one trader's total holdings, blocked included.
func (ex *Exchange) Balances(traderID int) (Balance, error) {
	t, err := ex.trader(traderID)
	if err != nil {
		return Balance{}, err
	}
	return Balance{TraderID: traderID, Quote: t.TotalQuote(), Base: t.TotalBase()}, nil
}

// AllBalances returns every trader's total holdings in id order.
func (ex *Exchange) AllBalances() []Balance {
	out := make([]Balance, len(ex.traders))
	for i, t := range ex.traders {
		out[i] = Balance{TraderID: i, Quote: t.TotalQuote(), Base: t.TotalBase()}
	}
	return out
}

// MarketSize returns the aggregate book views: total quote committed
// to bids and total base offered in asks.
func (ex *Exchange) MarketSize() (quoteDemand, baseSupply float64) {
	return ex.market.TotalQuoteDemand(), ex.market.TotalBaseSupply()
}

// BestBidPrice returns the best resting bid price, or NoPrice.
func (ex *Exchange) BestBidPrice() float64 { return ex.market.BestBidPrice() }

// BestAskPrice returns the best resting ask price, or NoPrice.
func (ex *Exchange) BestAskPrice() float64 { return ex.market.BestAskPrice() }

// Prices reports best bid, best ask and their midpoint for display.
// An empty side reads as zero; with one side empty the midpoint is the
// other side's price, and an empty book reads as all zeros.
func (ex *Exchange) Prices() (bid, ask, mid float64) {
	bid = ex.market.BestBidPrice()
	ask = ex.market.BestAskPrice()
	switch {
	case bid < 0 && ask < 0:
		return 0, 0, 0
	case ask < 0:
		return bid, 0, bid
	case bid < 0:
		return 0, ask, ask
	default:
		return bid, ask, (bid + ask) / 2
	}
}

// Matches returns the number of completed matches.
func (ex *Exchange) Matches() int { return ex.matches }

// InvalidRequests returns the number of rejected requests.
func (ex *Exchange) InvalidRequests() int { return ex.invalid }

// Transactions returns a copy of the audit log in execution order.
func (ex *Exchange) Transactions() []Transaction {
	out := make([]Transaction, len(ex.txs))
	copy(out, ex.txs)
	return out
}

// FeePerMille returns the exchange's fee rate.
func (ex *Exchange) FeePerMille() int { return ex.feePerMille }
