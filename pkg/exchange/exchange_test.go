package exchange

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pqoin/exchange/pkg/util"
)

func newTestExchange(t *testing.T, feePerMille int) *Exchange {
	t.Helper()
	ex := New(feePerMille, nil, nil)
	ex.SetClock(util.FixedClock{T: time.Unix(1700000000, 0)})
	return ex
}

func TestFullMatchWithFee(t *testing.T) {
	ex := newTestExchange(t, 10) // 1%

	a := ex.NewTrader(1000, 0)
	b := ex.NewTrader(0, 100)

	if err := ex.Sell(b, 50, 2.0); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if err := ex.Buy(a, 50, 2.0); err != nil {
		t.Fatalf("buy: %v", err)
	}

	balA, _ := ex.Balances(a)
	balB, _ := ex.Balances(b)
	if !closeTo(balA.Quote, 900) || !closeTo(balA.Base, 50) {
		t.Errorf("buyer = %v quote / %v base, want 900 / 50", balA.Quote, balA.Base)
	}
	// seller nets 50 * 2 * 0.99 = 99
	if !closeTo(balB.Quote, 99) || !closeTo(balB.Base, 50) {
		t.Errorf("seller = %v quote / %v base, want 99 / 50", balB.Quote, balB.Base)
	}
	if ex.Matches() != 1 {
		t.Errorf("matches = %d, want 1", ex.Matches())
	}
	if d, s := ex.MarketSize(); d != 0 || s != 0 {
		t.Errorf("book not empty: demand %v, supply %v", d, s)
	}
}

func TestPriceImprovementRefund(t *testing.T) {
	ex := newTestExchange(t, 0)

	a := ex.NewTrader(50, 0)
	b := ex.NewTrader(0, 10)

	// the bid arrives first at 5.0, escrowing 50; the ask at 3.0
	// crosses it and the trade prints at 3.0
	if err := ex.Buy(a, 10, 5.0); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if err := ex.Sell(b, 10, 3.0); err != nil {
		t.Fatalf("sell: %v", err)
	}

	balA, _ := ex.Balances(a)
	// paid 30, refunded the 20 of over-escrow
	if !closeTo(balA.Quote, 20) || !closeTo(balA.Base, 10) {
		t.Errorf("buyer = %v quote / %v base, want 20 / 10", balA.Quote, balA.Base)
	}
	txs := ex.Transactions()
	if len(txs) != 1 || !closeTo(txs[0].Price, 3.0) {
		t.Fatalf("transactions = %+v, want one at the ask price 3.0", txs)
	}
}

func TestInvalidRequestCounting(t *testing.T) {
	ex := newTestExchange(t, 10)
	a := ex.NewTrader(100, 10)

	steps := []struct {
		name string
		op   func() error
	}{
		{"negative price buy", func() error { return ex.Buy(a, 1, -2) }},
		{"negative price sell", func() error { return ex.Sell(a, 1, -2) }},
		{"unaffordable buy", func() error { return ex.Buy(a, 1000, 10) }},
		{"unaffordable sell", func() error { return ex.Sell(a, 1000, 10) }},
		{"buy at best on empty book", func() error { return ex.BuyAtBest(a, 1) }},
		{"sell at best on empty book", func() error { return ex.SellAtBest(a, 1) }},
		{"overdrawn withdraw", func() error { return ex.Withdraw(a, 1e9) }},
		{"unknown trader", func() error { return ex.Deposit(99, 10) }},
	}

	for i, s := range steps {
		if err := s.op(); err == nil {
			t.Errorf("%s: expected an error", s.name)
		}
		if got := ex.InvalidRequests(); got != i+1 {
			t.Errorf("%s: invalid counter = %d, want %d", s.name, got, i+1)
		}
	}

	// successes must not move the counter
	before := ex.InvalidRequests()
	if err := ex.Deposit(a, 5); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := ex.Sell(a, 1, 3); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if ex.InvalidRequests() != before {
		t.Errorf("successful requests moved the invalid counter")
	}
}

func TestAtBestOrdersUseRestingPrice(t *testing.T) {
	ex := newTestExchange(t, 0)
	a := ex.NewTrader(100, 0)
	b := ex.NewTrader(0, 10)

	if err := ex.Sell(b, 5, 4.0); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if err := ex.BuyAtBest(a, 5); err != nil {
		t.Fatalf("buy at best: %v", err)
	}

	txs := ex.Transactions()
	if len(txs) != 1 || !closeTo(txs[0].Price, 4.0) {
		t.Fatalf("transactions = %+v, want one at 4.0", txs)
	}
	balA, _ := ex.Balances(a)
	if !closeTo(balA.Quote, 80) || !closeTo(balA.Base, 5) {
		t.Errorf("buyer = %v quote / %v base, want 80 / 5", balA.Quote, balA.Base)
	}
}

func TestInterventionIdempotentOnLedgers(t *testing.T) {
	ex := newTestExchange(t, 10)
	a := ex.NewTrader(1000, 0)
	b := ex.NewTrader(0, 100)

	if err := ex.Buy(a, 10, 12); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if err := ex.Sell(b, 10, 15); err != nil {
		t.Fatalf("sell: %v", err)
	}

	ex.Intervene(11)
	after := ex.AllBalances()
	matches := ex.Matches()

	ex.Intervene(11)
	again := ex.AllBalances()
	if ex.Matches() != matches {
		t.Errorf("second intervention produced matches")
	}
	for i := range after {
		if !closeTo(after[i].Quote, again[i].Quote) || !closeTo(after[i].Base, again[i].Base) {
			t.Errorf("trader %d moved on the second intervention: %+v -> %+v", i, after[i], again[i])
		}
	}
}

func TestPricesClamping(t *testing.T) {
	ex := newTestExchange(t, 0)
	a := ex.NewTrader(1000, 100)

	if bid, ask, mid := ex.Prices(); bid != 0 || ask != 0 || mid != 0 {
		t.Errorf("empty book prices = %v/%v/%v, want zeros", bid, ask, mid)
	}

	if err := ex.Buy(a, 1, 4); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if bid, ask, mid := ex.Prices(); !closeTo(bid, 4) || ask != 0 || !closeTo(mid, 4) {
		t.Errorf("bid-only prices = %v/%v/%v, want 4/0/4", bid, ask, mid)
	}

	if err := ex.Sell(a, 1, 6); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if bid, ask, mid := ex.Prices(); !closeTo(bid, 4) || !closeTo(ask, 6) || !closeTo(mid, 5) {
		t.Errorf("two-sided prices = %v/%v/%v, want 4/6/5", bid, ask, mid)
	}
}

func TestTransactionLog(t *testing.T) {
	ex := newTestExchange(t, 0)
	a := ex.NewTrader(100, 0)
	b := ex.NewTrader(0, 100)

	if err := ex.Sell(b, 2, 3); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if err := ex.Buy(a, 2, 3); err != nil {
		t.Fatalf("buy: %v", err)
	}

	txs := ex.Transactions()
	if len(txs) != 1 {
		t.Fatalf("log length = %d, want 1", len(txs))
	}
	tx := txs[0]
	if tx.SellerID != b || tx.BuyerID != a || !closeTo(tx.Qty, 2) || !closeTo(tx.Price, 3) {
		t.Errorf("transaction = %+v", tx)
	}
	if !tx.Time.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("timestamp not taken from the injected clock: %v", tx.Time)
	}

	// the returned slice is a copy
	txs[0].Qty = 999
	if got := ex.Transactions()[0].Qty; !closeTo(got, 2) {
		t.Errorf("log mutated through the returned copy: %v", got)
	}
}

// TestConservation drives a randomized two-sided session and checks
// that quote only leaves the traders as fees and base never appears or
// disappears.
func TestConservation(t *testing.T) {
	ex := newTestExchange(t, 10)
	rng := rand.New(rand.NewSource(7))

	var startQuote, startBase float64
	ids := make([]int, 6)
	for i := range ids {
		q, b := 500+rng.Float64()*500, 50+rng.Float64()*50
		ids[i] = ex.NewTrader(q, b)
		startQuote += q
		startBase += b
	}

	var deposits, withdrawals float64
	for i := 0; i < 400; i++ {
		id := ids[rng.Intn(len(ids))]
		price := 2 + rng.Float64()*2
		qty := 1 + rng.Float64()*10
		switch rng.Intn(6) {
		case 0:
			_ = ex.Buy(id, qty, price)
		case 1:
			_ = ex.Sell(id, qty, price)
		case 2:
			_ = ex.BuyAtBest(id, qty)
		case 3:
			_ = ex.SellAtBest(id, qty)
		case 4:
			amt := rng.Float64() * 50
			if ex.Deposit(id, amt) == nil {
				deposits += amt
			}
		case 5:
			amt := rng.Float64() * 50
			if ex.Withdraw(id, amt) == nil {
				withdrawals += amt
			}
		}
	}

	var fees, endQuote, endBase float64
	for _, tx := range ex.Transactions() {
		fees += tx.Qty * tx.Price * 10 / 1000
	}
	for _, b := range ex.AllBalances() {
		endQuote += b.Quote
		endBase += b.Base
	}

	wantQuote := startQuote + deposits - withdrawals - fees
	if !floatNear(endQuote, wantQuote, 1e-6) {
		t.Errorf("quote not conserved: end %v, want %v", endQuote, wantQuote)
	}
	if !floatNear(endBase, startBase, 1e-6) {
		t.Errorf("base not conserved: end %v, want %v", endBase, startBase)
	}
}

// floatNear allows looser tolerances for sums over many operations.
func floatNear(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestCreditBaseMints(t *testing.T) {
	ex := newTestExchange(t, 0)
	a := ex.NewTrader(0, 0)

	if err := ex.CreditBase(a, 7.5); err != nil {
		t.Fatalf("credit: %v", err)
	}
	bal, _ := ex.Balances(a)
	if !closeTo(bal.Base, 7.5) {
		t.Errorf("base = %v, want 7.5", bal.Base)
	}
}

func TestMarketTraderReserved(t *testing.T) {
	ex := newTestExchange(t, 0)
	if ex.NumTraders() != 1 {
		t.Fatalf("a fresh exchange must hold exactly the market trader, got %d", ex.NumTraders())
	}
	if id := ex.NewTrader(0, 0); id != 1 {
		t.Errorf("first registered trader id = %d, want 1", id)
	}
}
