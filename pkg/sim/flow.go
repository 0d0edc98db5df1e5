// Package sim drives reproducible streams of trader commands against
// an exchange, for demos and load experiments.
package sim

import (
	"math/rand"

	"github.com/pqoin/exchange/pkg/exchange"
)

// Flow generates random trader commands from a seeded source: the
// same seed against the same exchange configuration reproduces the
// run, ledgers and counters included.
type Flow struct {
	ex  *exchange.Exchange
	rng *rand.Rand
	ref float64 // rolling reference price for generated quotes
}

// New creates a flow over ex. The reference price starts at 10 quote
// units per coin and follows the market as trades print.
func New(ex *exchange.Exchange, seed int64) *Flow {
	return &Flow{ex: ex, rng: rand.New(rand.NewSource(seed)), ref: 10}
}

// Populate registers n traders with randomized starting balances.
func (f *Flow) Populate(n int) {
	for i := 0; i < n; i++ {
		quote := 100 + f.rng.Float64()*900
		base := f.rng.Float64() * 100
		f.ex.NewTrader(quote, base)
	}
}

// Step issues one random command. Rejections are expected traffic;
// the exchange counts them.
func (f *Flow) Step() {
	if f.ex.NumTraders() < 2 {
		return
	}
	// trader 0 is the exchange's own inventory; commands target the
	// simulated traders only
	id := 1 + f.rng.Intn(f.ex.NumTraders()-1)
	price := f.ref * (0.8 + 0.4*f.rng.Float64())
	qty := 1 + f.rng.Float64()*20

	switch r := f.rng.Intn(100); {
	case r < 25:
		_ = f.ex.Buy(id, qty, price)
	case r < 50:
		_ = f.ex.Sell(id, qty, price)
	case r < 58:
		_ = f.ex.BuyAtBest(id, qty)
	case r < 66:
		_ = f.ex.SellAtBest(id, qty)
	case r < 76:
		_ = f.ex.Deposit(id, qty*price)
	case r < 86:
		_ = f.ex.Withdraw(id, qty*price)
	case r < 92:
		// reward tick: mint a little base to every trader
		for t := 0; t < f.ex.NumTraders(); t++ {
			_ = f.ex.CreditBase(t, f.rng.Float64()*10)
		}
	case r < 96:
		f.ex.Intervene(price)
		f.ref = price
	default:
		if _, _, mid := f.ex.Prices(); mid > 0 {
			f.ref = mid
		}
	}
}

// Run issues steps commands.
func (f *Flow) Run(steps int) {
	for i := 0; i < steps; i++ {
		f.Step()
	}
}
