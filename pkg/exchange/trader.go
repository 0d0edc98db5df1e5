package exchange

// MarketTraderID is the reserved trader representing the exchange's
// own inventory. It is created with the Exchange and takes one side of
// every intervention trade.
const MarketTraderID = 0

// Trader owns exactly one Wallet and originates orders after escrowing
// the funds they commit. IDs are assigned by the Exchange at creation,
// ascending from zero.
type Trader struct {
	id     int
	wallet *Wallet
}

func newTrader(id int, quote, base float64) *Trader {
	return &Trader{id: id, wallet: NewWallet(quote, base)}
}

// ID returns the trader's registry id.
func (t *Trader) ID() int { return t.id }

// PlaceSell escrows qty coins and submits an ask at the given limit
// price. On failure nothing is escrowed and the book is untouched; the
// caller owns the invalid-request counter.
func (t *Trader) PlaceSell(qty, price float64, m *Market, fin Finalizer) error {
	if price < 0 {
		return ErrNegativePrice
	}
	if !t.wallet.BlockBase(qty) {
		return ErrInsufficientFunds
	}
	m.SubmitSell(Order{Side: Sell, TraderID: t.id, Qty: qty, Price: price}, fin)
	return nil
}

// PlaceBuy escrows qty*price reference currency and submits a bid.
func (t *Trader) PlaceBuy(qty, price float64, m *Market, fin Finalizer) error {
	if price < 0 {
		return ErrNegativePrice
	}
	if !t.wallet.BlockQuote(qty * price) {
		return ErrInsufficientFunds
	}
	m.SubmitBuy(Order{Side: Buy, TraderID: t.id, Qty: qty, Price: price}, fin)
	return nil
}

// Deposit adds reference currency to the trader's available balance.
func (t *Trader) Deposit(amount float64) {
	t.wallet.Deposit(amount)
}

// Withdraw removes reference currency from the available balance.
func (t *Trader) Withdraw(amount float64) error {
	if !t.wallet.Withdraw(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// CreditBase mints coins into the trader's available balance.
func (t *Trader) CreditBase(amount float64) {
	t.wallet.CreditBase(amount)
}

// FinalizeSell settles a completed sale against the trader's wallet.
func (t *Trader) FinalizeSell(qty, price float64, feePerMille int) {
	t.wallet.SettleSell(qty, price, feePerMille)
}

// FinalizeBuy settles a completed purchase, refunding any price
// improvement between the intended limit price and the actual one.
func (t *Trader) FinalizeBuy(qty, intended, actual float64) {
	t.wallet.SettleBuy(qty, intended, actual)
}

// TotalQuote returns the trader's full quote holding, blocked included.
func (t *Trader) TotalQuote() float64 { return t.wallet.TotalQuote() }

// TotalBase returns the trader's full base holding, blocked included.
func (t *Trader) TotalBase() float64 { return t.wallet.TotalBase() }
