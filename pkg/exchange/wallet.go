package exchange

// Eps is the tolerance applied to every monetary comparison. Balances
// are float64 and accumulate round-off over long runs; two amounts
// within Eps of each other are treated as equal, and a balance is
// allowed to dip as low as -Eps without being considered negative.
const Eps = 1e-6

// Wallet tracks one trader's holdings of both commodities, split into
// an available part and a blocked part. Blocked funds are escrowed
// against resting orders and can only leave the wallet through the
// settle operations. For every commodity, available + blocked is the
// trader's true holding; blocking moves value between the two parts
// but never changes the total.
type Wallet struct {
	quote        float64 // available reference currency
	base         float64 // available coins
	blockedQuote float64
	blockedBase  float64
}

// NewWallet creates a wallet with the given initial available balances
// and nothing blocked.
func NewWallet(quote, base float64) *Wallet {
	return &Wallet{quote: quote, base: base}
}

// BlockQuote escrows amount of the reference currency against a buy
// order. Fails and leaves the wallet untouched if the available
// balance cannot cover it.
func (w *Wallet) BlockQuote(amount float64) bool {
	if w.quote < amount-Eps {
		return false
	}
	w.quote -= amount
	w.blockedQuote += amount
	return true
}

// BlockBase escrows amount coins against a sell order.
func (w *Wallet) BlockBase(amount float64) bool {
	if w.base < amount-Eps {
		return false
	}
	w.base -= amount
	w.blockedBase += amount
	return true
}

// UnblockQuote releases escrowed reference currency back to the
// available balance. Used to refund price improvement on buys.
func (w *Wallet) UnblockQuote(amount float64) {
	w.blockedQuote -= amount
	w.quote += amount
}

// SettleSell finalizes a completed sale: qty coins leave the blocked
// base balance and the proceeds, less the exchange fee, are credited
// to the available quote balance. The fee fraction is feePerMille
// units per 1000 units of quote traded; it is the exchange's revenue
// and is not credited to any wallet.
func (w *Wallet) SettleSell(qty, price float64, feePerMille int) {
	if w.blockedBase < qty-Eps {
		return
	}
	w.blockedBase -= qty
	w.quote += qty * price * (1 - float64(feePerMille)/1000)
}

// SettleBuy finalizes a completed purchase at actual, which may be
// below the intended limit price. The coins are credited to the
// available base balance, qty*actual leaves the blocked quote balance,
// and the over-escrowed difference qty*(intended-actual) is unblocked
// back to the available quote balance.
func (w *Wallet) SettleBuy(qty, intended, actual float64) {
	if w.blockedQuote < qty*actual-Eps {
		return
	}
	w.base += qty
	w.blockedQuote -= qty * actual
	w.UnblockQuote(qty * (intended - actual))
}

// Deposit adds reference currency to the available balance.
func (w *Wallet) Deposit(amount float64) {
	w.quote += amount
}

// Withdraw removes reference currency from the available balance.
// Fails and leaves the wallet untouched if the balance cannot cover it.
func (w *Wallet) Withdraw(amount float64) bool {
	if w.quote < amount-Eps {
		return false
	}
	w.quote -= amount
	return true
}

// CreditBase mints coins straight into the available base balance.
func (w *Wallet) CreditBase(amount float64) {
	w.base += amount
}

// TotalQuote returns the trader's full quote holding, blocked included.
func (w *Wallet) TotalQuote() float64 {
	return w.quote + w.blockedQuote
}

// TotalBase returns the trader's full base holding, blocked included.
func (w *Wallet) TotalBase() float64 {
	return w.base + w.blockedBase
}

// AvailableQuote returns the unblocked quote balance.
func (w *Wallet) AvailableQuote() float64 {
	return w.quote
}

// AvailableBase returns the unblocked base balance.
func (w *Wallet) AvailableBase() float64 {
	return w.base
}
