package exchange

// Side tags an order as a bid or an ask.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Order is an immutable trading intent. A partially filled resting
// order is never mutated in place; the book replaces it with a new
// Order carrying the leftover quantity at the same price.
type Order struct {
	Side     Side
	TraderID int
	Qty      float64
	Price    float64
}

// askBefore reports whether a matches before b on the sell side:
// lowest price first, ties broken by larger quantity, remaining ties
// by smaller trader ID. Orders equal under this rule are genuinely
// interchangeable for matching.
func askBefore(a, b Order) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.Qty != b.Qty {
		return a.Qty > b.Qty
	}
	return a.TraderID < b.TraderID
}

// bidBefore is the bid-side rule: highest price first, then larger
// quantity, then smaller trader ID.
func bidBefore(a, b Order) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	if a.Qty != b.Qty {
		return a.Qty > b.Qty
	}
	return a.TraderID < b.TraderID
}
