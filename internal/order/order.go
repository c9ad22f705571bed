package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Constants for order sides, types and states
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	TypeMarket = "MARKET"
	TypeLimit  = "LIMIT"
)

// State represents a stage in the order lifecycle.
type State string

const (
	StateNew      State = "NEW"
	StateAcked    State = "ACKED"
	StateFilled   State = "FILLED"
	StateCanceled State = "CANCELED"
	StateRejected State = "REJECTED"
)

// allowedTransitions holds the legal lifecycle edges. Terminal states absorb.
var allowedTransitions = map[State][]State{
	StateNew:   {StateAcked, StateRejected},
	StateAcked: {StateFilled, StateCanceled, StateRejected},
}

// Order represents a single trading intent. Identity and pricing fields are
// fixed at construction; only State moves, and only through Transition.
type Order struct {
	ID        uuid.UUID       `json:"id"`
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"`
	Type      string          `json:"type"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	State     State           `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
}

// New creates a limit order. Quantity and price must be positive and the
// symbol non-empty; violations fail here, not later in the risk engine.
func New(symbol, side string, quantity int64, price decimal.Decimal) (*Order, error) {
	if !price.IsPositive() {
		return nil, &InvalidAttributeError{Field: "price", Value: price.String(), Reason: "must be positive"}
	}
	o, err := newOrder(symbol, side, TypeLimit, quantity)
	if err != nil {
		return nil, err
	}
	o.Price = price
	return o, nil
}

// NewMarket creates a market order. Market orders carry no price; the
// execution price is decided at the venue.
func NewMarket(symbol, side string, quantity int64) (*Order, error) {
	return newOrder(symbol, side, TypeMarket, quantity)
}

func newOrder(symbol, side, typ string, quantity int64) (*Order, error) {
	if symbol == "" {
		return nil, &InvalidAttributeError{Field: "symbol", Value: "", Reason: "must not be empty"}
	}
	if side != SideBuy && side != SideSell {
		return nil, &InvalidAttributeError{Field: "side", Value: side, Reason: "must be BUY or SELL"}
	}
	if quantity <= 0 {
		return nil, &InvalidAttributeError{Field: "quantity", Value: decimal.NewFromInt(quantity).String(), Reason: "must be positive"}
	}
	return &Order{
		ID:        uuid.New(),
		Symbol:    symbol,
		Side:      side,
		Type:      typ,
		Quantity:  quantity,
		State:     StateNew,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Transition moves the order to next if the lifecycle allows it.
func (o *Order) Transition(next State) error {
	for _, s := range allowedTransitions[o.State] {
		if s == next {
			o.State = next
			return nil
		}
	}
	return &InvalidTransitionError{OrderID: o.ID, From: o.State, To: next}
}

// Notional returns quantity x price. Zero for market orders.
func (o *Order) Notional() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(o.Quantity))
}

// SignedQuantity returns the position delta the order represents when filled:
// positive for buys, negative for sells.
func (o *Order) SignedQuantity() int64 {
	if o.Side == SideSell {
		return -o.Quantity
	}
	return o.Quantity
}
