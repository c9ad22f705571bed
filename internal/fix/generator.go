package fix

import (
	"math/rand"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/quantex/fixgate/internal/order"
)

var defaultSymbols = []string{"AAPL", "GOOG", "MSFT", "TSLA"}

// Generator produces random New Order - Single wire messages for tests and
// demo streams. Invalid messages are structurally broken on purpose but
// still carry a correct checksum, so the decoder fails on the intended
// violation rather than on tag 10.
type Generator struct {
	symbols []string
	maxQty  int64
	rng     *rand.Rand
}

// NewGenerator creates a generator with its own seeded source, so runs are
// reproducible per seed.
func NewGenerator(seed int64, maxQty int64) *Generator {
	if maxQty <= 0 {
		maxQty = 1000
	}
	return &Generator{
		symbols: defaultSymbols,
		maxQty:  maxQty,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// ValidMessage returns a well-formed market or limit order message.
func (g *Generator) ValidMessage() string {
	symbol := g.symbols[g.rng.Intn(len(g.symbols))]
	side := order.SideBuy
	if g.rng.Intn(2) == 0 {
		side = order.SideSell
	}
	qty := g.rng.Int63n(g.maxQty) + 1

	var o *order.Order
	if g.rng.Intn(2) == 0 {
		o, _ = order.NewMarket(symbol, side, qty)
	} else {
		o, _ = order.New(symbol, side, qty, g.price())
	}
	msg, _ := Encode(o)
	return msg
}

// InvalidMessage returns a message broken in one of four ways: missing
// symbol, missing side, zero quantity, or a limit order without a price.
func (g *Generator) InvalidMessage() string {
	symbol := g.symbols[g.rng.Intn(len(g.symbols))]
	qty := strconv.FormatInt(g.rng.Int63n(g.maxQty)+1, 10)

	base := []field{
		{TagBeginString, BeginStringFIX42},
		{TagMsgType, MsgTypeNewOrderSingle},
	}
	switch g.rng.Intn(4) {
	case 0: // missing symbol
		base = append(base, field{TagSide, g.side()}, field{TagOrderQty, qty}, field{TagOrdType, OrdTypeMarket})
	case 1: // missing side
		base = append(base, field{TagSymbol, symbol}, field{TagOrderQty, qty}, field{TagOrdType, OrdTypeMarket})
	case 2: // zero quantity
		base = append(base, field{TagSymbol, symbol}, field{TagSide, g.side()}, field{TagOrderQty, "0"}, field{TagOrdType, OrdTypeMarket})
	default: // limit order without a price
		base = append(base, field{TagSymbol, symbol}, field{TagSide, g.side()}, field{TagOrderQty, qty}, field{TagOrdType, OrdTypeLimit})
	}
	return assemble(base)
}

func (g *Generator) side() string {
	if g.rng.Intn(2) == 0 {
		return SideBuyWire
	}
	return SideSellWire
}

func (g *Generator) price() decimal.Decimal {
	dollars := g.rng.Int63n(400) + 100
	cents := g.rng.Int63n(100)
	return decimal.NewFromInt(dollars).Add(decimal.New(cents, -2))
}
