package fix

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quantex/fixgate/internal/order"
)

// Delimiter separates fields on the wire. Standard FIX uses the SOH control
// byte; this variant substitutes '|' for readability and is internal-only.
// Interop with a real counterparty means changing this constant.
const Delimiter = "|"

// Wire constants.
const (
	BeginStringFIX42      = "FIX.4.2"
	MsgTypeNewOrderSingle = "D"

	SideBuyWire  = "1"
	SideSellWire = "2"

	OrdTypeMarket = "1"
	OrdTypeLimit  = "2"
)

// NewOrderSingle is the fixed-shape result of decoding a 35=D message. It is
// only constructed after every structural and type check has passed, so a
// value of this type is always checksum-valid and type-correct.
type NewOrderSingle struct {
	BeginString string
	Symbol      string
	Side        string // order.SideBuy or order.SideSell
	OrdType     string // order.TypeMarket or order.TypeLimit
	Quantity    int64
	Price       decimal.Decimal // zero for market orders
	Checksum    string
	// Extras holds registered tags that are not part of the typed shape
	// (ClOrdID, comp IDs, timestamps). Never merged into the fields above.
	Extras map[int]string
}

// Order reconstructs the order the message represents.
func (m *NewOrderSingle) Order() (*order.Order, error) {
	if m.OrdType == order.TypeMarket {
		return order.NewMarket(m.Symbol, m.Side, m.Quantity)
	}
	return order.New(m.Symbol, m.Side, m.Quantity, m.Price)
}

// checksum is the mod-256 byte sum over s.
func checksum(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += int(s[i])
	}
	return sum % 256
}

// formatChecksum renders a checksum as the 3-digit zero-padded wire form.
func formatChecksum(sum int) string {
	return fmt.Sprintf("%03d", sum)
}

func sideToWire(side string) (string, bool) {
	switch side {
	case order.SideBuy:
		return SideBuyWire, true
	case order.SideSell:
		return SideSellWire, true
	}
	return "", false
}

func sideFromWire(v string) (string, bool) {
	switch v {
	case SideBuyWire:
		return order.SideBuy, true
	case SideSellWire:
		return order.SideSell, true
	}
	return "", false
}
