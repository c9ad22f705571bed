package fix

import (
	"strconv"
	"strings"

	"github.com/quantex/fixgate/internal/order"
)

// field is one tag=value pair awaiting assembly.
type field struct {
	tag   int
	value string
}

// Encode serializes an order as a New Order - Single wire message.
//
// Canonical field order is BeginString, MsgType, Symbol, Side, OrderQty,
// then OrdType for market orders or Price for limit orders, then CheckSum.
// OrdType is omitted for limit orders: a 35=D message carrying a price is a
// limit order by default, and leaving the tag out keeps the limit wire form
// at its minimal six fields. Output is deterministic: the same order always
// yields a byte-identical string.
//
// Orders normally cannot violate their own invariants, but they may arrive
// from untrusted callers, so every attribute is re-checked here.
func Encode(o *order.Order) (string, error) {
	if o == nil {
		return "", &InvalidFieldError{Tag: TagMsgType, Reason: "nil order"}
	}
	if o.Type != order.TypeLimit && o.Type != order.TypeMarket {
		return "", &UnsupportedMessageTypeError{MsgType: o.Type}
	}
	if o.Symbol == "" {
		return "", &InvalidFieldError{Tag: TagSymbol, Reason: "symbol must not be empty"}
	}
	sideWire, ok := sideToWire(o.Side)
	if !ok {
		return "", &InvalidFieldError{Tag: TagSide, Value: o.Side, Reason: "side must be BUY or SELL"}
	}
	if o.Quantity <= 0 {
		return "", &InvalidFieldError{Tag: TagOrderQty, Value: strconv.FormatInt(o.Quantity, 10), Reason: "quantity must be positive"}
	}

	fields := []field{
		{TagBeginString, BeginStringFIX42},
		{TagMsgType, MsgTypeNewOrderSingle},
		{TagSymbol, o.Symbol},
		{TagSide, sideWire},
		{TagOrderQty, strconv.FormatInt(o.Quantity, 10)},
	}
	switch o.Type {
	case order.TypeMarket:
		fields = append(fields, field{TagOrdType, OrdTypeMarket})
	case order.TypeLimit:
		if !o.Price.IsPositive() {
			return "", &InvalidFieldError{Tag: TagPrice, Value: o.Price.String(), Reason: "price must be positive"}
		}
		fields = append(fields, field{TagPrice, o.Price.StringFixed(2)})
	}

	return assemble(fields), nil
}

// assemble joins fields with the delimiter and appends the checksum field.
// The checksum covers every byte before it, including the delimiter that
// precedes tag 10.
func assemble(fields []field) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strconv.Itoa(f.tag))
		b.WriteByte('=')
		b.WriteString(f.value)
		b.WriteString(Delimiter)
	}
	body := b.String()
	return body + strconv.Itoa(TagCheckSum) + "=" + formatChecksum(checksum(body))
}
