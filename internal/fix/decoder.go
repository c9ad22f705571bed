package fix

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantex/fixgate/internal/order"
)

// requiredTags are mandatory for every New Order - Single, in reporting
// order. Price (44) is additionally required unless OrdType is market.
var requiredTags = []int{TagBeginString, TagMsgType, TagSymbol, TagSide, TagOrderQty}

// Decode parses and validates a wire message into its typed form.
//
// Validation runs in a fixed order so the first violation determines the
// error: tokenization, duplicate tags, required-field presence, checksum,
// then per-field type checks against the registry. Field order is tolerated
// except that the checksum field must be terminal. A nil error guarantees
// the result is checksum-valid, structurally complete and type-correct.
func Decode(raw string) (*NewOrderSingle, error) {
	tokens := strings.Split(raw, Delimiter)

	values := make(map[int]string, len(tokens))
	tagOrder := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		eq := strings.IndexByte(tok, '=')
		if eq < 0 {
			return nil, &MalformedMessageError{Token: tok, Reason: "missing '=' separator"}
		}
		if eq == 0 {
			return nil, &MalformedMessageError{Token: tok, Reason: "empty tag"}
		}
		tag, err := strconv.Atoi(tok[:eq])
		if err != nil {
			return nil, &MalformedMessageError{Token: tok, Reason: "tag is not numeric"}
		}
		if _, dup := values[tag]; dup {
			return nil, &DuplicateTagError{Tag: tag}
		}
		values[tag] = tok[eq+1:]
		tagOrder = append(tagOrder, tag)
	}

	for _, tag := range requiredTags[:2] {
		if _, ok := values[tag]; !ok {
			return nil, missingField(tag)
		}
	}
	if mt := values[TagMsgType]; mt != MsgTypeNewOrderSingle {
		return nil, &UnsupportedMessageTypeError{MsgType: mt}
	}
	for _, tag := range requiredTags[2:] {
		if _, ok := values[tag]; !ok {
			return nil, missingField(tag)
		}
	}
	if price, ok := values[TagPrice]; ok {
		if values[TagOrdType] == OrdTypeMarket {
			return nil, &InvalidFieldError{Tag: TagPrice, Value: price, Reason: "market orders must not carry a price"}
		}
	} else if values[TagOrdType] != OrdTypeMarket {
		return nil, missingField(TagPrice)
	}
	if _, ok := values[TagCheckSum]; !ok {
		return nil, missingField(TagCheckSum)
	}

	if tagOrder[len(tagOrder)-1] != TagCheckSum {
		return nil, &MalformedMessageError{Reason: "checksum field must be terminal"}
	}
	lastToken := tokens[len(tokens)-1]
	covered := raw[:len(raw)-len(lastToken)]
	expected := formatChecksum(checksum(covered))
	if received := values[TagCheckSum]; received != expected {
		return nil, &ChecksumMismatchError{Expected: expected, Received: received}
	}

	for _, tag := range tagOrder {
		if tag == TagCheckSum {
			continue
		}
		def, err := Lookup(tag)
		if err != nil {
			return nil, err
		}
		if err := checkKind(def, values[tag]); err != nil {
			return nil, err
		}
	}

	return buildNewOrderSingle(values)
}

func missingField(tag int) *MissingRequiredFieldError {
	def := registry[tag]
	return &MissingRequiredFieldError{Tag: tag, Name: def.Name}
}

// checkKind validates a single value against its tag's declared kind.
func checkKind(def FieldDef, value string) error {
	switch def.Kind {
	case KindInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return &InvalidFieldError{Tag: def.Tag, Value: value, Reason: "must be a positive integer"}
		}
	case KindDecimal:
		d, err := decimal.NewFromString(value)
		if err != nil || !d.IsPositive() {
			return &InvalidFieldError{Tag: def.Tag, Value: value, Reason: "must be a positive decimal"}
		}
	case KindEnum:
		for _, v := range def.Values {
			if value == v {
				return nil
			}
		}
		return &InvalidFieldError{Tag: def.Tag, Value: value, Reason: "not in " + strings.Join(def.Values, ",")}
	case KindString:
		if value == "" {
			return &InvalidFieldError{Tag: def.Tag, Value: value, Reason: "empty value"}
		}
	}
	return nil
}

// buildNewOrderSingle runs after all checks pass; parse errors cannot occur
// here anymore.
func buildNewOrderSingle(values map[int]string) (*NewOrderSingle, error) {
	side, _ := sideFromWire(values[TagSide])
	qty, _ := strconv.ParseInt(values[TagOrderQty], 10, 64)

	msg := &NewOrderSingle{
		BeginString: values[TagBeginString],
		Symbol:      values[TagSymbol],
		Side:        side,
		Quantity:    qty,
		Checksum:    values[TagCheckSum],
	}
	if values[TagOrdType] == OrdTypeMarket {
		msg.OrdType = order.TypeMarket
	} else {
		msg.OrdType = order.TypeLimit
		msg.Price, _ = decimal.NewFromString(values[TagPrice])
	}

	consumed := map[int]bool{
		TagBeginString: true, TagMsgType: true, TagSymbol: true, TagSide: true,
		TagOrderQty: true, TagOrdType: true, TagPrice: true, TagCheckSum: true,
	}
	for tag, value := range values {
		if consumed[tag] {
			continue
		}
		if msg.Extras == nil {
			msg.Extras = make(map[int]string)
		}
		msg.Extras[tag] = value
	}
	return msg, nil
}
