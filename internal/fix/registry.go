package fix

// Kind classifies a tag's value for decode-time validation.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindEnum
)

// Well-known tag numbers.
const (
	TagBeginString  = 8
	TagCheckSum     = 10
	TagClOrdID      = 11
	TagMsgType      = 35
	TagOrderQty     = 38
	TagOrdType      = 40
	TagPrice        = 44
	TagSenderCompID = 49
	TagSendingTime  = 52
	TagSide         = 54
	TagSymbol       = 55
	TagTargetCompID = 56
)

// FieldDef describes a registered tag: its semantic name, value kind, and the
// closed value set for enum tags.
type FieldDef struct {
	Tag    int
	Name   string
	Kind   Kind
	Values []string // allowed values when Kind == KindEnum
}

// registry is the single place tag semantics live; encoder and decoder both
// read it so the two sides cannot drift.
var registry = map[int]FieldDef{
	TagBeginString:  {Tag: TagBeginString, Name: "BeginString", Kind: KindEnum, Values: []string{BeginStringFIX42}},
	TagCheckSum:     {Tag: TagCheckSum, Name: "CheckSum", Kind: KindString},
	TagClOrdID:      {Tag: TagClOrdID, Name: "ClOrdID", Kind: KindString},
	TagMsgType:      {Tag: TagMsgType, Name: "MsgType", Kind: KindEnum, Values: []string{MsgTypeNewOrderSingle}},
	TagOrderQty:     {Tag: TagOrderQty, Name: "OrderQty", Kind: KindInt},
	TagOrdType:      {Tag: TagOrdType, Name: "OrdType", Kind: KindEnum, Values: []string{OrdTypeMarket, OrdTypeLimit}},
	TagPrice:        {Tag: TagPrice, Name: "Price", Kind: KindDecimal},
	TagSenderCompID: {Tag: TagSenderCompID, Name: "SenderCompID", Kind: KindString},
	TagSendingTime:  {Tag: TagSendingTime, Name: "SendingTime", Kind: KindString},
	TagSide:         {Tag: TagSide, Name: "Side", Kind: KindEnum, Values: []string{SideBuyWire, SideSellWire}},
	TagSymbol:       {Tag: TagSymbol, Name: "Symbol", Kind: KindString},
	TagTargetCompID: {Tag: TagTargetCompID, Name: "TargetCompID", Kind: KindString},
}

var tagsByName = func() map[string]int {
	m := make(map[string]int, len(registry))
	for tag, def := range registry {
		m[def.Name] = tag
	}
	return m
}()

// Lookup returns the definition for a tag number.
func Lookup(tag int) (FieldDef, error) {
	def, ok := registry[tag]
	if !ok {
		return FieldDef{}, &UnknownTagError{Tag: tag}
	}
	return def, nil
}

// TagByName returns the tag number for a semantic field name.
func TagByName(name string) (int, error) {
	tag, ok := tagsByName[name]
	if !ok {
		return 0, &UnknownTagError{Name: name}
	}
	return tag, nil
}
