package fix

import "fmt"

// UnknownTagError reports a tag the registry does not know. Exactly one of
// Tag and Name is set, depending on the lookup direction.
type UnknownTagError struct {
	Tag  int
	Name string
}

func (e *UnknownTagError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown FIX field name %q", e.Name)
	}
	return fmt.Sprintf("unknown FIX tag %d", e.Tag)
}

// MalformedMessageError reports raw input the decoder cannot even tokenize:
// a field without '=', an empty or non-numeric tag, or a checksum field that
// is not terminal.
type MalformedMessageError struct {
	Token  string
	Reason string
}

func (e *MalformedMessageError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("malformed FIX message: field %q: %s", e.Token, e.Reason)
	}
	return fmt.Sprintf("malformed FIX message: %s", e.Reason)
}

// DuplicateTagError reports a tag that appears more than once. Repeating
// groups are not modeled.
type DuplicateTagError struct {
	Tag int
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("duplicate FIX tag %d", e.Tag)
}

// MissingRequiredFieldError reports an absent mandatory tag for the declared
// message type.
type MissingRequiredFieldError struct {
	Tag  int
	Name string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required FIX tag %d (%s)", e.Tag, e.Name)
}

// ChecksumMismatchError carries both sides of a failed checksum comparison.
type ChecksumMismatchError struct {
	Expected string
	Received string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("FIX checksum mismatch: expected %s, received %s", e.Expected, e.Received)
}

// InvalidFieldError reports a value that fails its tag's declared kind, or a
// required order attribute that fails validation at the encoding boundary.
type InvalidFieldError struct {
	Tag    int
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value %q for FIX tag %d: %s", e.Value, e.Tag, e.Reason)
}

// UnsupportedMessageTypeError reports a message type other than
// New Order - Single, on either the encode or the decode side.
type UnsupportedMessageTypeError struct {
	MsgType string
}

func (e *UnsupportedMessageTypeError) Error() string {
	return fmt.Sprintf("unsupported FIX message type %q: only %s (New Order - Single) is supported", e.MsgType, MsgTypeNewOrderSingle)
}
