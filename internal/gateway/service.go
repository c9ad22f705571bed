// Package gateway wires the decode -> risk -> encode pipeline together and
// journals every step.
package gateway

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantex/fixgate/internal/fix"
	"github.com/quantex/fixgate/internal/order"
	"github.com/quantex/fixgate/internal/risk"
	"github.com/quantex/fixgate/pkg/metrics"
)

// Service runs inbound wire messages and outbound orders through the risk
// gate. Stateless apart from what the risk engine tracks; safe for
// concurrent use.
type Service struct {
	log     *zap.Logger
	risk    *risk.Engine
	journal *Journal
}

func NewService(log *zap.Logger, riskEngine *risk.Engine, journal *Journal) *Service {
	return &Service{log: log, risk: riskEngine, journal: journal}
}

// Risk exposes the engine for position queries.
func (s *Service) Risk() *risk.Engine { return s.risk }

// Result describes what happened to one inbound message or submitted order.
type Result struct {
	OrderID  uuid.UUID   `json:"order_id"`
	Symbol   string      `json:"symbol,omitempty"`
	Status   order.State `json:"status"`
	Reason   string      `json:"reason,omitempty"`
	Position int64       `json:"position,omitempty"`
}

// Process decodes a raw wire message, builds the order, risk-checks it and,
// on acceptance, acks and immediately fills it (this gateway simulates the
// venue; there is no downstream matching). Decode and construction failures
// come back as errors; risk rejection is a normal Result.
func (s *Service) Process(raw string) (Result, error) {
	start := time.Now()
	defer func() { metrics.ProcessLatency.Observe(time.Since(start).Seconds()) }()

	msg, err := fix.Decode(raw)
	if err != nil {
		metrics.DecodeErrors.WithLabelValues(ErrorKind(err)).Inc()
		s.journal.Record(EventTypeMessageRejected, uuid.Nil, "", map[string]any{
			"raw_message": raw,
			"reason":      err.Error(),
		})
		s.log.Warn("Inbound message rejected", zap.String("kind", ErrorKind(err)), zap.Error(err))
		return Result{}, err
	}
	metrics.MessagesDecoded.Inc()

	o, err := msg.Order()
	if err != nil {
		s.journal.Record(EventTypeMessageRejected, uuid.Nil, msg.Symbol, map[string]any{
			"raw_message": raw,
			"reason":      err.Error(),
		})
		return Result{}, err
	}
	s.journal.Record(EventTypeOrderCreated, o.ID, o.Symbol, map[string]any{
		"side": o.Side, "type": o.Type, "quantity": o.Quantity, "price": o.Price,
	})

	// check and fill commit atomically so concurrent messages cannot
	// jointly breach the position cap
	outcome, position := s.risk.ValidateAndFill(o)
	if !outcome.Accepted {
		return s.reject(o, outcome), nil
	}

	_ = o.Transition(order.StateAcked)
	s.journal.Record(EventTypeOrderAcked, o.ID, o.Symbol, nil)

	_ = o.Transition(order.StateFilled)
	metrics.OrdersProcessed.WithLabelValues(strings.ToLower(o.Side)).Inc()
	s.journal.Record(EventTypeOrderFilled, o.ID, o.Symbol, map[string]any{"new_position": position})
	s.log.Info("Order filled",
		zap.String("order_id", o.ID.String()),
		zap.String("symbol", o.Symbol),
		zap.Int64("position", position))

	return Result{OrderID: o.ID, Symbol: o.Symbol, Status: o.State, Position: position}, nil
}

// SubmitResult is the outcome of an outbound submission: a risk decision
// plus, on acceptance, the encoded wire message ready for transmission.
type SubmitResult struct {
	Result
	FIXMessage string `json:"fix_message,omitempty"`
}

// Submit risk-checks an order built by a caller (the OMS front end) and
// encodes it on acceptance. The order is acked, not filled: transmission
// and the fill happen elsewhere.
func (s *Service) Submit(o *order.Order) (SubmitResult, error) {
	s.journal.Record(EventTypeOrderCreated, o.ID, o.Symbol, map[string]any{
		"side": o.Side, "type": o.Type, "quantity": o.Quantity, "price": o.Price,
	})

	if outcome := s.risk.Validate(o); !outcome.Accepted {
		return SubmitResult{Result: s.reject(o, outcome)}, nil
	}

	wire, err := fix.Encode(o)
	if err != nil {
		return SubmitResult{}, err
	}
	_ = o.Transition(order.StateAcked)
	metrics.OrdersProcessed.WithLabelValues(strings.ToLower(o.Side)).Inc()
	s.journal.Record(EventTypeOrderAcked, o.ID, o.Symbol, nil)
	s.log.Info("Order accepted",
		zap.String("order_id", o.ID.String()),
		zap.String("symbol", o.Symbol),
		zap.String("side", o.Side))

	return SubmitResult{
		Result:     Result{OrderID: o.ID, Symbol: o.Symbol, Status: o.State},
		FIXMessage: wire,
	}, nil
}

func (s *Service) reject(o *order.Order, outcome risk.Outcome) Result {
	_ = o.Transition(order.StateRejected)
	metrics.OrdersRejected.WithLabelValues(outcome.Check).Inc()
	s.journal.Record(EventTypeOrderRejected, o.ID, o.Symbol, map[string]any{
		"check":  outcome.Check,
		"reason": outcome.Reason,
	})
	s.log.Info("Order rejected",
		zap.String("order_id", o.ID.String()),
		zap.String("symbol", o.Symbol),
		zap.String("check", outcome.Check),
		zap.String("reason", outcome.Reason))
	return Result{OrderID: o.ID, Symbol: o.Symbol, Status: o.State, Reason: outcome.Reason}
}

// StreamResult pairs a raw message with what became of it.
type StreamResult struct {
	Raw string
	Result
	Err error
}

// ProcessStream drives a batch of raw messages through Process.
func (s *Service) ProcessStream(raws []string) []StreamResult {
	out := make([]StreamResult, 0, len(raws))
	for _, raw := range raws {
		res, err := s.Process(raw)
		out = append(out, StreamResult{Raw: raw, Result: res, Err: err})
	}
	return out
}

// ErrorKind maps a pipeline error to a stable machine-readable kind, used
// for metric labels and API bodies.
func ErrorKind(err error) string {
	var (
		malformed   *fix.MalformedMessageError
		duplicate   *fix.DuplicateTagError
		missing     *fix.MissingRequiredFieldError
		mismatch    *fix.ChecksumMismatchError
		invalid     *fix.InvalidFieldError
		unknown     *fix.UnknownTagError
		unsupported *fix.UnsupportedMessageTypeError
		attribute   *order.InvalidAttributeError
	)
	switch {
	case errors.As(err, &malformed):
		return "malformed_message"
	case errors.As(err, &duplicate):
		return "duplicate_tag"
	case errors.As(err, &missing):
		return "missing_required_field"
	case errors.As(err, &mismatch):
		return "checksum_mismatch"
	case errors.As(err, &invalid):
		return "invalid_field"
	case errors.As(err, &unknown):
		return "unknown_tag"
	case errors.As(err, &unsupported):
		return "unsupported_message_type"
	case errors.As(err, &attribute):
		return "invalid_order_attribute"
	default:
		return "internal"
	}
}
