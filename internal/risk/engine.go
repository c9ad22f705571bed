// Pre-trade risk checks applied before an order may be transmitted.
package risk

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/quantex/fixgate/internal/order"
)

// Check names, used as rejection-reason prefixes and metric labels.
const (
	CheckQuantity  = "max_quantity"
	CheckPriceBand = "price_band"
	CheckNotional  = "max_notional"
	CheckPosition  = "max_position"
)

// Limits is the rule set one engine instance enforces. Immutable after
// construction; changing limits means constructing a new engine.
type Limits struct {
	MaxQuantity  int64
	PriceBandMin decimal.Decimal
	PriceBandMax decimal.Decimal
	MaxNotional  decimal.Decimal
	// MaxPosition caps the absolute net position per symbol. Zero disables
	// position tracking.
	MaxPosition int64
}

// Outcome is the result of a risk check. Rejection is a normal value, not an
// error; errors are reserved for engine misconfiguration.
type Outcome struct {
	Accepted bool
	Check    string // which check rejected, empty when accepted
	Reason   string
}

func accepted() Outcome { return Outcome{Accepted: true} }

func rejected(check, format string, args ...any) Outcome {
	return Outcome{Check: check, Reason: fmt.Sprintf(format, args...)}
}

// Engine applies the limit checks in a fixed order; the first failing check
// determines the reported reason. The symbol position map is the engine's
// only mutable state and is mutex-guarded, so a single engine is safe for
// concurrent use.
type Engine struct {
	limits Limits

	mu        sync.Mutex
	positions map[string]int64
}

// NewEngine validates the rule set and fails fast on a band with min > max
// or any non-positive limit.
func NewEngine(limits Limits) (*Engine, error) {
	if limits.MaxQuantity <= 0 {
		return nil, &InvalidRuleConfigurationError{Reason: "max_quantity must be positive"}
	}
	if !limits.PriceBandMin.IsPositive() || !limits.PriceBandMax.IsPositive() {
		return nil, &InvalidRuleConfigurationError{Reason: "price_band bounds must be positive"}
	}
	if limits.PriceBandMin.GreaterThan(limits.PriceBandMax) {
		return nil, &InvalidRuleConfigurationError{
			Reason: fmt.Sprintf("price_band min %s exceeds max %s", limits.PriceBandMin, limits.PriceBandMax),
		}
	}
	if !limits.MaxNotional.IsPositive() {
		return nil, &InvalidRuleConfigurationError{Reason: "max_notional must be positive"}
	}
	if limits.MaxPosition < 0 {
		return nil, &InvalidRuleConfigurationError{Reason: "max_position must not be negative"}
	}
	return &Engine{limits: limits, positions: make(map[string]int64)}, nil
}

// Limits returns the rule set the engine was built with.
func (e *Engine) Limits() Limits { return e.limits }

// Validate runs the pre-trade checks against an order. Price-band and
// notional checks apply to limit orders only; market orders carry no price.
// The position check here projects against the position at call time, so it
// is advisory under concurrency; a path that also fills must use
// ValidateAndFill to keep check and commit in one critical section.
func (e *Engine) Validate(o *order.Order) Outcome {
	if out := e.checkStateless(o); !out.Accepted {
		return out
	}
	if e.limits.MaxPosition > 0 {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.checkPositionLocked(o)
	}
	return accepted()
}

// ValidateAndFill runs the pre-trade checks and, on acceptance, commits the
// fill. The position check and the commit share one lock acquisition, so
// concurrent orders on the same symbol cannot jointly breach max_position.
// The returned position is the committed one, or the unchanged current
// position on rejection.
func (e *Engine) ValidateAndFill(o *order.Order) (Outcome, int64) {
	if out := e.checkStateless(o); !out.Accepted {
		return out, 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.limits.MaxPosition > 0 {
		if out := e.checkPositionLocked(o); !out.Accepted {
			return out, e.positions[o.Symbol]
		}
	}
	e.positions[o.Symbol] += o.SignedQuantity()
	return accepted(), e.positions[o.Symbol]
}

func (e *Engine) checkStateless(o *order.Order) Outcome {
	if o.Quantity > e.limits.MaxQuantity {
		return rejected(CheckQuantity, "quantity %d exceeds max_quantity %d", o.Quantity, e.limits.MaxQuantity)
	}
	if o.Type == order.TypeLimit {
		if o.Price.LessThan(e.limits.PriceBandMin) || o.Price.GreaterThan(e.limits.PriceBandMax) {
			return rejected(CheckPriceBand, "price %s outside price_band [%s, %s]",
				o.Price.StringFixed(2), e.limits.PriceBandMin.StringFixed(2), e.limits.PriceBandMax.StringFixed(2))
		}
		if notional := o.Notional(); notional.GreaterThan(e.limits.MaxNotional) {
			return rejected(CheckNotional, "notional %s exceeds max_notional %s",
				notional.StringFixed(2), e.limits.MaxNotional.StringFixed(2))
		}
	}
	return accepted()
}

// checkPositionLocked requires e.mu to be held.
func (e *Engine) checkPositionLocked(o *order.Order) Outcome {
	current := e.positions[o.Symbol]
	next := current + o.SignedQuantity()
	if abs(next) > e.limits.MaxPosition {
		return rejected(CheckPosition, "position %d for %s exceeds max_position %d (current %d)",
			next, o.Symbol, e.limits.MaxPosition, current)
	}
	return accepted()
}

// ApplyFill commits a filled order to the symbol's net position and returns
// the new position. Call only after the fill is confirmed.
func (e *Engine) ApplyFill(o *order.Order) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.positions[o.Symbol] += o.SignedQuantity()
	return e.positions[o.Symbol]
}

// Position returns the current net position for a symbol.
func (e *Engine) Position(symbol string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positions[symbol]
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
