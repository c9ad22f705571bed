package risk

import "fmt"

// InvalidRuleConfigurationError reports a rule set the engine refuses to
// run with. Raised at construction, never during Validate.
type InvalidRuleConfigurationError struct {
	Reason string
}

func (e *InvalidRuleConfigurationError) Error() string {
	return fmt.Sprintf("invalid risk rule configuration: %s", e.Reason)
}
