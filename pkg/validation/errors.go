package validation

import "fmt"

// ConfigurationError reports a scenario-level setting that prevents any
// computation, such as an unparseable start date or a non-finite WACC.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s %q: %s", e.Field, e.Value, e.Reason)
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(field, value, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

// InputDataError reports a malformed line item (product, overhead, capex).
type InputDataError struct {
	Field string
	Value string
	Err   error
}

func (e *InputDataError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("input data error: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("input data error: %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InputDataError) Unwrap() error {
	return e.Err
}

// NewInputDataError builds an InputDataError.
func NewInputDataError(field, value string, err error) *InputDataError {
	return &InputDataError{Field: field, Value: value, Err: err}
}
