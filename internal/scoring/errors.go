package scoring

import "fmt"

// ValidationError reports an input that cannot be scored. Message is safe to show to
// the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// MissingScoreError is returned when suggestions are requested before an aggregate has
// been calculated.
type MissingScoreError struct {
	Raw string
}

func (e *MissingScoreError) Error() string {
	if e.Raw == "" {
		return "no aggregate score available"
	}
	return fmt.Sprintf("no aggregate score available (got %q)", e.Raw)
}

// UserMessage is the text shown in place of the suggestion list.
func (e *MissingScoreError) UserMessage() string {
	return "Calculate your CPN before requesting suggestions."
}
