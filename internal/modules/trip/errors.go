package trip

import "fmt"

const (
	msgInvalidDistance = "Please enter a valid distance."
	msgMissingRoute    = "Please enter both origin and destination."
)

// ValidationError rejects a submission locally. Message is safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
