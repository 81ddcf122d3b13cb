package estimate

import "errors"

var (
	// ErrConfiguration means the service has no usable credential; no call was attempted.
	ErrConfiguration = errors.New("estimation service is not configured")
	// ErrTransport means the call to the AI service failed.
	ErrTransport = errors.New("estimation request failed")
	// ErrFormat means the AI service replied with a missing or malformed payload.
	ErrFormat = errors.New("estimation response malformed")
)

const (
	msgFailed       = "Failed to calculate estimation. Please check your network or try again."
	msgUnconfigured = "The estimation service is not configured. Please contact the administrator."
)

// UserMessage returns the text shown to the user for an Estimate failure.
// Transport and format failures share one message.
func UserMessage(err error) string {
	if errors.Is(err, ErrConfiguration) {
		return msgUnconfigured
	}
	return msgFailed
}
