// README: Monthly estimation quota per client, reset lazily when the month changes.
package aiusage

import "errors"

// ErrInsufficientTokens is returned when a client has no estimations left for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of estimations granted per month.
const DefaultTokens = 100

const monthLayout = "2006-01"
