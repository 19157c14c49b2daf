// internal/domain/sequence/sequence.go
package sequence

import (
	"context"
	"fmt"
	"time"
)

// Counter names used by the storefront.
const (
	OrderSequence  = "order_sequence"
	ReturnSequence = "return_sequence"
)

const (
	orderPrefix  = "BREW-"
	returnPrefix = "BREW-RET-"

	// fallbackMarker namespaces ids minted from the wall clock when the
	// transactional allocator is unavailable, so they can never collide
	// with real sequence-derived ids.
	fallbackMarker = "F-"
)

// Allocator hands out strictly increasing integers per counter name, safe
// under concurrent callers across sessions. Two concurrent callers must
// never observe or write the same value.
type Allocator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// FormatOrderID renders an order id: the sequence zero-padded to at least
// two digits on the fixed prefix (3 -> "BREW-03").
func FormatOrderID(n int64) string {
	return fmt.Sprintf("%s%02d", orderPrefix, n)
}

// FormatReturnID renders a return id (3 -> "BREW-RET-03").
func FormatReturnID(n int64) string {
	return fmt.Sprintf("%s%02d", returnPrefix, n)
}

// FallbackOrderID mints a degraded, wall-clock-derived order id. Not
// monotonic-safe; callers log the allocation failure that led here.
func FallbackOrderID(now time.Time) string {
	return fmt.Sprintf("%s%s%d", orderPrefix, fallbackMarker, now.UnixMilli())
}

// FallbackReturnID mints a degraded, wall-clock-derived return id.
func FallbackReturnID(now time.Time) string {
	return fmt.Sprintf("%s%s%d", returnPrefix, fallbackMarker, now.UnixMilli())
}
