// internal/domain/cart/repository_port.go
package cart

import "context"

// SnapshotStore persists the full cart state after every transition and
// rehydrates it on first access.
//
// Not-found / corrupt handling policy:
// - missing or unparsable data returns (Empty(), false, nil); the caller
//   treats that as "start from an empty cart", never as an error.
type SnapshotStore interface {
	Load(ctx context.Context, customerID string) (State, bool, error)
	Save(ctx context.Context, customerID string, s State) error
}

// MirrorWriter pushes a copy of the cart state to the remote store for
// signed-in customers. The remote copy is a convenience mirror, not a
// source of truth; a failed write never affects cart correctness.
type MirrorWriter interface {
	Write(ctx context.Context, customerID string, s State) error
}
