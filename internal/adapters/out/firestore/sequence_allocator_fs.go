// internal/adapters/out/firestore/sequence_allocator_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SequenceAllocatorFS implements sequence.Allocator on a Firestore
// transaction: read the counter document (value defaults to 0 when the
// document does not exist), write value+1, return the new value.
//
// The transaction is serializable against concurrent transactions on the
// same document, so two concurrent callers never receive the same value.
// This is the one place cross-session concurrency correctness matters.
//
// Collection design:
// - collection: counters
// - docId: counter name ("order_sequence", "return_sequence")
// - fields: value (int64)
type SequenceAllocatorFS struct {
	Client *firestore.Client
}

func NewSequenceAllocatorFS(client *firestore.Client) *SequenceAllocatorFS {
	return &SequenceAllocatorFS{Client: client}
}

func (a *SequenceAllocatorFS) col() *firestore.CollectionRef {
	return a.Client.Collection("counters")
}

func (a *SequenceAllocatorFS) Next(ctx context.Context, name string) (int64, error) {
	if a == nil || a.Client == nil {
		return 0, errors.New("sequence_allocator_fs: firestore client is nil")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("sequence_allocator_fs: counter name is empty")
	}

	ref := a.col().Doc(name)

	var next int64
	err := a.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var current int64

		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			var doc counterDoc
			if err := snap.DataTo(&doc); err != nil {
				return err
			}
			current = doc.Value
		case status.Code(err) == codes.NotFound:
			current = 0
		default:
			return err
		}

		next = current + 1
		return tx.Set(ref, counterDoc{Value: next})
	})
	if err != nil {
		return 0, err
	}

	return next, nil
}

type counterDoc struct {
	Value int64 `firestore:"value"`
}
