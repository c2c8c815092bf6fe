package shared

import "context"

// TxManager runs a function inside a single transactional boundary.
// Repository calls made within fn share the same transaction and are
// committed or rolled back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
