package cart

import "context"

// Store is the persistence port for cart snapshots. Carts and the applied
// discount are read and written as whole-value snapshots, never
// incrementally. A cart that was never saved loads as an empty slice, and
// a discount that was never applied loads as 0.
type Store interface {
	LoadCart(ctx context.Context, cartID string) ([]Line, error)
	SaveCart(ctx context.Context, cartID string, lines []Line) error

	LoadDiscount(ctx context.Context, cartID string) (float64, error)
	SaveDiscount(ctx context.Context, cartID string, amount float64) error
	ClearDiscount(ctx context.Context, cartID string) error
}
