package order

import "errors"

// Validation failures are answered with a corrective message; inventory
// conflicts with "no longer available".
var (
	ErrUsage             = errors.New("malformed purchase command")
	ErrSearchFirst       = errors.New("no products shown yet")
	ErrProductNotFound   = errors.New("product position out of range")
	ErrUnavailable       = errors.New("product out of stock")
	ErrConflict          = errors.New("stock changed concurrently")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

// IsValidation reports whether err is a purchase command the user can fix.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUsage) || errors.Is(err, ErrSearchFirst) || errors.Is(err, ErrProductNotFound)
}

// IsInventoryConflict reports whether the product could not be reserved.
func IsInventoryConflict(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrConflict)
}
