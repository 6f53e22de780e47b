package shop

import "errors"

// ErrNotFound is returned (wrapped) for a missing product, cart or order.
var ErrNotFound = errors.New("not found")

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
