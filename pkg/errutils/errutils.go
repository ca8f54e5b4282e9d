package errutils

import "fmt"

// Wrap annotates err with op while keeping the original error
// reachable through errors.Is / errors.As.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
