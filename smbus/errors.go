package smbus

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-smbus/pec"
	"github.com/arloliu/go-smbus/transport"
)

var (
	// ErrInvalidHandle is returned for a nil or closed Bus.
	ErrInvalidHandle = errors.New("smbus: invalid handle")

	// ErrInvalidArgument is returned for out-of-range arguments and options.
	ErrInvalidArgument = errors.New("smbus: invalid argument")

	// ErrIO wraps every transport failure that has no more specific classification.
	// The transport's error stays in the chain.
	ErrIO = errors.New("smbus: i/o error")

	// ErrUnsupported is returned when the adapter cannot perform a transaction kind or
	// lacks PEC support.
	ErrUnsupported = transport.ErrNotSupported

	// ErrChecksumMismatch is returned when a received PEC byte does not match.
	ErrChecksumMismatch = pec.ErrMismatch
)

// wrapErr classifies a transport error for the named operation.
func wrapErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrChecksumMismatch),
		errors.Is(err, ErrUnsupported),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInvalidHandle):
		return fmt.Errorf("smbus: %s: %w", op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
	}
}
