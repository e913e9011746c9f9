package codec

import "errors"

var (
	// ErrUnknownReference is returned when a link names a device id that
	// the document does not define.
	ErrUnknownReference = errors.New("unknown device reference")

	// ErrDuplicateDevice is returned when two devices share an id
	ErrDuplicateDevice = errors.New("duplicate device id")
)
