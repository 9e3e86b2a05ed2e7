package n25q

import "errors"

var (
	// ErrClosed is returned by every operation on a closed device.
	ErrClosed = errors.New("device closed")

	// ErrTimeout is returned when a status poll never observes its match
	// condition inside the allotted window. The device may still be busy;
	// Status reports where it ended up.
	ErrTimeout = errors.New("status poll timeout")

	// ErrNotSupported wraps setup failures during New: the device did not
	// accept the reset, 4-byte addressing, or dummy-cycle configuration it
	// needs. Callers can retry New or treat the part as incompatible.
	ErrNotSupported = errors.New("unsupported device configuration")

	// ErrOutOfRange is returned by ReadAt and WriteAt for offsets outside
	// the device address space.
	ErrOutOfRange = errors.New("address out of range")
)
