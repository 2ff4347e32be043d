package gsusb

import (
	"errors"
	"fmt"
)

// ErrClosed indicates the session has been shut down.
var ErrClosed = errors.New("gsusb: bus closed")

// ConfigurationError reports invalid or mutually exclusive construction
// parameters. It is returned before any device I/O takes place.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "gsusb: " + e.Reason
}

// DeviceNotFoundError reports that device selection found no match.
type DeviceNotFoundError struct {
	// Index is the requested ordinal, or -1 when the lookup was by
	// bus/address pair or channel descriptor.
	Index int

	// Discovered is the number of devices enumeration found. Only
	// meaningful for ordinal lookups.
	Discovered int

	// Channel is the session's channel descriptor.
	Channel string
}

func (e *DeviceNotFoundError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("gsusb: cannot find device %d: %d devices discovered", e.Index, e.Discovered)
	}
	return fmt.Sprintf("gsusb: cannot find device %s", e.Channel)
}

// InitializationError reports that bitrate configuration or the start
// command failed. The session is not usable after it.
type InitializationError struct {
	Op  string // "set bitrate", "set data bitrate" or "start"
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("gsusb: %s failed: %v", e.Op, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// OperationError reports that a transmit submission failed at the
// transport layer. The session remains usable.
type OperationError struct {
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("gsusb: the message could not be sent: %v", e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
