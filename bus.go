package gsusb

import "time"

// Bus is the capability contract a device adapter exposes to a host bus
// framework: construct, send, receive-poll and shutdown. This package
// implements it for gs_usb controllers; other adapters can implement it
// independently.
//
// Implementations are not required to be safe for concurrent use; callers
// sharing a Bus across goroutines must serialize access externally.
type Bus interface {
	// Send transmits a message. The timeout argument is part of the
	// contract but is not honored by this adapter: the call blocks until
	// the transfer completes or fails.
	Send(msg Message, timeout time.Duration) error

	// Receive attempts to obtain one message within the bounded wait.
	// A zero or negative timeout is treated as the minimum positive wait,
	// never as "wait forever". It returns nil when no message arrived and
	// never fails; the second result reports whether filtering has
	// already been applied, which for this adapter is always false.
	Receive(timeout time.Duration) (*Message, bool)

	// Shutdown stops the session and returns the device to a stopped
	// state. A session is single-use; Shutdown must be called once.
	Shutdown() error
}
