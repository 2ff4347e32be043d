package gsusb

// Device is one attached USB CAN controller, consumed as an opaque handle.
// The underlying transport (control and bulk transfers, claiming) lives
// behind this interface so the translation and session logic is testable
// against a fake implementation such as LoopbackDevice.
//
// A Device is exclusively owned by one session for its lifetime.
type Device interface {
	// SetBitrate configures the nominal bit rate, or the FD data-phase
	// rate when data is true.
	SetBitrate(bitrate uint32, data bool) error

	// Start transitions the controller into a running state. The flags
	// value is an opaque pass-through of Mode* bits; the session does not
	// interpret it.
	Start(flags uint32) error

	// Stop returns the controller to a stopped state.
	Stop() error

	// Send submits one frame for transmission. It blocks until the
	// transfer completes or fails; there is no fire-and-forget mode.
	Send(f *Frame) error

	// Read attempts to receive one frame within timeoutMs milliseconds.
	// It reports false when no frame arrived before the deadline.
	Read(f *Frame, timeoutMs int) (bool, error)
}

// Enumerator discovers attached controllers.
type Enumerator interface {
	// Scan returns all attached devices of the supported kind in
	// discovery order.
	Scan() []Device

	// Find performs a targeted lookup by USB bus number and/or device
	// address. A nil argument matches any value; a nil result means no
	// device matched. Find does not open or configure the device.
	Find(bus, address *uint8) Device
}

// Controller mode flags for Device.Start. Opaque to the session.
const (
	ModeNormal       uint32 = 0
	ModeListenOnly   uint32 = 1 << 0
	ModeLoopback     uint32 = 1 << 1
	ModeTripleSample uint32 = 1 << 2
	ModeOneShot      uint32 = 1 << 3
	ModeHWTimestamp  uint32 = 1 << 4
)
