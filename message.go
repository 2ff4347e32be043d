package gsusb

import (
	"errors"
	"fmt"
	"strings"
)

// Message represents one CAN or CAN-FD frame at the abstraction boundary.
//
// Supported features:
//   - Standard (11-bit) and Extended (29-bit) identifiers
//   - Data frames, Remote Transmission Request (RTR) and error frames
//   - CAN-FD payloads up to 64 bytes with bit-rate switch and
//     error-state-indicator flags
type Message struct {
	ID       uint32 // 11-bit (std) or 29-bit (ext)
	Extended bool   // true for 29-bit identifier
	RTR      bool   // remote transmission request
	Err      bool   // error frame
	FD       bool   // CAN-FD frame
	BRS      bool   // bit-rate switch (FD data phase at a different rate)
	ESI      bool   // error-state indicator
	Len      uint8  // 0..8 classic, 0..64 FD
	Data     [64]byte

	// Timestamp is in seconds. On transmit it is truncated to the
	// controller's microsecond resolution.
	Timestamp float64

	// Echo marks a transmit-echo (loopback confirmation of a frame this
	// session previously sent) rather than a genuine bus reception.
	Echo bool

	// Channel is the session's label, stamped onto every decoded message.
	Channel string
}

// Validation limits.
const (
	maxStdID      = 0x7FF
	maxExtID      = 0x1FFFFFFF
	maxClassicLen = 8
	maxFDLen      = 64
)

var (
	ErrInvalidID  = errors.New("gsusb: invalid identifier")
	ErrInvalidLen = errors.New("gsusb: invalid data length")
)

// Validate returns an error if the message is not valid.
func (m Message) Validate() error {
	max := uint8(maxClassicLen)
	if m.FD {
		max = maxFDLen
	}
	if m.Len > max {
		return ErrInvalidLen
	}
	if m.Extended {
		if m.ID > maxExtID {
			return ErrInvalidID
		}
	} else {
		if m.ID > maxStdID {
			return ErrInvalidID
		}
	}
	return nil
}

// MustMessage constructs a Message and panics if invalid. Convenience for
// examples and tests. Identifiers above the 11-bit range are marked extended.
func MustMessage(id uint32, data []byte) Message {
	var m Message
	m.ID = id
	if id > maxStdID {
		m.Extended = true
	}
	if len(data) > maxClassicLen {
		panic(ErrInvalidLen)
	}
	m.Len = uint8(len(data))
	copy(m.Data[:], data)
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// String renders the message as "ID [len] DATA" with flag suffixes.
func (m Message) String() string {
	var b strings.Builder
	if m.Extended {
		fmt.Fprintf(&b, "%08X", m.ID)
	} else {
		fmt.Fprintf(&b, "%03X", m.ID)
	}
	fmt.Fprintf(&b, " [%d]", m.Len)
	for _, d := range m.Data[:m.Len] {
		fmt.Fprintf(&b, " %02X", d)
	}
	for _, f := range []struct {
		set  bool
		name string
	}{
		{m.RTR, "RTR"},
		{m.Err, "ERR"},
		{m.FD, "FD"},
		{m.BRS, "BRS"},
		{m.ESI, "ESI"},
		{m.Echo, "ECHO"},
	} {
		if f.set {
			b.WriteString(" " + f.name)
		}
	}
	return b.String()
}
