package gsusb

import (
	"encoding/binary"
	"fmt"
)

// Native identifier word. The controller ORs frame properties into the high
// bits above the 29-bit arbitration range.
const (
	IDMask     uint32 = 0x1FFFFFFF // arbitration bits
	IDError    uint32 = 1 << 29    // error frame
	IDRemote   uint32 = 1 << 30    // remote transmission request
	IDExtended uint32 = 1 << 31    // 29-bit identifier
)

// NoEchoID is the reserved echo identifier marking a genuine bus reception.
// Any other value correlates the frame with a previously transmitted one.
const NoEchoID uint32 = 0xFFFFFFFF

// Native flag bits, independent of the identifier markers.
const (
	FlagOverflow uint8 = 1 << 0 // controller RX queue overflowed
	FlagFD       uint8 = 1 << 1
	FlagBRS      uint8 = 1 << 2
	FlagESI      uint8 = 1 << 3
)

// Frame is the controller's native host-frame representation, mirroring the
// struct exchanged over the USB bulk endpoints.
type Frame struct {
	EchoID      uint32
	CANID       uint32 // arbitration id with IDExtended/IDRemote/IDError ORed in
	Len         uint8
	Channel     uint8
	Flags       uint8
	Data        [64]byte
	TimestampUS uint32 // microseconds
}

// EncodeFrame maps an outbound message to the native representation.
// The timestamp is truncated to whole microseconds.
func EncodeFrame(m Message) Frame {
	var f Frame
	f.CANID = m.ID
	if m.Extended {
		f.CANID |= IDExtended
	}
	if m.RTR {
		f.CANID |= IDRemote
	}
	if m.Err {
		f.CANID |= IDError
	}
	if m.FD {
		f.Flags |= FlagFD
	}
	if m.BRS {
		f.Flags |= FlagBRS
	}
	if m.ESI {
		f.Flags |= FlagESI
	}
	f.Len = m.Len
	f.Data = m.Data
	f.TimestampUS = uint32(int64(m.Timestamp * 1e6))
	return f
}

// Message maps an inbound native frame to the generic representation.
// The session's channel label is stamped on; the device reports none.
func (f *Frame) Message(channel string) Message {
	m := Message{
		Extended:  f.CANID&IDExtended != 0,
		RTR:       f.CANID&IDRemote != 0,
		Err:       f.CANID&IDError != 0,
		FD:        f.Flags&FlagFD != 0,
		BRS:       f.Flags&FlagBRS != 0,
		ESI:       f.Flags&FlagESI != 0,
		Len:       f.Len,
		Data:      f.Data,
		Timestamp: f.Timestamp(),
		Echo:      f.IsEcho(),
		Channel:   channel,
	}
	if m.Extended {
		m.ID = f.CANID & IDMask
	} else {
		m.ID = f.CANID & maxStdID
	}
	return m
}

// Timestamp converts the device's microsecond counter to seconds.
func (f *Frame) Timestamp() float64 {
	return float64(f.TimestampUS) / 1e6
}

// IsEcho reports whether the frame is a transmit-echo rather than a genuine
// bus reception.
func (f *Frame) IsEcho() bool {
	return f.EchoID != NoEchoID
}

// Wire sizes for the USB bulk layout, without the optional trailing
// hardware timestamp.
const (
	wireSizeClassic = 20 // 12-byte header + 8 data bytes
	wireSizeFD      = 76 // 12-byte header + 64 data bytes
)

// MarshalBinary encodes the frame to the controller's bulk transfer layout.
//
// Layout (little-endian):
//
//	0..3   echo_id
//	4..7   can_id (with IDExtended/IDRemote/IDError markers)
//	8      can_dlc
//	9      channel
//	10     flags
//	11     reserved (zero)
//	12..   data (8 bytes classic, 64 bytes when FlagFD is set)
//
// The hardware timestamp is not appended; controllers only report it in
// hardware-timestamp mode and never expect it on transmit.
func (f Frame) MarshalBinary() ([]byte, error) {
	n := maxClassicLen
	size := wireSizeClassic
	if f.Flags&FlagFD != 0 {
		n = maxFDLen
		size = wireSizeFD
	}
	if int(f.Len) > n {
		return nil, ErrInvalidLen
	}
	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], f.EchoID)
	binary.LittleEndian.PutUint32(buf[4:8], f.CANID)
	buf[8] = f.Len
	buf[9] = f.Channel
	buf[10] = f.Flags
	copy(buf[12:], f.Data[:n])
	return buf, nil
}

// UnmarshalBinary decodes a frame from the bulk transfer layout. Both the
// classic and FD sizes are accepted, each with or without the trailing
// 4-byte hardware timestamp.
func (f *Frame) UnmarshalBinary(data []byte) error {
	n := 0
	switch len(data) {
	case wireSizeClassic, wireSizeClassic + 4:
		n = maxClassicLen
	case wireSizeFD, wireSizeFD + 4:
		n = maxFDLen
	default:
		return fmt.Errorf("gsusb: frame must be %d or %d bytes (plus optional timestamp), got %d",
			wireSizeClassic, wireSizeFD, len(data))
	}
	f.EchoID = binary.LittleEndian.Uint32(data[0:4])
	f.CANID = binary.LittleEndian.Uint32(data[4:8])
	f.Len = data[8]
	f.Channel = data[9]
	f.Flags = data[10]
	f.Data = [64]byte{}
	copy(f.Data[:], data[12:12+n])
	f.TimestampUS = 0
	if len(data) == 12+n+4 {
		f.TimestampUS = binary.LittleEndian.Uint32(data[12+n:])
	}
	return nil
}
