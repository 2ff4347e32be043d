package gsusb

import (
	"sync"
	"time"
)

// LoopbackDevice is an in-memory Device for tests and simulations. It
// records every configuration and transmit call and serves injected frames
// to Read through a buffered queue.
type LoopbackDevice struct {
	BusNumber uint8
	Address   uint8

	// Fail points. When set, the corresponding call returns the error.
	BitrateErr error
	StartErr   error
	StopErr    error
	SendErr    error
	ReadErr    error

	// EchoTX re-queues every sent frame for Read with its echo id intact,
	// mimicking the controller's loopback confirmation of a transmit.
	EchoTX bool

	mu           sync.Mutex
	bitrates     []BitrateCall
	starts       []uint32
	stops        int
	sent         []Frame
	readTimeouts []int

	rx chan Frame
}

// BitrateCall records one SetBitrate invocation.
type BitrateCall struct {
	Bitrate uint32
	Data    bool
}

// NewLoopbackDevice creates a loopback device at the given USB topology.
func NewLoopbackDevice(bus, address uint8) *LoopbackDevice {
	return &LoopbackDevice{
		BusNumber: bus,
		Address:   address,
		rx:        make(chan Frame, 64),
	}
}

func (d *LoopbackDevice) SetBitrate(bitrate uint32, data bool) error {
	if d.BitrateErr != nil {
		return d.BitrateErr
	}
	d.mu.Lock()
	d.bitrates = append(d.bitrates, BitrateCall{Bitrate: bitrate, Data: data})
	d.mu.Unlock()
	return nil
}

func (d *LoopbackDevice) Start(flags uint32) error {
	if d.StartErr != nil {
		return d.StartErr
	}
	d.mu.Lock()
	d.starts = append(d.starts, flags)
	d.mu.Unlock()
	return nil
}

func (d *LoopbackDevice) Stop() error {
	d.mu.Lock()
	d.stops++
	d.mu.Unlock()
	return d.StopErr
}

func (d *LoopbackDevice) Send(f *Frame) error {
	if d.SendErr != nil {
		return d.SendErr
	}
	d.mu.Lock()
	d.sent = append(d.sent, *f)
	d.mu.Unlock()
	if d.EchoTX {
		select {
		case d.rx <- *f:
		default:
			// Drop when the queue is full, like a saturated controller.
		}
	}
	return nil
}

func (d *LoopbackDevice) Read(f *Frame, timeoutMs int) (bool, error) {
	d.mu.Lock()
	d.readTimeouts = append(d.readTimeouts, timeoutMs)
	d.mu.Unlock()
	if d.ReadErr != nil {
		return false, d.ReadErr
	}
	select {
	case fr := <-d.rx:
		*f = fr
		return true, nil
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return false, nil
	}
}

// Inject queues a frame as a genuine bus reception; its echo id is forced
// to the reserved sentinel.
func (d *LoopbackDevice) Inject(f Frame) {
	f.EchoID = NoEchoID
	select {
	case d.rx <- f:
	default:
	}
}

// BitrateCalls returns the recorded SetBitrate invocations in order.
func (d *LoopbackDevice) BitrateCalls() []BitrateCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]BitrateCall(nil), d.bitrates...)
}

// StartCalls returns the flags of each recorded Start invocation.
func (d *LoopbackDevice) StartCalls() []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint32(nil), d.starts...)
}

// StopCalls returns the number of Stop invocations.
func (d *LoopbackDevice) StopCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stops
}

// SentFrames returns the recorded transmitted frames in order.
func (d *LoopbackDevice) SentFrames() []Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Frame(nil), d.sent...)
}

// ReadTimeouts returns the millisecond waits passed to each Read call.
func (d *LoopbackDevice) ReadTimeouts() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.readTimeouts...)
}

// LoopbackEnumerator is a fixed device list implementing Enumerator.
type LoopbackEnumerator struct {
	Devices []*LoopbackDevice
}

// Scan returns the devices in list order.
func (e *LoopbackEnumerator) Scan() []Device {
	out := make([]Device, len(e.Devices))
	for i, d := range e.Devices {
		out[i] = d
	}
	return out
}

// Find returns the first device matching the given bus number and address.
// A nil argument matches any value.
func (e *LoopbackEnumerator) Find(bus, address *uint8) Device {
	for _, d := range e.Devices {
		if bus != nil && d.BusNumber != *bus {
			continue
		}
		if address != nil && d.Address != *address {
			continue
		}
		return d
	}
	return nil
}
