package gsusb

import "time"

// Config carries the construction parameters for a session.
// Index and BusNumber/Address are mutually exclusive selection strategies.
type Config struct {
	// Channel is an opaque label, stamped onto every received message.
	Channel string

	// Bitrate is the nominal bit rate in bits/s. Required.
	Bitrate uint32

	// DataBitrate, when set, enables a distinct CAN-FD data-phase rate.
	DataBitrate *uint32

	// Index selects the nth device in discovery order, starting from 0.
	Index *int

	// BusNumber and Address select a device by its USB topology. Either
	// may be set alone; a nil field matches any value.
	BusNumber *uint8
	Address   *uint8

	// Filters is accepted for contract compatibility but never applied;
	// this adapter performs no filtering.
	Filters []uint32

	// Flags is passed through to Device.Start uninterpreted. See Mode*.
	Flags uint32
}

// Open resolves a device per cfg, configures its bit rates, starts it and
// returns the running session. Selection and initialization failures abort
// construction entirely; no partially usable session is returned.
func Open(cfg Config, devs Enumerator) (Bus, error) {
	dev, err := selectDevice(cfg, devs)
	if err != nil {
		return nil, err
	}
	s := &session{dev: dev, channel: cfg.Channel}
	if err := s.configure(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func selectDevice(cfg Config, devs Enumerator) (Device, error) {
	if cfg.Index != nil && (cfg.BusNumber != nil || cfg.Address != nil) {
		return nil, &ConfigurationError{Reason: "index and bus/address cannot be used simultaneously"}
	}
	if cfg.Index != nil {
		found := devs.Scan()
		if *cfg.Index < 0 || *cfg.Index >= len(found) {
			return nil, &DeviceNotFoundError{Index: *cfg.Index, Discovered: len(found), Channel: cfg.Channel}
		}
		return found[*cfg.Index], nil
	}
	dev := devs.Find(cfg.BusNumber, cfg.Address)
	if dev == nil {
		return nil, &DeviceNotFoundError{Index: -1, Channel: cfg.Channel}
	}
	return dev, nil
}

// session is the single-use state machine Unconfigured -> Running -> Stopped.
// It exclusively owns its Device and is not internally synchronized.
type session struct {
	dev     Device
	channel string
	closed  bool
}

func (s *session) configure(cfg Config) error {
	if err := s.dev.SetBitrate(cfg.Bitrate, false); err != nil {
		return s.failStart("set bitrate", err)
	}
	if cfg.DataBitrate != nil {
		if err := s.dev.SetBitrate(*cfg.DataBitrate, true); err != nil {
			return s.failStart("set data bitrate", err)
		}
	}
	if err := s.dev.Start(cfg.Flags); err != nil {
		return s.failStart("start", err)
	}
	return nil
}

// failStart returns the controller to a stopped state before reporting the
// failure, so it is not left half-started. The stop is best effort.
func (s *session) failStart(op string, err error) error {
	_ = s.dev.Stop()
	return &InitializationError{Op: op, Err: err}
}

// Send transmits msg and blocks until the transfer completes or fails.
// The timeout argument is not honored.
func (s *session) Send(msg Message, _ time.Duration) error {
	if s.closed {
		return ErrClosed
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	f := EncodeFrame(msg)
	if err := s.dev.Send(&f); err != nil {
		return &OperationError{Err: err}
	}
	return nil
}

// Receive issues exactly one bounded read and decodes the result. Both
// genuine receptions and transmit-echoes are returned; classification is
// left to the caller. It never fails: timeouts and transport read errors
// are both reported as no message, keeping polling loops simple.
func (s *session) Receive(timeout time.Duration) (*Message, bool) {
	if s.closed {
		return nil, false
	}
	var f Frame
	ok, err := s.dev.Read(&f, timeoutMs(timeout))
	if err != nil || !ok {
		return nil, false
	}
	msg := f.Message(s.channel)
	return &msg, false
}

// timeoutMs converts a wait duration to the controller's integer millisecond
// resolution, rounding half-up. Zero and negative waits become the 1ms
// minimum so the read stays bounded but is never rejected as zero-length.
func timeoutMs(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	ms := int((d + time.Millisecond/2) / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return ms
}

// Shutdown stops the session, then the controller, and returns the stop
// command's error. A second call fails fast with ErrClosed.
func (s *session) Shutdown() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.dev.Stop()
}
