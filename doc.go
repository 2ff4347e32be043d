// Package gsusb adapts a generic CAN/CAN-FD message abstraction to the
// native frame format of gs_usb-class (candleLight/CANable) USB CAN
// controllers in Go without external dependencies.
//
// It includes:
//   - A core Message type with validation and a bidirectional codec to the
//     controller's native frame layout, including transmit-echo handling
//   - A session type implementing a small Bus contract: send, bounded
//     receive polling, and shutdown over an injected Device capability
//   - An in-memory loopback device for tests and simulations
//
// The USB transport itself (enumeration, control/bulk transfers, claiming)
// is not part of this package; it is consumed behind the Device and
// Enumerator interfaces.
package gsusb
