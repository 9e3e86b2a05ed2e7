package n25q

import "time"

// Transport moves commands and data between the driver and the device. It is
// the seam between this protocol layer and a concrete bus: a quad-capable
// QSPI controller, a plain SPI port (extspi), or a simulated part (n25qtest).
//
// A Transport is stateful across one transaction: Command opens it, and when
// the command declares a data phase, exactly one Receive or Transmit of
// DataLen bytes completes it. The driver never interleaves transactions;
// implementations may assume strictly sequential use from a single owner.
// Every primitive is fallible and, where it moves bytes, bounded by the
// caller's timeout.
type Transport interface {
	// Command issues the instruction, address, and dummy phases of cmd.
	Command(cmd Command, timeout time.Duration) error

	// Receive runs the read data phase of the pending command, filling p.
	Receive(p []byte, timeout time.Duration) error

	// Transmit runs the write data phase of the pending command, draining p.
	Transmit(p []byte, timeout time.Duration) error

	// MemoryMapped switches the bus into memory-mapped mode using cmd as
	// the read template. Once mapped, command traffic is over until Reset.
	MemoryMapped(cmd Command, cfg MemoryMapConfig) error

	// Reset returns the bus to its power-on electrical state.
	Reset() error
}

// MemoryMapConfig configures memory-mapped mode entry. The zero value keeps
// the chip select asserted indefinitely between mapped reads.
type MemoryMapConfig struct {
	// ReleaseOnIdle releases the chip select after IdleTimeout of bus
	// inactivity, letting the device drop to standby between reads.
	ReleaseOnIdle bool
	IdleTimeout   time.Duration
}
