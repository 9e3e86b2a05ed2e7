// Package extspi adapts a plain SPI link to the flash Transport interface:
// every phase of every command travels over the classic four-wire bus, one
// data line in each direction.
//
// Multi-line commands cannot be expressed on such a link, so pair this
// transport with n25q.Opts.SingleLane. Dummy cycles must come in whole
// bytes, which every single-line read variant satisfies.
//
// Chip select may be owned by the SPI controller or driven as plain GPIO;
// the FT232H needs the latter when the flash hangs off an auxiliary pin
// instead of the dedicated select line.
package extspi

import (
	"fmt"
	"time"

	"github.com/gentam/n25q"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// maxTxSize is the largest single transaction the slowest supported
// controller handles, [FTDI-AN_108].
const maxTxSize = 65536

// Transport drives the flash through an spi.Conn. It is not safe for
// concurrent use; the flash driver above it serializes all traffic.
type Transport struct {
	c   spi.Conn
	cs  gpio.PinIO // nil when the controller asserts chip select itself
	max int        // transaction size ceiling, header included

	pending n25q.Command
	hdr     []byte
	armed   bool
}

var _ n25q.Transport = (*Transport)(nil)

// New wraps an SPI connection as a flash transport. cs is the chip-select
// pin when it is driven as GPIO; pass nil when the controller owns the
// line.
func New(c spi.Conn, cs gpio.PinIO) *Transport {
	t := &Transport{c: c, cs: cs, max: maxTxSize}
	if l, ok := c.(conn.Limits); ok {
		if m := l.MaxTxSize(); m > 0 && m < t.max {
			t.max = m
		}
	}
	return t
}

func (t *Transport) Command(cmd n25q.Command, _ time.Duration) error {
	hdr, err := header(cmd)
	if err != nil {
		return err
	}
	if cmd.DataLines == n25q.LinesNone {
		t.armed = false
		return t.tx(hdr)
	}
	// The data phase shares the chip-select assertion with the command
	// phases, so the wire traffic waits for the Receive or Transmit call.
	t.pending = cmd
	t.hdr = hdr
	t.armed = true
	return nil
}

// Receive clocks the data phase of the pending command out of the device.
// Transfers beyond the transaction ceiling are split by re-issuing the
// command at the advanced address, so only addressed commands may exceed
// it.
func (t *Transport) Receive(p []byte, _ time.Duration) error {
	if !t.armed {
		return fmt.Errorf("extspi: receive without a pending command")
	}
	t.armed = false
	cmd, hdr := t.pending, t.hdr

	max := t.max - len(hdr)
	if len(p) > max && cmd.AddressLines == n25q.LinesNone {
		return fmt.Errorf("extspi: %s: %d bytes exceed one %d byte transaction", cmd, len(p), t.max)
	}
	for off := 0; off < len(p); {
		chunk := min(len(p)-off, max)
		buf := make([]byte, len(hdr)+chunk)
		copy(buf, hdr)
		if err := t.tx(buf); err != nil {
			return err
		}
		copy(p[off:], buf[len(hdr):])
		off += chunk
		if off < len(p) {
			cmd.Address += uint32(chunk)
			var err error
			if hdr, err = header(cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

// Transmit clocks the data phase of the pending command into the device.
// A program cannot resume across a chip-select gap, so the whole payload
// must fit one transaction; page-sized writes always do.
func (t *Transport) Transmit(p []byte, _ time.Duration) error {
	if !t.armed {
		return fmt.Errorf("extspi: transmit without a pending command")
	}
	t.armed = false
	if len(t.hdr)+len(p) > t.max {
		return fmt.Errorf("extspi: %s: %d bytes exceed one %d byte transaction", t.pending, len(p), t.max)
	}
	buf := make([]byte, len(t.hdr)+len(p))
	copy(buf, t.hdr)
	copy(buf[len(t.hdr):], p)
	return t.tx(buf)
}

func (t *Transport) MemoryMapped(cmd n25q.Command, _ n25q.MemoryMapConfig) error {
	return fmt.Errorf("extspi: no memory-mapped window over SPI: %w", n25q.ErrNotSupported)
}

// Reset drops any half-built transaction and parks chip select high. A
// plain SPI link has no controller state beyond that.
func (t *Transport) Reset() error {
	t.armed = false
	if t.cs != nil {
		return t.cs.Out(gpio.High)
	}
	return nil
}

// tx wraps one SPI transaction with the chip-select assertion.
func (t *Transport) tx(buf []byte) (err error) {
	if t.cs != nil {
		if err = t.cs.Out(gpio.Low); err != nil {
			return err
		}
		defer func() {
			if csErr := t.cs.Out(gpio.High); csErr != nil && err == nil {
				err = csErr
			}
		}()
	}
	err = t.c.Tx(buf, buf)
	return
}

// header serializes the instruction, address, and dummy phases as they
// appear on the wire, most significant address byte first.
func header(cmd n25q.Command) ([]byte, error) {
	if cmd.AddressLines > n25q.Lines1 || cmd.DataLines > n25q.Lines1 {
		return nil, fmt.Errorf("extspi: %s uses multi-line phases: %w", cmd, n25q.ErrNotSupported)
	}
	if cmd.DummyCycles%8 != 0 {
		return nil, fmt.Errorf("extspi: %s: %d dummy cycles is not a whole number of bytes", cmd, cmd.DummyCycles)
	}
	buf := make([]byte, 0, 1+int(cmd.AddressSize)+int(cmd.DummyCycles)/8)
	buf = append(buf, byte(cmd.Instruction))
	if cmd.AddressLines != n25q.LinesNone {
		for i := int(cmd.AddressSize) - 1; i >= 0; i-- {
			buf = append(buf, byte(cmd.Address>>(8*i)))
		}
	}
	for range cmd.DummyCycles / 8 {
		buf = append(buf, 0)
	}
	return buf, nil
}
