package n25q

import (
	"fmt"
	"io"
	"time"
)

// Dev is an open N25Q256A. A Dev owns its Transport exclusively: every
// operation is a blocking call, nothing is retried internally, and there is
// no internal locking. Callers issuing operations from more than one
// goroutine must serialize around the whole Dev.
type Dev struct {
	t        Transport
	timeout  time.Duration
	interval time.Duration
	single   bool
	closed   bool
}

// Opts holds the device options. A nil *Opts selects all defaults.
type Opts struct {
	// Timeout bounds each command, data transfer, and non-erase poll.
	// Defaults to 5s.
	Timeout time.Duration

	// PollInterval is the cadence of status polls. Defaults to 100µs.
	PollInterval time.Duration

	// SingleLane selects the extended-SPI command subset: FAST READ with 8
	// dummy cycles and PAGE PROGRAM, every phase on one line, so the device
	// can hang off a plain SPI controller. The default is the quad I/O
	// command set with 10 dummy cycles.
	SingleLane bool
}

// New brings the device to its operating state over t and returns the open
// handle. The sequence is fixed and aborts on the first failing step:
//
//  1. reset the bus to a known electrical state
//  2. RESET ENABLE + RESET MEMORY, then wait until not busy
//  3. enter 4-byte addressing (write enable, command, wait)
//  4. set the volatile configuration register's dummy-cycle field to match
//     the read command, preserving all other bits
//
// Step 1 failures surface as plain transport errors; steps 2 to 4 wrap
// ErrNotSupported so callers can tell an incompatible part from a flaky bus.
func New(t Transport, opts *Opts) (*Dev, error) {
	d := &Dev{
		t:        t,
		timeout:  defaultTimeout,
		interval: defaultPollInterval,
	}
	if opts != nil {
		if opts.Timeout > 0 {
			d.timeout = opts.Timeout
		}
		if opts.PollInterval > 0 {
			d.interval = opts.PollInterval
		}
		d.single = opts.SingleLane
	}

	if err := t.Reset(); err != nil {
		return nil, fmt.Errorf("n25q: bus reset: %w", err)
	}
	if err := d.resetMemory(); err != nil {
		return nil, fmt.Errorf("n25q: reset memory: %w: %w", ErrNotSupported, err)
	}
	if err := d.enter4ByteAddr(); err != nil {
		return nil, fmt.Errorf("n25q: enter 4-byte addressing: %w: %w", ErrNotSupported, err)
	}
	if err := d.configureDummyCycles(); err != nil {
		return nil, fmt.Errorf("n25q: configure dummy cycles: %w: %w", ErrNotSupported, err)
	}
	return d, nil
}

// resetMemory sends the two-command reset sequence and waits for the device
// to settle.
func (d *Dev) resetMemory() error {
	if err := d.t.Command(cmdResetEnable(), d.timeout); err != nil {
		return err
	}
	if err := d.t.Command(cmdResetMemory(), d.timeout); err != nil {
		return err
	}
	return d.waitReady(d.timeout)
}

// enter4ByteAddr switches the device to 4-byte addressing; 3-byte addresses
// stop at 16 MiB, half the array.
func (d *Dev) enter4ByteAddr() error {
	if err := d.writeEnable(); err != nil {
		return err
	}
	if err := d.t.Command(cmdEnter4ByteAddr(), d.timeout); err != nil {
		return err
	}
	return d.waitReady(d.timeout)
}

// configureDummyCycles points the volatile configuration register's
// dummy-cycle field at the read command in use. Only that field changes.
func (d *Dev) configureDummyCycles() error {
	if err := d.t.Command(cmdReadVolatileConfig(), d.timeout); err != nil {
		return err
	}
	var buf [1]byte
	if err := d.t.Receive(buf[:], d.timeout); err != nil {
		return err
	}

	if err := d.writeEnable(); err != nil {
		return err
	}

	dummy := uint8(dummyCyclesQuadRead)
	if d.single {
		dummy = dummyCyclesFastRead
	}
	buf[0] = byte(VolatileConfig(buf[0]).WithDummyCycles(dummy))
	if err := d.t.Command(cmdWriteVolatileConfig(), d.timeout); err != nil {
		return err
	}
	return d.t.Transmit(buf[:], d.timeout)
}

// writeEnable sets the write-enable latch and confirms it took.
func (d *Dev) writeEnable() error {
	if err := d.t.Command(cmdWriteEnable(), d.timeout); err != nil {
		return err
	}
	return d.poll(cmdReadStatus(1), pollWriteEnabled, d.timeout)
}

// waitReady blocks until the write-in-progress bit clears.
func (d *Dev) waitReady(timeout time.Duration) error {
	return d.poll(cmdReadStatus(1), pollReady, timeout)
}

// Close resets the bus and releases the device. Operations after Close
// return ErrClosed; closing twice is a no-op.
func (d *Dev) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.t.Reset(); err != nil {
		return fmt.Errorf("n25q: bus reset: %w", err)
	}
	return nil
}

// Read fills p from flash starting at addr with a single read command and
// one data phase of exactly len(p) bytes. There are no retries; the first
// transport failure surfaces as is. addr and len(p) are not validated
// against the geometry.
func (d *Dev) Read(p []byte, addr uint32) error {
	if d.closed {
		return ErrClosed
	}
	if len(p) == 0 {
		return nil
	}
	cmd := cmdQuadRead(addr, len(p))
	if d.single {
		cmd = cmdFastRead(addr, len(p))
	}
	if err := d.t.Command(cmd, d.timeout); err != nil {
		return fmt.Errorf("n25q: read command at %#x: %w", addr, err)
	}
	if err := d.t.Receive(p, d.timeout); err != nil {
		return fmt.Errorf("n25q: read %d bytes at %#x: %w", len(p), addr, err)
	}
	return nil
}

// Write programs p into flash starting at addr, splitting the span at page
// boundaries so no program command crosses the device's 256-byte page
// buffer. Each chunk runs write-enable, program, transmit, then a wait for
// completion before the next chunk starts. The target range must already be
// erased; programming only clears bits.
//
// Write is not atomic across pages: when a later chunk fails, earlier
// chunks are already committed to the device and are not rolled back.
// Callers that need to detect a torn multi-page write must re-read and
// compare.
func (d *Dev) Write(p []byte, addr uint32) error {
	if d.closed {
		return ErrClosed
	}
	if len(p) == 0 {
		return nil
	}

	end := addr + uint32(len(p))
	chunk := min(PageSize-addr%PageSize, uint32(len(p)))
	for off := uint32(0); ; {
		if err := d.writeEnable(); err != nil {
			return fmt.Errorf("n25q: write enable: %w", err)
		}
		cmd := cmdQuadProgram(addr, int(chunk))
		if d.single {
			cmd = cmdPageProgram(addr, int(chunk))
		}
		if err := d.t.Command(cmd, d.timeout); err != nil {
			return fmt.Errorf("n25q: program command at %#x: %w", addr, err)
		}
		if err := d.t.Transmit(p[off:off+chunk], d.timeout); err != nil {
			return fmt.Errorf("n25q: program %d bytes at %#x: %w", chunk, addr, err)
		}
		if err := d.waitReady(d.timeout); err != nil {
			return fmt.Errorf("n25q: program wait at %#x: %w", addr, err)
		}

		addr += chunk
		off += chunk
		if addr >= end {
			return nil
		}
		chunk = min(PageSize, end-addr)
	}
}

// EraseBlock erases the 4 KiB subsector containing addr back to all ones.
// Destructive and unconditional; there is no confirmation step.
func (d *Dev) EraseBlock(addr uint32) error {
	if d.closed {
		return ErrClosed
	}
	return d.erase(cmdSubsectorErase(addr), subsectorEraseTimeout)
}

// EraseSector erases the 64 KiB sector containing addr.
func (d *Dev) EraseSector(addr uint32) error {
	if d.closed {
		return ErrClosed
	}
	return d.erase(cmdSectorErase(addr), sectorEraseTimeout)
}

// EraseChip erases the entire array. The completion wait runs against the
// bulk-erase ceiling, which is minutes rather than seconds.
func (d *Dev) EraseChip() error {
	if d.closed {
		return ErrClosed
	}
	return d.erase(cmdBulkErase(), bulkEraseTimeout)
}

func (d *Dev) erase(cmd Command, timeout time.Duration) error {
	if err := d.writeEnable(); err != nil {
		return fmt.Errorf("n25q: write enable: %w", err)
	}
	if err := d.t.Command(cmd, d.timeout); err != nil {
		return fmt.Errorf("n25q: %s: %w", cmd, err)
	}
	if err := d.waitReady(timeout); err != nil {
		return fmt.Errorf("n25q: %s wait: %w", cmd, err)
	}
	return nil
}

// Status reads the flag status register and decodes it: error beats
// suspended beats ready beats busy. Error bits are sticky; after a failed
// program or erase the register keeps reporting error until
// ClearFlagStatus.
func (d *Dev) Status() (Status, error) {
	fs, err := d.ReadFlagStatus()
	if err != nil {
		return 0, err
	}
	return fs.Status(), nil
}

// ReadFlagStatus returns the raw flag status register.
func (d *Dev) ReadFlagStatus() (FlagStatus, error) {
	if d.closed {
		return 0, ErrClosed
	}
	var buf [1]byte
	if err := d.t.Command(cmdReadFlagStatus(1), d.timeout); err != nil {
		return 0, fmt.Errorf("n25q: read flag status: %w", err)
	}
	if err := d.t.Receive(buf[:], d.timeout); err != nil {
		return 0, fmt.Errorf("n25q: read flag status: %w", err)
	}
	return FlagStatus(buf[0]), nil
}

// ReadStatusRegister returns the raw legacy status register.
func (d *Dev) ReadStatusRegister() (StatusRegister, error) {
	if d.closed {
		return 0, ErrClosed
	}
	var buf [1]byte
	if err := d.t.Command(cmdReadStatus(1), d.timeout); err != nil {
		return 0, fmt.Errorf("n25q: read status register: %w", err)
	}
	if err := d.t.Receive(buf[:], d.timeout); err != nil {
		return 0, fmt.Errorf("n25q: read status register: %w", err)
	}
	return StatusRegister(buf[0]), nil
}

// ReadID returns the manufacturer, memory type, and capacity id bytes.
// The N25Q256A answers 20 BA 19.
func (d *Dev) ReadID() ([3]byte, error) {
	var id [3]byte
	if d.closed {
		return id, ErrClosed
	}
	if err := d.t.Command(cmdReadID(len(id)), d.timeout); err != nil {
		return id, fmt.Errorf("n25q: read id: %w", err)
	}
	if err := d.t.Receive(id[:], d.timeout); err != nil {
		return id, fmt.Errorf("n25q: read id: %w", err)
	}
	return id, nil
}

// ClearFlagStatus clears the sticky error bits of the flag status register.
func (d *Dev) ClearFlagStatus() error {
	if d.closed {
		return ErrClosed
	}
	if err := d.t.Command(cmdClearFlagStatus(), d.timeout); err != nil {
		return fmt.Errorf("n25q: clear flag status: %w", err)
	}
	return nil
}

// Suspend pauses the in-progress program or erase and waits until the
// device parks it. Status reports StatusSuspended until Resume; reads
// against other subsectors are legal while suspended.
func (d *Dev) Suspend() error {
	if d.closed {
		return ErrClosed
	}
	if err := d.t.Command(cmdSuspend(), d.timeout); err != nil {
		return fmt.Errorf("n25q: suspend: %w", err)
	}
	if err := d.waitReady(d.timeout); err != nil {
		return fmt.Errorf("n25q: suspend wait: %w", err)
	}
	return nil
}

// Resume restarts the suspended program or erase.
func (d *Dev) Resume() error {
	if d.closed {
		return ErrClosed
	}
	if err := d.t.Command(cmdResume(), d.timeout); err != nil {
		return fmt.Errorf("n25q: resume: %w", err)
	}
	return nil
}

// EnableMemoryMapped hands the bus over to memory-mapped mode: reads
// against the mapped window turn into flash read commands with no per-read
// driver involvement. The command template mirrors Read's; its address is
// supplied by the window. The idle-release counter stays disabled, so the
// mapping holds until a bus reset: exiting means Close and a fresh New.
func (d *Dev) EnableMemoryMapped() error {
	if d.closed {
		return ErrClosed
	}
	cmd := cmdQuadRead(0, 0)
	if d.single {
		cmd = cmdFastRead(0, 0)
	}
	if err := d.t.MemoryMapped(cmd, MemoryMapConfig{}); err != nil {
		return fmt.Errorf("n25q: memory-mapped mode: %w", err)
	}
	return nil
}

// ReadAt implements io.ReaderAt over the device address space.
func (d *Dev) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > FlashSize {
		return 0, ErrOutOfRange
	}
	if err := d.Read(p, uint32(off)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteAt implements io.WriterAt over the device address space. The range
// must be erased first; a failed multi-page write leaves earlier pages
// committed (see Write).
func (d *Dev) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > FlashSize {
		return 0, ErrOutOfRange
	}
	if err := d.Write(p, uint32(off)); err != nil {
		return 0, err
	}
	return len(p), nil
}

var (
	_ io.ReaderAt = (*Dev)(nil)
	_ io.WriterAt = (*Dev)(nil)
)

func (d *Dev) String() string {
	return fmt.Sprintf("n25q.Dev{%dMiB}", FlashSize>>20)
}
