// Package n25qtest simulates an N25Q256A behind the n25q.Transport
// interface so drivers and applications can be tested against a
// deterministic in-memory device.
package n25qtest

import (
	"fmt"
	"sync"
	"time"

	"github.com/gentam/n25q"
)

// Flash is an in-memory N25Q256A. Use NewFlash; the zero value has no
// array.
//
// Command acceptance mirrors the real part: programs and erases demand a
// prior WRITE ENABLE, 32-bit addressed commands demand 4-byte address mode,
// and the dummy-cycle count of every read must match the volatile
// configuration register. A violation fails the command with a descriptive
// error so a misbehaving driver fails loudly instead of corrupting state.
//
// Flash is safe for concurrent use, though a real device is not: drivers
// are still expected to serialize their own traffic.
type Flash struct {
	// BusyPolls is how many status reads after each program or erase report
	// the operation still running before it shows complete. Zero makes
	// every operation complete by its first poll.
	BusyPolls int

	// NextFault is ORed into the flag status register when the next program
	// or erase is issued, then cleared. Error bits stay set until a CLEAR
	// FLAG STATUS REGISTER command, exactly like the sticky hardware bits.
	NextFault n25q.FlagStatus

	mu         sync.Mutex
	mem        []byte
	vcr        n25q.VolatileConfig
	fsr        n25q.FlagStatus // sticky and suspend bits; ready derived
	wel        bool
	addr4      bool
	resetArmed bool
	busy       int
	parked     int // busy polls restored by PROGRAM/ERASE RESUME
	lastErase  bool
	mapped     bool
	pending    n25q.Command
	havePend   bool
}

var _ n25q.Transport = (*Flash)(nil)

// NewFlash returns a blank device: every byte erased to 0xFF, 3-byte
// address mode, power-on volatile configuration.
func NewFlash() *Flash {
	f := &Flash{
		mem: make([]byte, n25q.FlashSize),
		vcr: 0xFB,
	}
	for i := range f.mem {
		f.mem[i] = 0xFF
	}
	return f
}

func (f *Flash) Command(cmd n25q.Command, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mapped {
		return fmt.Errorf("n25qtest: %s while memory-mapped", cmd)
	}
	if f.havePend {
		return fmt.Errorf("n25qtest: %s before the data phase of %s", cmd, f.pending)
	}
	armed := f.resetArmed
	f.resetArmed = false

	switch cmd.Instruction {
	case n25q.CmdResetEnable:
		f.resetArmed = true
	case n25q.CmdResetMemory:
		if !armed {
			return fmt.Errorf("n25qtest: %s without RESET ENABLE", cmd)
		}
		f.powerOn()
	case n25q.CmdWriteEnable:
		f.wel = true
	case n25q.CmdWriteDisable:
		f.wel = false
	case n25q.CmdEnter4ByteAddr:
		if !f.wel {
			return fmt.Errorf("n25qtest: %s without WRITE ENABLE", cmd)
		}
		f.addr4 = true
		f.fsr |= n25q.FSR4ByteAddr
		f.wel = false
	case n25q.CmdExit4ByteAddr:
		if !f.wel {
			return fmt.Errorf("n25qtest: %s without WRITE ENABLE", cmd)
		}
		f.addr4 = false
		f.fsr &^= n25q.FSR4ByteAddr
		f.wel = false
	case n25q.CmdReadStatus, n25q.CmdReadFlagStatus, n25q.CmdReadVolatileConfig, n25q.CmdReadID:
		return f.armData(cmd)
	case n25q.CmdWriteVolatileConfig:
		if !f.wel {
			return fmt.Errorf("n25qtest: %s without WRITE ENABLE", cmd)
		}
		return f.armData(cmd)
	case n25q.CmdFastRead, n25q.CmdQuadIOFastRead, n25q.CmdQuadOutFastRead, n25q.CmdDualOutFastRead, n25q.CmdDualIOFastRead:
		if err := f.checkSpan(cmd, cmd.DataLen); err != nil {
			return err
		}
		if cmd.DummyCycles != f.vcr.DummyCycles() {
			return fmt.Errorf("n25qtest: %s sends %d dummy cycles, device expects %d",
				cmd, cmd.DummyCycles, f.vcr.DummyCycles())
		}
		if f.busy > 0 {
			return fmt.Errorf("n25qtest: %s while busy", cmd)
		}
		return f.armData(cmd)
	case n25q.CmdPageProgram, n25q.CmdQuadInFastProgram, n25q.CmdExtQuadInFastProgram:
		if err := f.checkWrite(cmd); err != nil {
			return err
		}
		if err := f.checkSpan(cmd, cmd.DataLen); err != nil {
			return err
		}
		if p := int(cmd.Address % n25q.PageSize); p+cmd.DataLen > n25q.PageSize {
			return fmt.Errorf("n25qtest: %s crosses the page boundary (%d bytes at page offset %d)",
				cmd, cmd.DataLen, p)
		}
		return f.armData(cmd)
	case n25q.CmdSubsectorErase:
		return f.erase(cmd, n25q.SubsectorSize)
	case n25q.CmdSectorErase:
		return f.erase(cmd, n25q.SectorSize)
	case n25q.CmdBulkErase:
		if err := f.checkWrite(cmd); err != nil {
			return err
		}
		for i := range f.mem {
			f.mem[i] = 0xFF
		}
		f.complete(true)
	case n25q.CmdSuspend:
		if f.busy > 0 {
			f.parked = f.busy
			f.busy = 0
			if f.lastErase {
				f.fsr |= n25q.FSREraseSuspend
			} else {
				f.fsr |= n25q.FSRProgramSuspend
			}
		}
	case n25q.CmdResume:
		if f.fsr&(n25q.FSREraseSuspend|n25q.FSRProgramSuspend) != 0 {
			f.fsr &^= n25q.FSREraseSuspend | n25q.FSRProgramSuspend
			f.busy = f.parked
			f.parked = 0
		}
	case n25q.CmdClearFlagStatus:
		f.fsr &^= n25q.FSRProtectionError | n25q.FSRVPPError | n25q.FSRProgramError | n25q.FSREraseError
	default:
		return fmt.Errorf("n25qtest: unsupported instruction %s", cmd.Instruction)
	}
	return nil
}

func (f *Flash) Receive(p []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mapped {
		return fmt.Errorf("n25qtest: receive while memory-mapped")
	}
	if !f.havePend {
		return fmt.Errorf("n25qtest: receive without a pending command")
	}
	cmd := f.pending
	f.havePend = false
	if len(p) != cmd.DataLen {
		return fmt.Errorf("n25qtest: %s declared %d data bytes, driver received %d",
			cmd, cmd.DataLen, len(p))
	}

	switch cmd.Instruction {
	case n25q.CmdReadStatus:
		b := f.statusByte()
		for i := range p {
			p[i] = b
		}
	case n25q.CmdReadFlagStatus:
		b := f.flagsByte()
		for i := range p {
			p[i] = b
		}
	case n25q.CmdReadVolatileConfig:
		p[0] = byte(f.vcr)
	case n25q.CmdReadID:
		copy(p, []byte{0x20, 0xBA, 0x19})
	default:
		copy(p, f.mem[cmd.Address:int(cmd.Address)+len(p)])
	}
	return nil
}

func (f *Flash) Transmit(p []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mapped {
		return fmt.Errorf("n25qtest: transmit while memory-mapped")
	}
	if !f.havePend {
		return fmt.Errorf("n25qtest: transmit without a pending command")
	}
	cmd := f.pending
	f.havePend = false
	if len(p) != cmd.DataLen {
		return fmt.Errorf("n25qtest: %s declared %d data bytes, driver sent %d",
			cmd, cmd.DataLen, len(p))
	}

	switch cmd.Instruction {
	case n25q.CmdWriteVolatileConfig:
		f.vcr = n25q.VolatileConfig(p[0])
		f.wel = false
	default:
		// Programming pulls bits low; it never sets them back.
		for i, b := range p {
			f.mem[int(cmd.Address)+i] &= b
		}
		f.complete(false)
	}
	return nil
}

func (f *Flash) MemoryMapped(cmd n25q.Command, _ n25q.MemoryMapConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy > 0 {
		return fmt.Errorf("n25qtest: %s while busy", cmd)
	}
	if err := f.checkSpan(cmd, 0); err != nil {
		return err
	}
	if cmd.DummyCycles != f.vcr.DummyCycles() {
		return fmt.Errorf("n25qtest: %s sends %d dummy cycles, device expects %d",
			cmd, cmd.DummyCycles, f.vcr.DummyCycles())
	}
	f.mapped = true
	return nil
}

// Reset models a controller-side bus reset: it tears down the mapping and
// any half-finished transaction but leaves device state (address mode,
// volatile configuration, array contents) alone.
func (f *Flash) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mapped = false
	f.havePend = false
	f.resetArmed = false
	return nil
}

// IsMapped reports whether the device is serving a memory-mapped window.
func (f *Flash) IsMapped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mapped
}

// MappedRead copies len(p) bytes of the array at addr through the
// memory-mapped window. It fails when no mapping is active.
func (f *Flash) MappedRead(p []byte, addr uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.mapped {
		return fmt.Errorf("n25qtest: mapped read at %#x without a mapping", addr)
	}
	if int(addr)+len(p) > len(f.mem) {
		return fmt.Errorf("n25qtest: mapped read of %d bytes at %#x past the array", len(p), addr)
	}
	copy(p, f.mem[addr:int(addr)+len(p)])
	return nil
}

// Peek returns a copy of n array bytes at addr, bypassing the bus.
func (f *Flash) Peek(addr uint32, n int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, n)
	copy(out, f.mem[addr:int(addr)+n])
	return out
}

// Poke overwrites array bytes at addr, bypassing the bus and the
// program-only-clears-bits rule. Meant for seeding test content.
func (f *Flash) Poke(addr uint32, p []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.mem[addr:int(addr)+len(p)], p)
}

// powerOn is the RESET MEMORY behavior: back to 3-byte addressing and the
// default volatile configuration, pending operation and latches dropped.
// Array contents survive.
func (f *Flash) powerOn() {
	f.vcr = 0xFB
	f.fsr = 0
	f.wel = false
	f.addr4 = false
	f.busy = 0
	f.parked = 0
	f.lastErase = false
}

func (f *Flash) erase(cmd n25q.Command, size int) error {
	if err := f.checkWrite(cmd); err != nil {
		return err
	}
	if err := f.checkSpan(cmd, 1); err != nil {
		return err
	}
	start := int(cmd.Address) &^ (size - 1)
	for i := start; i < start+size; i++ {
		f.mem[i] = 0xFF
	}
	f.complete(true)
	return nil
}

// armData queues cmd for the Receive or Transmit call that carries its
// data phase.
func (f *Flash) armData(cmd n25q.Command) error {
	if cmd.DataLines == n25q.LinesNone || cmd.DataLen <= 0 {
		return fmt.Errorf("n25qtest: %s without a data phase", cmd)
	}
	f.pending = cmd
	f.havePend = true
	return nil
}

// complete latches the side effects shared by every program and erase.
func (f *Flash) complete(isErase bool) {
	f.wel = false
	f.lastErase = isErase
	f.busy = f.BusyPolls
	f.fsr |= f.NextFault
	f.NextFault = 0
}

// checkWrite gates the destructive commands.
func (f *Flash) checkWrite(cmd n25q.Command) error {
	if !f.wel {
		return fmt.Errorf("n25qtest: %s without WRITE ENABLE", cmd)
	}
	if f.busy > 0 {
		return fmt.Errorf("n25qtest: %s while busy", cmd)
	}
	const errorBits = n25q.FSRProtectionError | n25q.FSRVPPError | n25q.FSRProgramError | n25q.FSREraseError
	if f.fsr&errorBits != 0 {
		return fmt.Errorf("n25qtest: %s with error bits pending, clear the flag status register first", cmd)
	}
	return nil
}

// checkSpan validates the address phase of cmd against the device address
// mode and the array bounds of an n byte transfer.
func (f *Flash) checkSpan(cmd n25q.Command, n int) error {
	if cmd.AddressLines == n25q.LinesNone {
		return fmt.Errorf("n25qtest: %s without an address phase", cmd)
	}
	if cmd.AddressSize == n25q.Addr32Bit && !f.addr4 {
		return fmt.Errorf("n25qtest: %s with a 32-bit address in 3-byte address mode", cmd)
	}
	if cmd.AddressSize == n25q.Addr24Bit && f.addr4 {
		return fmt.Errorf("n25qtest: %s with a 24-bit address in 4-byte address mode", cmd)
	}
	if uint64(cmd.Address)+uint64(n) > uint64(len(f.mem)) {
		return fmt.Errorf("n25qtest: %s runs %d bytes past the %d MiB array", cmd, n, len(f.mem)>>20)
	}
	return nil
}

// statusByte renders the legacy status register; reading it while busy
// consumes one poll.
func (f *Flash) statusByte() byte {
	var sr n25q.StatusRegister
	if f.wel {
		sr |= n25q.SRWriteEnable
	}
	if f.busy > 0 {
		sr |= n25q.SRWriteInProgress
		f.busy--
	}
	return byte(sr)
}

// flagsByte renders the flag status register; the ready bit is the inverse
// of the busy countdown.
func (f *Flash) flagsByte() byte {
	out := f.fsr | n25q.FSRReady
	if f.busy > 0 {
		out &^= n25q.FSRReady
		f.busy--
	}
	return byte(out)
}
