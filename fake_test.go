package n25q

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeTransport scripts device responses and records every bus interaction.
type fakeTransport struct {
	status      []byte // successive READ STATUS REGISTER answers
	statusAfter byte   // answer once status is exhausted
	flags       []byte // successive READ FLAG STATUS REGISTER answers
	flagsAfter  byte
	vcr         byte
	id          [3]byte

	// Fail the failAt-th occurrence of failCmd with failErr.
	failCmd Instruction
	failAt  int
	failErr error

	resetErr error

	calls    []fakeCall
	rx       []int // Receive lengths in order
	resets   int
	mapped   []Command
	mapCfgs  []MemoryMapConfig
	pending  Command
	havePend bool
	seen     map[Instruction]int
}

// fakeCall is one attempted command; data holds the Transmit payload when
// the command had a write data phase.
type fakeCall struct {
	cmd     Command
	timeout time.Duration
	data    []byte
}

var _ Transport = (*fakeTransport)(nil)

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		statusAfter: byte(SRWriteEnable), // latch set, not busy
		flagsAfter:  byte(FSRReady | FSR4ByteAddr),
		vcr:         0xFB, // power-on default
		id:          [3]byte{0x20, 0xBA, 0x19},
		seen:        map[Instruction]int{},
	}
}

func (f *fakeTransport) Command(cmd Command, timeout time.Duration) error {
	f.calls = append(f.calls, fakeCall{cmd: cmd, timeout: timeout})
	f.seen[cmd.Instruction]++
	if f.failErr != nil && cmd.Instruction == f.failCmd && f.seen[cmd.Instruction] == max(f.failAt, 1) {
		return f.failErr
	}
	f.pending = cmd
	f.havePend = true
	return nil
}

func (f *fakeTransport) Receive(p []byte, timeout time.Duration) error {
	if !f.havePend {
		return errors.New("fake: receive without a pending command")
	}
	f.havePend = false
	f.rx = append(f.rx, len(p))
	switch f.pending.Instruction {
	case CmdReadStatus:
		for i := range p {
			p[i] = f.nextStatus()
		}
	case CmdReadFlagStatus:
		for i := range p {
			p[i] = f.nextFlags()
		}
	case CmdReadVolatileConfig:
		p[0] = f.vcr
	case CmdReadID:
		copy(p, f.id[:])
	default:
		// Array reads: deterministic fill derived from the address.
		for i := range p {
			p[i] = byte(f.pending.Address) + byte(i)
		}
	}
	return nil
}

func (f *fakeTransport) Transmit(p []byte, timeout time.Duration) error {
	if !f.havePend {
		return errors.New("fake: transmit without a pending command")
	}
	f.havePend = false
	f.calls[len(f.calls)-1].data = append([]byte(nil), p...)
	return nil
}

func (f *fakeTransport) MemoryMapped(cmd Command, cfg MemoryMapConfig) error {
	f.mapped = append(f.mapped, cmd)
	f.mapCfgs = append(f.mapCfgs, cfg)
	return nil
}

func (f *fakeTransport) Reset() error {
	f.resets++
	return f.resetErr
}

func (f *fakeTransport) nextStatus() byte {
	if len(f.status) > 0 {
		b := f.status[0]
		f.status = f.status[1:]
		return b
	}
	return f.statusAfter
}

func (f *fakeTransport) nextFlags() byte {
	if len(f.flags) > 0 {
		b := f.flags[0]
		f.flags = f.flags[1:]
		return b
	}
	return f.flagsAfter
}

// instructions lists the opcode of every attempted command, in order.
func (f *fakeTransport) instructions() []Instruction {
	out := make([]Instruction, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.cmd.Instruction
	}
	return out
}

// programs returns the attempted program commands with their payloads.
func (f *fakeTransport) programs() []fakeCall {
	var out []fakeCall
	for _, c := range f.calls {
		if c.cmd.Instruction == CmdExtQuadInFastProgram || c.cmd.Instruction == CmdPageProgram {
			out = append(out, c)
		}
	}
	return out
}

// newTestDev opens a Dev over a fresh fake and discards the init traffic.
func newTestDev(t *testing.T, opts *Opts) (*Dev, *fakeTransport) {
	t.Helper()
	f := newFakeTransport()
	d, err := New(f, opts)
	require.NoError(t, err)
	f.calls = nil
	f.rx = nil
	f.resets = 0
	f.seen = map[Instruction]int{}
	return d, f
}
