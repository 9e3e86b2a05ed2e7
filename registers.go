package n25q

import (
	"fmt"
	"strings"
)

// StatusRegister is the legacy status register, [N25Q256A|Table 9: Status Register].
//
//	Bits|
//	----+------------------------------------------
//	7   | Status register write enable/disable
//	6   | Block protect 3
//	5   | Top/bottom
//	4:2 | Block protect 2-0
//	1   | Write enable latch
//	0   | Write in progress
type StatusRegister byte

const (
	SRWriteInProgress StatusRegister = 1 << 0
	SRWriteEnable     StatusRegister = 1 << 1
	SRBlockProtect0   StatusRegister = 1 << 2
	SRBlockProtect1   StatusRegister = 1 << 3
	SRBlockProtect2   StatusRegister = 1 << 4
	SRTopBottom       StatusRegister = 1 << 5
	SRBlockProtect3   StatusRegister = 1 << 6
	SRWriteDisable    StatusRegister = 1 << 7
)

func (sr StatusRegister) WriteInProgress() bool { return sr&SRWriteInProgress != 0 }
func (sr StatusRegister) WriteEnabled() bool    { return sr&SRWriteEnable != 0 }
func (sr StatusRegister) TopBottom() bool       { return sr&SRTopBottom != 0 }
func (sr StatusRegister) WriteDisabled() bool   { return sr&SRWriteDisable != 0 }

// BlockProtect assembles BP3..BP0 into a 4-bit protected-area selector.
func (sr StatusRegister) BlockProtect() uint8 {
	bp := uint8(sr>>2) & 0x07
	if sr&SRBlockProtect3 != 0 {
		bp |= 0x08
	}
	return bp
}

func (sr StatusRegister) String() string {
	b := fmt.Sprintf("%08b", byte(sr))
	s := []string{}
	if sr.WriteDisabled() {
		s = append(s, "SRWD")
	}
	if bp := sr.BlockProtect(); bp != 0 {
		s = append(s, fmt.Sprintf("BP=%d", bp))
	}
	if sr.TopBottom() {
		s = append(s, "TB")
	}
	if sr.WriteEnabled() {
		s = append(s, "WEL")
	}
	if sr.WriteInProgress() {
		s = append(s, "WIP")
	}
	if len(s) == 0 {
		return b
	}
	return b + " " + strings.Join(s, ",")
}

// FlagStatus is the flag status register, [N25Q256A|Table 11: Flag Status Register].
//
//	Bits|
//	----+------------------------------------------
//	7   | Program or erase controller ready
//	6   | Erase suspended
//	5   | Erase error
//	4   | Program error
//	3   | VPP error
//	2   | Program suspended
//	1   | Protection error
//	0   | 4-byte addressing enabled
type FlagStatus byte

const (
	FSR4ByteAddr       FlagStatus = 1 << 0
	FSRProtectionError FlagStatus = 1 << 1
	FSRProgramSuspend  FlagStatus = 1 << 2
	FSRVPPError        FlagStatus = 1 << 3
	FSRProgramError    FlagStatus = 1 << 4
	FSREraseError      FlagStatus = 1 << 5
	FSREraseSuspend    FlagStatus = 1 << 6
	FSRReady           FlagStatus = 1 << 7
)

const (
	fsrErrorBits   = FSRProtectionError | FSRVPPError | FSRProgramError | FSREraseError
	fsrSuspendBits = FSRProgramSuspend | FSREraseSuspend
)

func (f FlagStatus) Ready() bool            { return f&FSRReady != 0 }
func (f FlagStatus) EraseSuspended() bool   { return f&FSREraseSuspend != 0 }
func (f FlagStatus) EraseError() bool       { return f&FSREraseError != 0 }
func (f FlagStatus) ProgramError() bool     { return f&FSRProgramError != 0 }
func (f FlagStatus) VPPError() bool         { return f&FSRVPPError != 0 }
func (f FlagStatus) ProgramSuspended() bool { return f&FSRProgramSuspend != 0 }
func (f FlagStatus) ProtectionError() bool  { return f&FSRProtectionError != 0 }
func (f FlagStatus) FourByteAddr() bool     { return f&FSR4ByteAddr != 0 }

// Status decodes the register in strict priority order: error bits dominate
// suspension, suspension dominates ready, busy is the fallback.
func (f FlagStatus) Status() Status {
	switch {
	case f&fsrErrorBits != 0:
		return StatusError
	case f&fsrSuspendBits != 0:
		return StatusSuspended
	case f&FSRReady != 0:
		return StatusReady
	default:
		return StatusBusy
	}
}

func (f FlagStatus) String() string {
	b := fmt.Sprintf("%08b", byte(f))
	s := []string{}
	if f.Ready() {
		s = append(s, "READY")
	}
	if f.EraseSuspended() {
		s = append(s, "ERSUS")
	}
	if f.EraseError() {
		s = append(s, "ERERR")
	}
	if f.ProgramError() {
		s = append(s, "PGERR")
	}
	if f.VPPError() {
		s = append(s, "VPPERR")
	}
	if f.ProgramSuspended() {
		s = append(s, "PGSUS")
	}
	if f.ProtectionError() {
		s = append(s, "PRERR")
	}
	if f.FourByteAddr() {
		s = append(s, "4BYTE")
	}
	if len(s) == 0 {
		return b
	}
	return b + " " + strings.Join(s, ",")
}

// VolatileConfig is the volatile configuration register,
// [N25Q256A|Table 13: Volatile Configuration Register].
//
//	Bits|
//	----+------------------------------------------
//	7:4 | Number of dummy clock cycles
//	3   | XIP disable
//	2   | Reserved
//	1:0 | Output wrap
type VolatileConfig byte

const (
	VCRWrap        VolatileConfig = 0x03
	VCRXIP         VolatileConfig = 0x08
	VCRDummyCycles VolatileConfig = 0xF0
)

func (v VolatileConfig) Wrap() uint8        { return uint8(v & VCRWrap) }
func (v VolatileConfig) XIPDisabled() bool  { return v&VCRXIP != 0 }
func (v VolatileConfig) DummyCycles() uint8 { return uint8(v) >> 4 }

// WithDummyCycles returns a copy with the dummy-cycle field set to n and
// every other bit preserved.
func (v VolatileConfig) WithDummyCycles(n uint8) VolatileConfig {
	return v&^VCRDummyCycles | VolatileConfig(n&0x0F)<<4
}

func (v VolatileConfig) String() string {
	return fmt.Sprintf("%08b dummy=%d,xip=%t,wrap=%d", byte(v), v.DummyCycles(), !v.XIPDisabled(), v.Wrap())
}

// Status is the device state decoded from the flag status register. It is
// recomputed on every query, never cached.
type Status uint8

const (
	StatusBusy Status = iota
	StatusReady
	StatusSuspended
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusBusy:
		return "busy"
	case StatusReady:
		return "ready"
	case StatusSuspended:
		return "suspended"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}
