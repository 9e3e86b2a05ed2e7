package n25q

import "fmt"

// Instruction is a command opcode from the device command set.
type Instruction byte

// Command set, [N25Q256A|Table 19: Command Set].
// Instructions are always clocked on a single line; address and data phases
// run on the line count the chosen variant dictates.
const (
	// Reset operations
	CmdResetEnable Instruction = 0x66
	CmdResetMemory Instruction = 0x99

	// Identification operations
	CmdReadID      Instruction = 0x9E
	CmdReadIDJEDEC Instruction = 0x9F

	// Read operations
	CmdRead            Instruction = 0x03
	CmdFastRead        Instruction = 0x0B
	CmdDualOutFastRead Instruction = 0x3B
	CmdDualIOFastRead  Instruction = 0xBB
	CmdQuadOutFastRead Instruction = 0x6B
	CmdQuadIOFastRead  Instruction = 0xEB

	// Write latch operations
	CmdWriteEnable  Instruction = 0x06
	CmdWriteDisable Instruction = 0x04

	// Register operations
	CmdReadStatus          Instruction = 0x05
	CmdWriteStatus         Instruction = 0x01
	CmdReadFlagStatus      Instruction = 0x70
	CmdClearFlagStatus     Instruction = 0x50
	CmdReadVolatileConfig  Instruction = 0x85
	CmdWriteVolatileConfig Instruction = 0x81

	// Program operations
	CmdPageProgram          Instruction = 0x02
	CmdQuadInFastProgram    Instruction = 0x32
	CmdExtQuadInFastProgram Instruction = 0x12

	// Erase operations
	CmdSubsectorErase Instruction = 0x20
	CmdSectorErase    Instruction = 0xD8
	CmdBulkErase      Instruction = 0xC7
	CmdSuspend        Instruction = 0x75
	CmdResume         Instruction = 0x7A

	// Address mode operations
	CmdEnter4ByteAddr Instruction = 0xB7
	CmdExit4ByteAddr  Instruction = 0xE9
)

var instructionNames = map[Instruction]string{
	CmdResetEnable:          "RESET ENABLE",
	CmdResetMemory:          "RESET MEMORY",
	CmdReadID:               "READ ID",
	CmdReadIDJEDEC:          "READ ID (JEDEC)",
	CmdRead:                 "READ",
	CmdFastRead:             "FAST READ",
	CmdDualOutFastRead:      "DUAL OUTPUT FAST READ",
	CmdDualIOFastRead:       "DUAL I/O FAST READ",
	CmdQuadOutFastRead:      "QUAD OUTPUT FAST READ",
	CmdQuadIOFastRead:       "QUAD I/O FAST READ",
	CmdWriteEnable:          "WRITE ENABLE",
	CmdWriteDisable:         "WRITE DISABLE",
	CmdReadStatus:           "READ STATUS REGISTER",
	CmdWriteStatus:          "WRITE STATUS REGISTER",
	CmdReadFlagStatus:       "READ FLAG STATUS REGISTER",
	CmdClearFlagStatus:      "CLEAR FLAG STATUS REGISTER",
	CmdReadVolatileConfig:   "READ VOLATILE CONFIGURATION REGISTER",
	CmdWriteVolatileConfig:  "WRITE VOLATILE CONFIGURATION REGISTER",
	CmdPageProgram:          "PAGE PROGRAM",
	CmdQuadInFastProgram:    "QUAD INPUT FAST PROGRAM",
	CmdExtQuadInFastProgram: "EXTENDED QUAD INPUT FAST PROGRAM",
	CmdSubsectorErase:       "SUBSECTOR ERASE",
	CmdSectorErase:          "SECTOR ERASE",
	CmdBulkErase:            "BULK ERASE",
	CmdSuspend:              "PROGRAM/ERASE SUSPEND",
	CmdResume:               "PROGRAM/ERASE RESUME",
	CmdEnter4ByteAddr:       "ENTER 4-BYTE ADDRESS MODE",
	CmdExit4ByteAddr:        "EXIT 4-BYTE ADDRESS MODE",
}

func (i Instruction) String() string {
	if name, ok := instructionNames[i]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", byte(i))
}

// Lines is the number of bus lines a transaction phase is clocked on.
// Zero means the phase is absent.
type Lines uint8

const (
	LinesNone Lines = 0
	Lines1    Lines = 1
	Lines2    Lines = 2
	Lines4    Lines = 4
)

// AddrSize is the width of the address phase. The value is the number of
// address bytes shifted on the wire.
type AddrSize uint8

const (
	Addr24Bit AddrSize = 3
	Addr32Bit AddrSize = 4
)

// Command describes one bus transaction: instruction phase, optional address
// phase, optional dummy cycles, optional data phase. A Command carries no
// payload; the data phase bytes travel through Transport.Receive or
// Transport.Transmit right after the Command is issued.
type Command struct {
	Instruction  Instruction
	AddressLines Lines // LinesNone: no address phase, Address is ignored
	AddressSize  AddrSize
	Address      uint32
	DataLines    Lines // LinesNone: no data phase, DataLen is ignored
	DummyCycles  uint8
	DataLen      int
}

func (c Command) String() string {
	if c.AddressLines == LinesNone {
		return c.Instruction.String()
	}
	return fmt.Sprintf("%s @0x%X", c.Instruction, c.Address)
}

// Command builders. One constructor per transaction shape; address and
// length are caller-validated against the device geometry, not re-checked
// here.

func cmdResetEnable() Command {
	return Command{Instruction: CmdResetEnable}
}

func cmdResetMemory() Command {
	return Command{Instruction: CmdResetMemory}
}

func cmdWriteEnable() Command {
	return Command{Instruction: CmdWriteEnable}
}

func cmdEnter4ByteAddr() Command {
	return Command{Instruction: CmdEnter4ByteAddr}
}

func cmdReadStatus(n int) Command {
	return Command{Instruction: CmdReadStatus, DataLines: Lines1, DataLen: n}
}

func cmdReadFlagStatus(n int) Command {
	return Command{Instruction: CmdReadFlagStatus, DataLines: Lines1, DataLen: n}
}

func cmdClearFlagStatus() Command {
	return Command{Instruction: CmdClearFlagStatus}
}

func cmdReadID(n int) Command {
	return Command{Instruction: CmdReadID, DataLines: Lines1, DataLen: n}
}

func cmdReadVolatileConfig() Command {
	return Command{Instruction: CmdReadVolatileConfig, DataLines: Lines1, DataLen: 1}
}

func cmdWriteVolatileConfig() Command {
	return Command{Instruction: CmdWriteVolatileConfig, DataLines: Lines1, DataLen: 1}
}

// cmdQuadRead: [N25Q256A|QUAD INPUT/OUTPUT FAST READ] address and data on
// four lines, dummyCyclesQuadRead wait cycles between them.
func cmdQuadRead(addr uint32, n int) Command {
	return Command{
		Instruction:  CmdQuadIOFastRead,
		AddressLines: Lines4,
		AddressSize:  Addr32Bit,
		Address:      addr,
		DataLines:    Lines4,
		DummyCycles:  dummyCyclesQuadRead,
		DataLen:      n,
	}
}

// cmdFastRead: single-line variant, dummyCyclesFastRead wait cycles.
func cmdFastRead(addr uint32, n int) Command {
	return Command{
		Instruction:  CmdFastRead,
		AddressLines: Lines1,
		AddressSize:  Addr32Bit,
		Address:      addr,
		DataLines:    Lines1,
		DummyCycles:  dummyCyclesFastRead,
		DataLen:      n,
	}
}

func cmdQuadProgram(addr uint32, n int) Command {
	return Command{
		Instruction:  CmdExtQuadInFastProgram,
		AddressLines: Lines4,
		AddressSize:  Addr32Bit,
		Address:      addr,
		DataLines:    Lines4,
		DataLen:      n,
	}
}

func cmdPageProgram(addr uint32, n int) Command {
	return Command{
		Instruction:  CmdPageProgram,
		AddressLines: Lines1,
		AddressSize:  Addr32Bit,
		Address:      addr,
		DataLines:    Lines1,
		DataLen:      n,
	}
}

// Erase commands address on a single line regardless of the read/program
// variant in use.
func cmdSubsectorErase(addr uint32) Command {
	return Command{
		Instruction:  CmdSubsectorErase,
		AddressLines: Lines1,
		AddressSize:  Addr32Bit,
		Address:      addr,
	}
}

func cmdSectorErase(addr uint32) Command {
	return Command{
		Instruction:  CmdSectorErase,
		AddressLines: Lines1,
		AddressSize:  Addr32Bit,
		Address:      addr,
	}
}

func cmdBulkErase() Command {
	return Command{Instruction: CmdBulkErase}
}

func cmdSuspend() Command {
	return Command{Instruction: CmdSuspend}
}

func cmdResume() Command {
	return Command{Instruction: CmdResume}
}
