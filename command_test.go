package n25q

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  Command
		want Command
	}{
		{"quad read", cmdQuadRead(0xBEEF00, 64), Command{
			Instruction:  CmdQuadIOFastRead,
			AddressLines: Lines4,
			AddressSize:  Addr32Bit,
			Address:      0xBEEF00,
			DataLines:    Lines4,
			DummyCycles:  10,
			DataLen:      64,
		}},
		{"fast read", cmdFastRead(0x10, 4), Command{
			Instruction:  CmdFastRead,
			AddressLines: Lines1,
			AddressSize:  Addr32Bit,
			Address:      0x10,
			DataLines:    Lines1,
			DummyCycles:  8,
			DataLen:      4,
		}},
		{"quad program", cmdQuadProgram(0x200, 256), Command{
			Instruction:  CmdExtQuadInFastProgram,
			AddressLines: Lines4,
			AddressSize:  Addr32Bit,
			Address:      0x200,
			DataLines:    Lines4,
			DataLen:      256,
		}},
		{"page program", cmdPageProgram(0x200, 16), Command{
			Instruction:  CmdPageProgram,
			AddressLines: Lines1,
			AddressSize:  Addr32Bit,
			Address:      0x200,
			DataLines:    Lines1,
			DataLen:      16,
		}},
		{"subsector erase", cmdSubsectorErase(0x1000), Command{
			Instruction:  CmdSubsectorErase,
			AddressLines: Lines1,
			AddressSize:  Addr32Bit,
			Address:      0x1000,
		}},
		{"sector erase", cmdSectorErase(0x30000), Command{
			Instruction:  CmdSectorErase,
			AddressLines: Lines1,
			AddressSize:  Addr32Bit,
			Address:      0x30000,
		}},
		{"bulk erase", cmdBulkErase(), Command{Instruction: CmdBulkErase}},
		{"write enable", cmdWriteEnable(), Command{Instruction: CmdWriteEnable}},
		{"read status", cmdReadStatus(1), Command{
			Instruction: CmdReadStatus,
			DataLines:   Lines1,
			DataLen:     1,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "QUAD I/O FAST READ", CmdQuadIOFastRead.String())
	assert.Equal(t, "BULK ERASE", CmdBulkErase.String())
	assert.Equal(t, "0xAA", Instruction(0xAA).String())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "WRITE ENABLE", cmdWriteEnable().String())
	assert.Equal(t, "SUBSECTOR ERASE @0x1000", cmdSubsectorErase(0x1000).String())
	assert.Equal(t, "QUAD I/O FAST READ @0xBEEF00", cmdQuadRead(0xBEEF00, 8).String())
}
