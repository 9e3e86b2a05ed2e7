package n25q

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRegisterBits(t *testing.T) {
	sr := StatusRegister(0x03)
	assert.True(t, sr.WriteInProgress())
	assert.True(t, sr.WriteEnabled())
	assert.False(t, sr.TopBottom())
	assert.False(t, sr.WriteDisabled())

	assert.True(t, StatusRegister(SRWriteDisable).WriteDisabled())
	assert.True(t, StatusRegister(SRTopBottom).TopBottom())
}

func TestStatusRegisterBlockProtect(t *testing.T) {
	assert.Equal(t, uint8(0), StatusRegister(0).BlockProtect())
	assert.Equal(t, uint8(0x07), (SRBlockProtect0 | SRBlockProtect1 | SRBlockProtect2).BlockProtect())
	assert.Equal(t, uint8(0x08), SRBlockProtect3.BlockProtect())
	assert.Equal(t, uint8(0x0F), StatusRegister(0x5C).BlockProtect())
}

func TestStatusRegisterString(t *testing.T) {
	assert.Equal(t, "00000000", StatusRegister(0).String())
	assert.Equal(t, "00000011 WEL,WIP", StatusRegister(0x03).String())
	assert.Equal(t, "10100100 SRWD,BP=1,TB", StatusRegister(0xA4).String())
}

func TestFlagStatusDecode(t *testing.T) {
	// Register 0x81: controller ready, 4-byte addressing active.
	f := FlagStatus(0x81)
	assert.True(t, f.Ready())
	assert.True(t, f.FourByteAddr())
	assert.Equal(t, StatusReady, f.Status())

	// Errors dominate everything, including a simultaneously set ready bit.
	f = FSRReady | FSREraseSuspend | FSREraseError
	assert.Equal(t, StatusError, f.Status())
	f = FSRProtectionError
	assert.Equal(t, StatusError, f.Status())

	// Suspension beats ready.
	f = FSRReady | FSRProgramSuspend
	assert.Equal(t, StatusSuspended, f.Status())

	// Everything clear: the controller is still working.
	assert.Equal(t, StatusBusy, FlagStatus(0).Status())
	assert.Equal(t, StatusBusy, FlagStatus(FSR4ByteAddr).Status())
}

func TestFlagStatusString(t *testing.T) {
	assert.Equal(t, "00000000", FlagStatus(0).String())
	assert.Equal(t, "10000001 READY,4BYTE", FlagStatus(0x81).String())
	assert.Equal(t, "10110000 READY,ERERR,PGERR", FlagStatus(0xB0).String())
}

func TestVolatileConfig(t *testing.T) {
	// Power-on default: all dummy bits set, XIP disabled, sequential wrap.
	v := VolatileConfig(0xFB)
	assert.Equal(t, uint8(0x0F), v.DummyCycles())
	assert.True(t, v.XIPDisabled())
	assert.Equal(t, uint8(0x03), v.Wrap())

	got := v.WithDummyCycles(10)
	assert.Equal(t, VolatileConfig(0xAB), got)
	assert.Equal(t, uint8(10), got.DummyCycles())
	assert.Equal(t, v.Wrap(), got.Wrap(), "wrap bits must survive")
	assert.Equal(t, v.XIPDisabled(), got.XIPDisabled(), "xip bit must survive")

	assert.Equal(t, VolatileConfig(0x8B), v.WithDummyCycles(8))
	assert.Equal(t, VolatileConfig(0x0B), v.WithDummyCycles(0))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "busy", StatusBusy.String())
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "suspended", StatusSuspended.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
