package n25q

import "time"

// Device geometry, [N25Q256A|Memory Map].
const (
	FlashSize     = 1 << 25 // 32 MiB
	SectorSize    = 1 << 16 // 64 KiB
	SubsectorSize = 1 << 12 // 4 KiB
	PageSize      = 1 << 8  // 256 B
)

// Dummy clock cycles between the address and data phases,
// [N25Q256A|Table 4: Command Protocols vs. Dummy Cycles].
const (
	dummyCyclesFastRead = 8
	dummyCyclesQuadRead = 10
)

// Operation ceilings, [N25Q256A|Table 41: AC Characteristics]. Program and
// register writes finish well inside the default window; erase cycles get
// their own classes.
const (
	defaultTimeout        = 5 * time.Second
	subsectorEraseTimeout = 800 * time.Millisecond // tSSE
	sectorEraseTimeout    = 3 * time.Second        // tSE
	bulkEraseTimeout      = 480 * time.Second      // tBE
	defaultPollInterval   = 100 * time.Microsecond
)

// Info reports the fixed layout of the attached device.
type Info struct {
	FlashSize          int // total size in bytes
	EraseSectorSize    int // unit erased by EraseBlock
	EraseSectorsNumber int
	ProgPageSize       int // program page buffer size
	ProgPagesNumber    int
}

// Info returns the device geometry. The values are compile-time facts of the
// N25Q256A; the call cannot fail and is valid on a closed device.
func (d *Dev) Info() Info {
	return Info{
		FlashSize:          FlashSize,
		EraseSectorSize:    SubsectorSize,
		EraseSectorsNumber: FlashSize / SubsectorSize,
		ProgPageSize:       PageSize,
		ProgPagesNumber:    FlashSize / PageSize,
	}
}
