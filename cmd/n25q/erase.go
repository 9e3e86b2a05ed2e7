package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gentam/n25q"
)

func eraseCommand(args []string) {
	fs := flag.NewFlagSet("erase", flag.ExitOnError)
	var (
		addr   uint
		sector bool
		chip   bool
		yes    bool
	)
	fs.UintVar(&addr, "addr", 0, "address inside the unit to erase")
	fs.BoolVar(&sector, "sector", false, "erase the 64 KiB sector instead of the 4 KiB subsector")
	fs.BoolVar(&chip, "chip", false, "erase the entire array")
	fs.BoolVar(&yes, "y", false, "skip the whole-array confirmation")
	fs.Parse(args)

	if chip && !yes {
		fmt.Fprintf(os.Stderr, "erase the entire %d MiB array? [y/N] ", n25q.FlashSize>>20)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fatalf("aborted")
		}
	}

	d, err := NewDevice()
	if err != nil {
		fatalf("%v", err)
	}
	defer d.Close()

	switch {
	case chip:
		err = d.Dev.EraseChip()
	case sector:
		err = d.Dev.EraseSector(uint32(addr))
	default:
		err = d.Dev.EraseBlock(uint32(addr))
	}
	if err != nil {
		fatalf("erase failed: %v", err)
	}
}
