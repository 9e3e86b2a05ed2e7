package main

import (
	"flag"
	"fmt"

	"periph.io/x/host/v3/ftdi"
)

func infoCommand(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	d, err := NewDevice()
	if err != nil {
		fatalf("%v", err)
	}
	defer d.Close()

	// Reference: https://github.com/periph/cmd/tree/main/ftdi-list
	i := ftdi.Info{}
	d.ft.Info(&i)
	fmt.Printf("Type:        %s\n", i.Type)
	fmt.Printf("Vendor ID:   %#04x\n", i.VenID)
	fmt.Printf("Device ID:   %#04x\n", i.DevID)

	info := d.Dev.Info()
	fmt.Printf("Flash size:  %d MiB\n", info.FlashSize>>20)
	fmt.Printf("Erase unit:  %d KiB (%d subsectors)\n", info.EraseSectorSize>>10, info.EraseSectorsNumber)
	fmt.Printf("Page size:   %d B (%d pages)\n", info.ProgPageSize, info.ProgPagesNumber)
}
