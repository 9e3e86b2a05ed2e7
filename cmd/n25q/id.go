package main

import (
	"flag"
	"fmt"
)

var knownIDs = map[[3]byte]string{
	{0x20, 0xBA, 0x19}: "Micron N25Q256A (3V)",
	{0x20, 0xBB, 0x19}: "Micron N25Q256A (1.8V)",
}

func idCommand(args []string) {
	fs := flag.NewFlagSet("id", flag.ExitOnError)
	fs.Parse(args)

	d, err := NewDevice()
	if err != nil {
		fatalf("%v", err)
	}
	defer d.Close()

	id, err := d.Dev.ReadID()
	if err != nil {
		fatalf("read flash ID failed: %v", err)
	}
	fmt.Printf("%X\t%s\n", id, knownIDs[id])
}
