package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gentam/n25q"
)

func writeCommand(args []string) {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	var (
		filename string
		addr     uint
		erase    bool
	)
	fs.StringVar(&filename, "f", "", "input file")
	fs.UintVar(&addr, "addr", 0, "start address")
	fs.BoolVar(&erase, "e", false, "erase the covered subsectors first")
	fs.Parse(args)

	if filename == "" {
		fatalUsage("input file is required")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		fatalf("failed to read file: %v", err)
	}
	if len(data) == 0 {
		fatalf("%s is empty", filename)
	}
	if addr+uint(len(data)) > n25q.FlashSize {
		fatalUsage("write range exceeds the %d MiB array", n25q.FlashSize>>20)
	}

	d, err := NewDevice()
	if err != nil {
		fatalf("%v", err)
	}
	defer d.Close()

	if erase {
		first := uint32(addr) &^ (n25q.SubsectorSize - 1)
		last := uint32(addr+uint(len(data))-1) &^ (n25q.SubsectorSize - 1)
		for a := first; ; a += n25q.SubsectorSize {
			if err := d.Dev.EraseBlock(a); err != nil {
				fatalf("erase at %#x failed: %v", a, err)
			}
			if a == last {
				break
			}
		}
	}

	if err := d.Dev.Write(data, uint32(addr)); err != nil {
		fatalf("write flash failed: %v", err)
	}
	fmt.Printf("wrote %d bytes at %#x\n", len(data), addr)
}
