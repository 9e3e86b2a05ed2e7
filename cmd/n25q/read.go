package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/gentam/n25q"
)

func readCommand(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	var (
		addr    uint
		nread   int
		outFile string
	)
	fs.UintVar(&addr, "addr", 0, "start address")
	fs.IntVar(&nread, "n", 256, "number of bytes to read")
	fs.StringVar(&outFile, "o", "", "output file (default: hexdump)")
	fs.Parse(args)

	if nread <= 0 {
		fatalUsage("-n must be positive")
	}
	if addr+uint(nread) > n25q.FlashSize {
		fatalUsage("read range exceeds the %d MiB array", n25q.FlashSize>>20)
	}

	d, err := NewDevice()
	if err != nil {
		fatalf("%v", err)
	}
	defer d.Close()

	data := make([]byte, nread)
	if err := d.Dev.Read(data, uint32(addr)); err != nil {
		fatalf("read flash failed: %v", err)
	}
	if outFile == "" {
		fmt.Println(hex.Dump(data))
		return
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		fatalf("write file failed: %v", err)
	}
}
