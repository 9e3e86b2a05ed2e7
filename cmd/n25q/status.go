package main

import (
	"flag"
	"fmt"
)

func statusCommand(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	fs.Parse(args)

	d, err := NewDevice()
	if err != nil {
		fatalf("%v", err)
	}
	defer d.Close()

	sr, err := d.Dev.ReadStatusRegister()
	if err != nil {
		fatalf("read status register failed: %v", err)
	}
	fr, err := d.Dev.ReadFlagStatus()
	if err != nil {
		fatalf("read flag status register failed: %v", err)
	}

	fmt.Printf("status register:      %s\n", sr)
	fmt.Printf("flag status register: %s\n", fr)
	fmt.Printf("state:                %s\n", fr.Status())
}
