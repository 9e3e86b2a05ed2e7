package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	clockMHz = flag.Int("mhz", 30, "SPI clock in MHz")
	csPin    = flag.String("cs", "", "GPIO pin driving chip select (default: the port's own)")
)

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func fatalUsage(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
	n25q [flags] <command> [arguments]

Commands:
	id	 print the JEDEC id
	info	 print flash geometry and FTDI details
	status	 print the status and flag status registers
	read	 read flash memory
	write	 program flash memory
	erase	 erase a subsector, sector, or the whole array

Flags:
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
	}

	switch cmd := flag.Arg(0); cmd {
	case "id":
		idCommand(flag.Args()[1:])
	case "info":
		infoCommand(flag.Args()[1:])
	case "status":
		statusCommand(flag.Args()[1:])
	case "read":
		readCommand(flag.Args()[1:])
	case "write":
		writeCommand(flag.Args()[1:])
	case "erase":
		eraseCommand(flag.Args()[1:])
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %q\n", cmd)
		usage()
	}
}
