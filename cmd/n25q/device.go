package main

import (
	"errors"
	"fmt"

	"github.com/gentam/n25q"
	"github.com/gentam/n25q/extspi"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

type Device struct {
	ft   *ftdi.FT232H
	port spi.PortCloser
	Dev  *n25q.Dev
}

// NewDevice finds an FT232H, opens its MPSSE/SPI engine, and brings the
// flash behind it up through extspi.
func NewDevice() (*Device, error) {
	ft, err := findFT232H()
	if err != nil {
		return nil, err
	}

	port, err := ft.SPI()
	if err != nil {
		return nil, fmt.Errorf("failed to get SPI port: %w", err)
	}

	// [FTDI AN_114|1.2]> FTDI device can only support mode 0 and mode 2 due to the limitation of MPSSE engine
	// [N25Q256A|SPI modes] mode 0 and mode 3 are supported
	clk := physic.Frequency(*clockMHz) * physic.MegaHertz
	conn, err := port.Connect(clk, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, err
	}

	cs, err := chipSelect(ft)
	if err != nil {
		port.Close()
		return nil, err
	}

	dev, err := n25q.New(extspi.New(conn, cs), &n25q.Opts{SingleLane: true})
	if err != nil {
		port.Close()
		return nil, err
	}

	return &Device{ft: ft, port: port, Dev: dev}, nil
}

func (d *Device) Close() {
	d.Dev.Close()
	d.port.Close()
}

func findFT232H() (*ftdi.FT232H, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host initialization failed: %w", err)
	}

	const (
		vendorID  = 0x0403 // FTDI
		productID = 0x6014 // FT232H
	)

	info := ftdi.Info{}
	for _, dev := range ftdi.All() {
		dev.Info(&info)
		if info.VenID != vendorID || info.DevID != productID {
			continue
		}
		if ft, ok := dev.(*ftdi.FT232H); ok {
			return ft, nil
		}
	}

	return nil, errors.New("no FT232H found")
}

// chipSelect resolves the -cs flag. The empty default leaves chip select
// with the MPSSE engine on ADBUS3; naming a pin drives it as plain GPIO,
// for boards where the flash hangs off an auxiliary line.
func chipSelect(ft *ftdi.FT232H) (gpio.PinIO, error) {
	switch *csPin {
	case "":
		return nil, nil
	case "D4":
		return ft.D4, nil
	case "D5":
		return ft.D5, nil
	case "D6":
		return ft.D6, nil
	case "D7":
		return ft.D7, nil
	case "C0":
		return ft.C0, nil
	case "C1":
		return ft.C1, nil
	case "C2":
		return ft.C2, nil
	case "C3":
		return ft.C3, nil
	case "C4":
		return ft.C4, nil
	case "C5":
		return ft.C5, nil
	case "C6":
		return ft.C6, nil
	case "C7":
		return ft.C7, nil
	}
	return nil, fmt.Errorf("unknown chip-select pin %q", *csPin)
}
