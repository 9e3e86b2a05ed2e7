package n25q_test

import (
	"fmt"
	"log"

	"github.com/gentam/n25q"
	"github.com/gentam/n25q/n25qtest"
)

func Example() {
	// The simulator stands in for a real bus; hardware goes through
	// extspi or a QSPI controller transport.
	flash := n25qtest.NewFlash()
	dev, err := n25q.New(flash, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Close()

	if err := dev.EraseBlock(0); err != nil {
		log.Fatal(err)
	}
	if err := dev.Write([]byte("hello, flash"), 0); err != nil {
		log.Fatal(err)
	}

	buf := make([]byte, 12)
	if err := dev.Read(buf, 0); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", buf)
	// Output: hello, flash
}
