package evshield

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the transport every device talks through. Addresses are 7-bit.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// Transactor is implemented by buses able to write and then read in a single
// transfer (repeated start). Register reads use it when available.
type Transactor interface {
	TxToAddr(ctx context.Context, address byte, w, r []byte) error
}
