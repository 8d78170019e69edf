// Package bustest provides an in-memory I2C bus simulating register mapped
// devices. Every register transaction is recorded so tests can assert which
// registers a driver touched and what it wrote.
//
// Typical usage:
//
//	bus := bustest.New()
//	bus.Set(0x18, 0x42, 0x5A, 0x00, 0x00, 0x00)
//	s := angle.NewAngleSensor(bus)
//	a, err := s.GetAngle(ctx)
//	tr := bus.Transactions() // one read at 0x42
package bustest

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/evshield"
)

type Op int

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpRead {
		return "read"
	}
	return "write"
}

// Transaction is a single register access as seen by the simulated device.
type Transaction struct {
	Op       Op
	Address  byte
	Register byte
	Data     []byte
}

type device struct {
	mem     [256]byte
	pointer byte
	err     error
}

var _ evshield.I2CBus = &Bus{}
var _ evshield.Transactor = &Bus{}

// Bus is safe for concurrent use.
type Bus struct {
	mx      sync.Mutex
	devices map[byte]*device
	log     []Transaction
}

func New() *Bus {
	return &Bus{devices: make(map[byte]*device)}
}

func (b *Bus) dev(address byte) *device {
	d, ok := b.devices[address]
	if !ok {
		d = &device{}
		b.devices[address] = d
	}
	return d
}

// Set preloads register memory of the device at address. It is not recorded.
func (b *Bus) Set(address, reg byte, data ...byte) {
	b.mx.Lock()
	defer b.mx.Unlock()
	d := b.dev(address)
	for i, v := range data {
		d.mem[reg+byte(i)] = v
	}
}

// Get returns n bytes of register memory starting at reg.
func (b *Bus) Get(address, reg byte, n int) []byte {
	b.mx.Lock()
	defer b.mx.Unlock()
	d := b.dev(address)
	res := make([]byte, n)
	for i := range res {
		res[i] = d.mem[reg+byte(i)]
	}
	return res
}

// Fail makes every transaction to address return err. A nil err clears it.
func (b *Bus) Fail(address byte, err error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.dev(address).err = err
}

// Transactions returns a copy of the transaction log.
func (b *Bus) Transactions() []Transaction {
	b.mx.Lock()
	defer b.mx.Unlock()
	res := make([]Transaction, len(b.log))
	copy(res, b.log)
	return res
}

// Reset clears the transaction log, keeping register memory.
func (b *Bus) Reset() {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.log = nil
}

func (b *Bus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	d := b.dev(address)
	if d.err != nil {
		return d.err
	}
	if len(buffer) == 0 {
		return fmt.Errorf("bustest: empty write to %#02x", address)
	}
	d.pointer = buffer[0]
	if len(buffer) == 1 {
		// register pointer only, the data phase follows in ReadFromAddr
		return nil
	}
	b.store(d, address, buffer[1:])
	return nil
}

func (b *Bus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	d := b.dev(address)
	if d.err != nil {
		return d.err
	}
	b.load(d, address, buffer)
	return nil
}

// TxToAddr treats w[0] as register pointer; remaining bytes of w are written,
// then r is filled from the pointer.
func (b *Bus) TxToAddr(ctx context.Context, address byte, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	d := b.dev(address)
	if d.err != nil {
		return d.err
	}
	if len(w) == 0 {
		b.load(d, address, r)
		return nil
	}
	d.pointer = w[0]
	if len(w) > 1 {
		b.store(d, address, w[1:])
	}
	if len(r) > 0 {
		b.load(d, address, r)
	}
	return nil
}

func (b *Bus) Release(ctx context.Context) error {
	return nil
}

// Split returns a view of the bus without combined transfers, exercising the
// pointer-write-then-read path of drivers.
func (b *Bus) Split() evshield.I2CBus {
	return splitBus{b}
}

func (b *Bus) store(d *device, address byte, data []byte) {
	start := d.pointer
	for _, v := range data {
		d.mem[d.pointer] = v
		d.pointer++
	}
	b.record(OpWrite, address, start, data)
}

func (b *Bus) load(d *device, address byte, buffer []byte) {
	start := d.pointer
	for i := range buffer {
		buffer[i] = d.mem[d.pointer]
		d.pointer++
	}
	b.record(OpRead, address, start, buffer)
}

func (b *Bus) record(op Op, address, reg byte, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	b.log = append(b.log, Transaction{Op: op, Address: address, Register: reg, Data: cp})
}

type splitBus struct {
	bus *Bus
}

func (s splitBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return s.bus.WriteToAddr(ctx, address, buffer)
}

func (s splitBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return s.bus.ReadFromAddr(ctx, address, buffer)
}

func (s splitBus) Release(ctx context.Context) error {
	return s.bus.Release(ctx)
}
