package evshield

// Options holds construction settings shared by all device types.
type Options struct {
	Address byte
}

type Option func(*Options)

// WithAddress overrides the default 7-bit bus address of a device.
func WithAddress(address byte) Option {
	return func(o *Options) {
		o.Address = address
	}
}

// WithShieldAddress overrides the device address using the 8-bit notation
// printed in mindsensors documentation (0x02, 0x30, 0xD0...).
func WithShieldAddress(address byte) Option {
	return func(o *Options) {
		o.Address = ShieldAddress(address)
	}
}

// ShieldAddress converts an 8-bit (write) address to the 7-bit bus address.
func ShieldAddress(address byte) byte {
	return address >> 1
}

// Apply resolves options against the device default address.
func Apply(defaultAddress byte, opts ...Option) Options {
	o := Options{Address: defaultAddress}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
