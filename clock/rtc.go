package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/mklimuk/evshield"
)

// DefaultAddress is the 7-bit bus address (0xD0 in shield notation).
const DefaultAddress = 0x68

// Clock registers hold BCD encoded values.
const (
	regSeconds    byte = 0x00
	regMinutes    byte = 0x01
	regHours      byte = 0x02
	regDayOfWeek  byte = 0x03
	regDayOfMonth byte = 0x04
	regMonth      byte = 0x05
	regYear       byte = 0x06
)

const century = 2000

// RTC represents the real-time clock of the shield.
//
// Getters decode a single register each. Values outside the documented ranges
// are returned as decoded, the device is trusted.
type RTC struct {
	dev *evshield.Device
}

func NewRTC(bus evshield.I2CBus, opts ...evshield.Option) *RTC {
	o := evshield.Apply(DefaultAddress, opts...)
	return &RTC{dev: evshield.NewDevice(bus, o.Address)}
}

func (r *RTC) Address() byte {
	return r.dev.Address()
}

// GetSeconds returns seconds (0-59).
func (r *RTC) GetSeconds(ctx context.Context) (uint8, error) {
	return r.get(ctx, regSeconds, "seconds")
}

// GetMinutes returns minutes (0-59).
func (r *RTC) GetMinutes(ctx context.Context) (uint8, error) {
	return r.get(ctx, regMinutes, "minutes")
}

// GetHours returns hours in 24h format.
func (r *RTC) GetHours(ctx context.Context) (uint8, error) {
	return r.get(ctx, regHours, "hours")
}

// GetDayWeek returns day of the week (1-7, Sunday first).
func (r *RTC) GetDayWeek(ctx context.Context) (uint8, error) {
	return r.get(ctx, regDayOfWeek, "day of week")
}

// GetDayMonth returns day of the month (1-31).
func (r *RTC) GetDayMonth(ctx context.Context) (uint8, error) {
	return r.get(ctx, regDayOfMonth, "day of month")
}

// GetMonth returns month of the year (1-12).
func (r *RTC) GetMonth(ctx context.Context) (uint8, error) {
	return r.get(ctx, regMonth, "month")
}

// GetYear returns the two digit year.
func (r *RTC) GetYear(ctx context.Context) (uint8, error) {
	return r.get(ctx, regYear, "year")
}

func (r *RTC) SetSeconds(ctx context.Context, v uint8) error {
	return r.set(ctx, regSeconds, v, "seconds")
}

func (r *RTC) SetMinutes(ctx context.Context, v uint8) error {
	return r.set(ctx, regMinutes, v, "minutes")
}

func (r *RTC) SetHours(ctx context.Context, v uint8) error {
	return r.set(ctx, regHours, v, "hours")
}

func (r *RTC) SetDayWeek(ctx context.Context, v uint8) error {
	return r.set(ctx, regDayOfWeek, v, "day of week")
}

func (r *RTC) SetDayMonth(ctx context.Context, v uint8) error {
	return r.set(ctx, regDayOfMonth, v, "day of month")
}

func (r *RTC) SetMonth(ctx context.Context, v uint8) error {
	return r.set(ctx, regMonth, v, "month")
}

func (r *RTC) SetYear(ctx context.Context, v uint8) error {
	return r.set(ctx, regYear, v, "year")
}

// Time reads all clock registers in one transaction. Years are taken as 20xx
// and the clock is assumed to run in local time. Register values that do not
// form a valid date or time are reported as an error.
func (r *RTC) Time(ctx context.Context) (time.Time, error) {
	buf := make([]byte, 7)
	if err := r.dev.Read(ctx, regSeconds, buf); err != nil {
		return time.Time{}, fmt.Errorf("rtc: could not read time: %w", err)
	}
	year := century + int(BCDToInteger(buf[regYear]))
	month := time.Month(BCDToInteger(buf[regMonth]))
	day := int(BCDToInteger(buf[regDayOfMonth]))
	hour := int(BCDToInteger(buf[regHours]))
	minute := int(BCDToInteger(buf[regMinutes]))
	sec := int(BCDToInteger(buf[regSeconds]))
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("rtc: invalid month %d", month)
	}
	// day 0 of the next month is the last day of this one
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day < 1 || day > last {
		return time.Time{}, fmt.Errorf("rtc: invalid day %d of %s %d", day, month, year)
	}
	if hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, fmt.Errorf("rtc: invalid time %02d:%02d:%02d", hour, minute, sec)
	}
	return time.Date(year, month, day, hour, minute, sec, 0, time.Local), nil
}

// SetTime writes all clock registers in one transaction. t is converted to
// local time first.
func (r *RTC) SetTime(ctx context.Context, t time.Time) error {
	t = t.In(time.Local)
	if t.Year() < century || t.Year() >= century+100 {
		return fmt.Errorf("rtc: year %d out of range", t.Year())
	}
	err := r.dev.Write(ctx, regSeconds,
		IntegerToBCD(uint8(t.Second())),
		IntegerToBCD(uint8(t.Minute())),
		IntegerToBCD(uint8(t.Hour())),
		IntegerToBCD(uint8(t.Weekday())+1),
		IntegerToBCD(uint8(t.Day())),
		IntegerToBCD(uint8(t.Month())),
		IntegerToBCD(uint8(t.Year()-century)),
	)
	if err != nil {
		return fmt.Errorf("rtc: could not set time: %w", err)
	}
	return nil
}

func (r *RTC) get(ctx context.Context, reg byte, what string) (uint8, error) {
	v, err := r.dev.ReadUint8(ctx, reg)
	if err != nil {
		return 0, fmt.Errorf("rtc: could not read %s: %w", what, err)
	}
	return BCDToInteger(v), nil
}

func (r *RTC) set(ctx context.Context, reg byte, value uint8, what string) error {
	if err := r.dev.WriteUint8(ctx, reg, IntegerToBCD(value)); err != nil {
		return fmt.Errorf("rtc: could not write %s: %w", what, err)
	}
	return nil
}

// BCDToInteger decodes a packed BCD byte. Nibbles above 9 are not validated.
func BCDToInteger(b uint8) uint8 {
	return (b>>4)*10 + b&0x0F
}

// IntegerToBCD encodes 0-99 as packed BCD.
func IntegerToBCD(v uint8) uint8 {
	return (v/10)<<4 | v%10
}
