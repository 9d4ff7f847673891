//go:build !linux

package spi

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Device is unavailable outside Linux.
type Device struct{}

var _ drivers.SPI = (*Device)(nil)

// OpenDevice always fails: spidev is Linux only.
func OpenDevice(path string, mode uint8, speedHz uint32) (*Device, error) {
	return nil, errors.New("spidev is only supported on linux")
}

func (d *Device) Tx(w, r []byte) error { return errors.New("spidev is only supported on linux") }

func (d *Device) Transfer(b byte) (byte, error) {
	return 0, errors.New("spidev is only supported on linux")
}

func (d *Device) Close() error { return nil }
