//go:build linux

package spi

import (
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"golang-w5500d/internal/pkg/logging"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"tinygo.org/x/drivers"
)

// spidev ioctl requests, see include/uapi/linux/spi/spidev.h
const (
	spiIocWrMode        = 0x40016b01
	spiIocWrBitsPerWord = 0x40016b03
	spiIocWrMaxSpeedHz  = 0x40046b04
	spiIocMessage1      = 0x40206b00
	defaultBitsPerWord  = 8
	defaultSpeedHz      = 8_000_000
)

// spiIocTransfer mirrors struct spi_ioc_transfer.
type spiIocTransfer struct {
	txBuf          uint64
	rxBuf          uint64
	length         uint32
	speedHz        uint32
	delayUsecs     uint16
	bitsPerWord    uint8
	csChange       uint8
	txNbits        uint8
	rxNbits        uint8
	wordDelayUsecs uint8
	pad            uint8
}

// Device is a Linux spidev character device implementing drivers.SPI.
// The kernel asserts chip select for the duration of every Tx call.
type Device struct {
	f       *os.File
	speedHz uint32
}

// Ensure Device implements the tinygo SPI interface
var _ drivers.SPI = (*Device)(nil)

// OpenDevice opens a spidev node (e.g. /dev/spidev0.0) with the given SPI mode and clock.
func OpenDevice(path string, mode uint8, speedHz uint32) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open spi device %s: %w", path, err)
	}

	if speedHz == 0 {
		speedHz = defaultSpeedHz
	}
	bits := uint8(defaultBitsPerWord)

	d := &Device{f: f, speedHz: speedHz}
	if err := d.ioctl(spiIocWrMode, unsafe.Pointer(&mode)); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set spi mode %d on %s: %w", mode, path, err)
	}
	if err := d.ioctl(spiIocWrBitsPerWord, unsafe.Pointer(&bits)); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set bits per word on %s: %w", path, err)
	}
	if err := d.ioctl(spiIocWrMaxSpeedHz, unsafe.Pointer(&speedHz)); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set spi speed %d on %s: %w", speedHz, path, err)
	}

	logging.WithComponent("spi").WithFields(logrus.Fields{
		"device":   path,
		"mode":     mode,
		"speed_hz": speedHz,
	}).Debug("Opened spi device")
	return d, nil
}

// Tx transmits w and receives into r in one full-duplex transfer.
// Either buffer may be nil; when both are set they must have the same length.
func (d *Device) Tx(w, r []byte) error {
	n := len(w)
	if n == 0 {
		n = len(r)
	}
	if w != nil && r != nil && len(w) != len(r) {
		return fmt.Errorf("spi tx: buffer length mismatch (w=%d r=%d)", len(w), len(r))
	}
	if n == 0 {
		return nil
	}

	xfer := spiIocTransfer{
		length:      uint32(n),
		speedHz:     d.speedHz,
		bitsPerWord: defaultBitsPerWord,
	}
	if len(w) > 0 {
		xfer.txBuf = uint64(uintptr(unsafe.Pointer(&w[0])))
	}
	if len(r) > 0 {
		xfer.rxBuf = uint64(uintptr(unsafe.Pointer(&r[0])))
	}

	err := d.ioctl(spiIocMessage1, unsafe.Pointer(&xfer))
	runtime.KeepAlive(w)
	runtime.KeepAlive(r)
	if err != nil {
		return fmt.Errorf("spi transfer of %d bytes failed: %w", n, err)
	}
	return nil
}

// Transfer writes a single byte and returns the byte clocked in at the same time.
func (d *Device) Transfer(b byte) (byte, error) {
	var r [1]byte
	if err := d.Tx([]byte{b}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// Close releases the device node.
func (d *Device) Close() error {
	return d.f.Close()
}

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
