// Package pn532spi adapts periph.io's SPI port to the pn532.Transport
// interface go-pn532 expects. go-pn532 ships I2C and UART transports but not
// SPI; this is the peripheral glue spec.md §1 assumes exists as a library —
// it follows go-pn532's own transport/i2c package frame-for-frame, with the
// PN532 SPI-specific data-direction bytes and LSB-first bit order in place
// of the I2C variant's plain byte stream.
package pn532spi

import (
	"bytes"
	"fmt"
	"time"

	pn532 "github.com/ZaparooProject/go-pn532"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	hostToPn532 = 0xD4
	pn532Ready  = 0x01

	// SPI data-direction bytes (PN532 datasheet §6.2.5), sent before every
	// transaction; I2C and UART don't need these.
	dirDataWrite = 0x01
	dirStatusRead = 0x02
	dirDataRead  = 0x03

	maxClockFreq = 2 * physic.MegaHertz
)

var (
	ackFrame  = []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}
	nackFrame = []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00}
)

// Transport implements pn532.Transport over a periph.io SPI connection.
type Transport struct {
	conn    spi.Conn
	port    spi.PortCloser
	busName string
	timeout time.Duration
}

// New opens the named SPI port (e.g. "SPI0.0" for bus 0, chip-select 0) and
// returns a ready PN532 transport.
func New(busName string) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("pn532spi: failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("pn532spi: failed to open SPI port %s: %w", busName, err)
	}

	conn, err := port.Connect(maxClockFreq, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("pn532spi: failed to configure SPI connection: %w", err)
	}

	return &Transport{
		conn:    conn,
		port:    port,
		busName: busName,
		timeout: 1 * time.Second,
	}, nil
}

// reverseBits reverses the bit order of each byte. The PN532 shifts its SPI
// bus LSB-first; periph.io transfers MSB-first, so every byte in both
// directions must be flipped at the boundary.
func reverseBits(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		var r byte
		for bit := 0; bit < 8; bit++ {
			r <<= 1
			r |= v & 1
			v >>= 1
		}
		out[i] = r
	}
	return out
}

func (t *Transport) txrx(write, read []byte) error {
	w := reverseBits(write)
	r := make([]byte, len(read))
	if err := t.conn.Tx(w, r); err != nil {
		return err
	}
	copy(read, reverseBits(r))
	return nil
}

func (t *Transport) checkReady() error {
	buf := []byte{0, 0}
	if err := t.txrx([]byte{dirStatusRead, 0}, buf); err != nil {
		return fmt.Errorf("pn532spi: status read failed: %w", err)
	}
	if buf[1] != pn532Ready {
		return fmt.Errorf("pn532spi: device not ready")
	}
	return nil
}

// SendCommand sends a command frame and returns the PN532's response data:
// the response code byte followed by the payload, with the TFI byte and the
// checksum/postamble stripped.
func (t *Transport) SendCommand(cmd byte, args []byte) ([]byte, error) {
	if err := t.sendFrame(cmd, args); err != nil {
		return nil, err
	}
	if err := t.waitAck(); err != nil {
		return nil, err
	}
	time.Sleep(6 * time.Millisecond)
	return t.receiveFrame()
}

func (t *Transport) sendFrame(cmd byte, args []byte) error {
	dataLen := 2 + len(args)
	if dataLen > 255 {
		return fmt.Errorf("pn532spi: extended frames not supported")
	}

	frm := make([]byte, 1+3+2+dataLen+2)
	frm[0] = dirDataWrite
	frm[1] = 0x00
	frm[2] = 0x00
	frm[3] = 0xFF
	frm[4] = byte(dataLen)
	frm[5] = ^byte(dataLen) + 1
	frm[6] = hostToPn532
	frm[7] = cmd
	copy(frm[8:8+len(args)], args)

	checksum := hostToPn532 + cmd
	for _, b := range args {
		checksum += b
	}
	frm[8+len(args)] = ^checksum + 1
	frm[9+len(args)] = 0x00

	return t.conn.Tx(reverseBits(frm), make([]byte, len(frm)))
}

func (t *Transport) waitAck() error {
	deadline := time.Now().Add(t.timeout)

	for time.Now().Before(deadline) {
		if err := t.checkReady(); err != nil {
			time.Sleep(time.Millisecond)
			continue
		}

		write := make([]byte, 7)
		write[0] = dirDataRead
		read := make([]byte, 7)
		if err := t.txrx(write, read); err != nil {
			return fmt.Errorf("pn532spi: ack read failed: %w", err)
		}
		if bytes.Equal(read[1:], ackFrame) {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return fmt.Errorf("pn532spi: timed out waiting for ACK")
}

func (t *Transport) receiveFrame() ([]byte, error) {
	deadline := time.Now().Add(t.timeout)

	for time.Now().Before(deadline) {
		if err := t.checkReady(); err != nil {
			time.Sleep(time.Millisecond)
			continue
		}

		buf := make([]byte, 255+8)
		if err := t.txrx(append([]byte{dirDataRead}, make([]byte, len(buf)-1)...), buf); err != nil {
			return nil, fmt.Errorf("pn532spi: frame read failed: %w", err)
		}

		off := -1
		for i := 0; i < len(buf)-1; i++ {
			if buf[i] == 0x00 && buf[i+1] == 0xFF {
				off = i + 2
				break
			}
		}
		if off < 0 || off+1 >= len(buf) {
			continue
		}

		frameLen := int(buf[off])
		if off+2+frameLen+1 >= len(buf) {
			continue
		}

		data := buf[off+2 : off+2+frameLen]
		// data[0] is TFI (pn532-to-host), the rest is the command echo + payload.
		if frameLen < 1 {
			return nil, fmt.Errorf("pn532spi: empty response frame")
		}
		return data[1:], nil
	}

	return nil, fmt.Errorf("pn532spi: timed out waiting for response frame")
}

func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.timeout = timeout
	return nil
}

func (t *Transport) IsConnected() bool {
	return t.conn != nil
}

func (t *Transport) Type() pn532.TransportType {
	return pn532.TransportSPI
}

func (t *Transport) Close() error {
	return t.port.Close()
}
