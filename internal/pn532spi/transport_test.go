package pn532spi

import (
	"testing"

	pn532 "github.com/ZaparooProject/go-pn532"
	"github.com/stretchr/testify/assert"
)

func TestReverseBits(t *testing.T) {
	cases := []struct {
		in, want byte
	}{
		{0x00, 0x00},
		{0xFF, 0xFF},
		{0x01, 0x80},
		{0x80, 0x01},
		{0xD4, 0x2B}, // host-to-PN532 TFI byte, reversed
	}

	for _, c := range cases {
		got := reverseBits([]byte{c.in})
		assert.Equal(t, []byte{c.want}, got)
	}
}

func TestReverseBits_RoundTrips(t *testing.T) {
	original := []byte{0x12, 0x34, 0xAB, 0xCD}
	assert.Equal(t, original, reverseBits(reverseBits(original)))
}

func TestTransport_TypeIsSPI(t *testing.T) {
	tr := &Transport{}
	assert.Equal(t, pn532.TransportSPI, tr.Type())
}

func TestTransport_IsConnectedReflectsConn(t *testing.T) {
	tr := &Transport{}
	assert.False(t, tr.IsConnected())
}
