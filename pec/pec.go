package pec

import (
	"errors"
	"fmt"
)

// CRC-8 parameters used by SMBus PEC.
const (
	// Polynomial is x⁸+x²+x¹+x⁰ with the x⁸ term implied.
	Polynomial = 0x07

	// InitialValue is the checksum of an empty message.
	InitialValue = 0x00

	highBitMask = 0x80
	bitsPerByte = 8
)

// Read/write bits appended to a 7-bit address on the wire.
const (
	WriteBit = 0x00
	ReadBit  = 0x01
)

// ErrMismatch indicates that a received PEC byte does not match the checksum computed
// over the received data.
var ErrMismatch = errors.New("pec: checksum mismatch")

// Single advances the running checksum crc by one byte.
func Single(crc, b byte) byte {
	crc ^= b
	for range bitsPerByte {
		if crc&highBitMask != 0 {
			crc = (crc << 1) ^ Polynomial
		} else {
			crc <<= 1
		}
	}

	return crc
}

// Block advances the running checksum crc over every byte of p, in order.
func Block(crc byte, p []byte) byte {
	for _, b := range p {
		crc = Single(crc, b)
	}

	return crc
}

// WriteAddress returns the address byte of a write phase for the 7-bit address addr.
func WriteAddress(addr uint8) byte {
	return (addr&0x7F)<<1 | WriteBit
}

// ReadAddress returns the address byte of a read phase for the 7-bit address addr.
func ReadAddress(addr uint8) byte {
	return (addr&0x7F)<<1 | ReadBit
}

// WritePacket returns the PEC of a write transaction: write address, command, data.
func WritePacket(addr uint8, command byte, data []byte) byte {
	crc := Single(InitialValue, WriteAddress(addr))
	crc = Single(crc, command)

	return Block(crc, data)
}

// ReadPacket returns the PEC of a read transaction: write address, command, read
// address, data.
func ReadPacket(addr uint8, command byte, data []byte) byte {
	crc := Single(InitialValue, WriteAddress(addr))
	crc = Single(crc, command)
	crc = Single(crc, ReadAddress(addr))

	return Block(crc, data)
}

// Verify compares a received PEC byte against the computed one.
// The returned error wraps ErrMismatch.
func Verify(computed, received byte) error {
	if computed != received {
		return fmt.Errorf("%w: wire=0x%02X, computed=0x%02X", ErrMismatch, received, computed)
	}

	return nil
}
