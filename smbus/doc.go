// Package smbus implements SMBus transactions with optional Packet Error Checking (PEC)
// on top of a [transport.Transport].
//
// A [Bus] is opened for a numbered adapter from a [BusConfig]. It then carries the
// current 7-bit slave address and the PEC flag, and exposes one method per SMBus
// transaction type:
//
//   - QuickCommand: address phase only, the read/write bit carries the payload
//   - ReadReg / WriteReg: receive and send byte
//   - ReadByteData / WriteByteData, ReadWordData / WriteWordData
//   - ReadDwordData / WriteDwordData, ReadQwordData / WriteQwordData
//   - ReadBlockData / WriteBlockData: length-prefixed blocks of up to 32 bytes
//   - ProcCall: write a word and read a word back in one transaction
//
// # Packet Error Checking
//
// For the standard transaction kinds PEC is framed by the transport (the Linux kernel,
// or the software framing of the periph.io transport). Dword and qword values travel as
// fixed-length I2C block transfers, which the kernel never frames, so the Bus computes
// and verifies their checksum itself using the pec package: on writes the PEC byte
// follows the little-endian value, on reads one extra byte is requested and checked.
//
// A checksum failure from either source is reported as [ErrChecksumMismatch].
//
// # Concurrency
//
// A Bus is not safe for concurrent use. Its [BusMetrics] may be read from any goroutine.
package smbus
