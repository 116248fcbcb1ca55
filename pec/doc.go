// Package pec implements SMBus Packet Error Checking.
//
// PEC is a CRC-8 with polynomial x⁸+x²+x+1 (0x07), initial value 0, no reflection and no
// final XOR, computed over every byte the bus carries for one transaction, address bytes
// included. Because the checksum is a running value, [Single] and [Block] compose: a
// checksum over a message may be built up piece by piece in wire order.
//
// # Pseudo-packets
//
// Kernel and controller APIs hide the address bytes, so the checksum is computed over a
// pseudo-packet that reconstructs them:
//
//	write:  [addr<<1|0] [command] [data ...]
//	read:   [addr<<1|0] [command] [addr<<1|1] [data ...]
//
// A read repeats the address with the read bit after the repeated start condition, a
// write is a single uninterrupted phase. [WritePacket] and [ReadPacket] build each form.
package pec
