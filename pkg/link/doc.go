// Package link implements the framed point-to-point protocol spoken
// between the two nodes over a duplex byte channel (e.g. a UART).
package link

// Each frame is sync-delimited, length-prefixed and CRC8-protected,
// so the receiver can resynchronize on the next sync byte after any
// corruption without dropping more than the bytes already buffered.
//
// The command code space is partitioned by numeric range: 0x01-0x7F
// are commands, 0x80-0xFF are responses to the most recent request,
// and 0x10-0x1F are unsolicited notifications sharing the command
// encoding but never correlated to an outstanding request.
//
// Producer/consumer: both nodes speak both directions over one link.
