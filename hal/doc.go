// Package hal defines the hardware boundary of the DMX512 transmit engine.
//
// A physical serial transmitter is described by [Port], a register-level view
// exposing data writes, transmit status, interrupt masks and line control.
// Peripheral families differ in how they buffer outgoing bytes, so the engine
// never talks to a Port directly. Instead it drives a [SendHandler], a small
// capability interface with one implementation per buffering style:
//
//   - [UARTSendHandler] for peripherals with a single transmit data register.
//   - [FIFOSendHandler] for peripherals with a multi-byte transmit FIFO.
//
// A [Family] describes one chip: its empirically measured BREAK/MAB timer
// corrections, which serial formats it supports for BREAK generation, and
// which buffering style each of its ports uses. [Family.NewSendHandler] picks
// the variant for a port at construction time.
//
// # Formats
//
// DMX512 slots are always sent at 250000 baud, 8N2 ([SlotsBaud],
// [SlotsFormat]). Other formats are only used transiently to generate a BREAK
// by sending a single 0x00 byte at a lower baud rate; [Format.BreakBits] and
// [Format.MABBits] give the resulting low and high times in bit periods.
package hal
