// Package dmx implements a DMX512 transmitter on top of an interrupt-driven
// serial port.
//
// A Sender owns a 513-slot buffer (start code plus 512 channels) and, once
// started, keeps sending packets made of a BREAK, a Mark-After-Break and the
// slots at 250000 baud 8N2. BREAK and MAB are generated either by sending one
// 0x00 byte at a slower baud rate (serial-framing mode, the default) or by
// holding the line with a one-shot timer (timer mode).
//
// Ports are described by the hal package. Each port's interrupt vector
// dispatches through a Registry that maps port indices to the Sender that
// currently owns them; starting a second Sender on a port stops the first.
//
// Basic usage:
//
//	cfg, err := dmx.NewSenderConfig(
//		dmx.WithFamily(hal.FamilyMK66FX),
//		dmx.WithRefreshRate(44),
//	)
//	if err != nil {
//		return err
//	}
//	sender, err := dmx.NewSender(port, cfg)
//	if err != nil {
//		return err
//	}
//	sender.Begin()
//	defer sender.End()
//
//	_ = sender.Set(1, 255)
package dmx
