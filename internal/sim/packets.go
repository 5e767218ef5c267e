package sim

// Packets splits recorded frames into DMX packets. A packet starts at a
// FrameBreak, or at a byte sent at a baud rate other than slotBaud (a BREAK
// generated by serial framing), and collects the slot bytes that follow.
// Bytes recorded before the first BREAK are discarded.
func Packets(frames []Frame, slotBaud uint32) [][]byte {
	var packets [][]byte
	var cur []byte
	started := false

	for _, f := range frames {
		isBreak := f.Kind == FrameBreak || f.Baud != slotBaud
		if isBreak {
			if started {
				packets = append(packets, cur)
			}
			cur = make([]byte, 0, 513)
			started = true

			continue
		}
		if started {
			cur = append(cur, f.Data)
		}
	}
	if started {
		packets = append(packets, cur)
	}

	return packets
}

// Breaks returns the FrameBreak frames.
func Breaks(frames []Frame) []Frame {
	var breaks []Frame
	for _, f := range frames {
		if f.Kind == FrameBreak {
			breaks = append(breaks, f)
		}
	}

	return breaks
}
