package transport

import "roastercore/internal/shmring"

// defaultRingSize is the per-channel RX byte ring capacity; comfortably
// larger than the longest line this grammar ever sends (the long READ
// form is well under 64 bytes).
const defaultRingSize = 256

// maxLineLen bounds a single in-progress line; exceeding it without a CR
// is treated the same as an overlong/garbled line — it is dropped and
// assembly restarts on the next CR, mirroring a UART overrun.
const maxLineLen = 128

// LineAssembler buffers raw bytes from one serial channel's read side
// (the sole producer) and splits them into complete lines on CR, ignoring
// a trailing LF (§6). The Roaster's RX task (the sole consumer) drains
// completed lines and hands them to protocol.Parse.
type LineAssembler struct {
	rx         *shmring.Ring
	line       []byte
	discarding bool
}

// NewLineAssembler returns an assembler with the default ring size.
func NewLineAssembler() *LineAssembler {
	return &LineAssembler{rx: shmring.New(defaultRingSize)}
}

// Ingest copies hardware-read bytes into the ring. Returns the number of
// bytes actually buffered; fewer than len(p) means the ring was full and
// the remainder was dropped (an RX overrun).
func (a *LineAssembler) Ingest(p []byte) int {
	return a.rx.TryWriteFrom(p)
}

// Drain consumes every byte currently buffered and returns any lines
// completed along the way (CR-terminated, LF stripped, CR itself not
// included). An in-progress line with no terminating CR yet is retained
// for the next Drain call.
func (a *LineAssembler) Drain() []string {
	var lines []string
	var buf [64]byte
	for {
		n := a.rx.TryReadInto(buf[:])
		if n == 0 {
			break
		}
		for _, b := range buf[:n] {
			switch b {
			case '\r':
				if !a.discarding {
					lines = append(lines, string(a.line))
				}
				a.line = a.line[:0]
				a.discarding = false
			case '\n':
				// ignored on RX per §6
			default:
				if a.discarding {
					continue
				}
				if len(a.line) < maxLineLen {
					a.line = append(a.line, b)
				} else {
					// overlong line: drop everything up to the next CR
					a.line = a.line[:0]
					a.discarding = true
				}
			}
		}
	}
	return lines
}
