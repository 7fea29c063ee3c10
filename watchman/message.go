package watchman

import "encoding/binary"

// Message is one watchman_message frame: a 1-byte length, a 16-bit
// high-resolution timestamp (the upper bits of the 48 MHz tick
// counter; the low 16 bits ride in IMU sub-samples), and a variable
// payload (spec.md §4.7).
type Message struct {
	TimestampHigh uint16
	Payload       []byte
}

// SplitFrames splits one controller USB report body (report ID
// already stripped) into its one (single) or two (multiplexed)
// watchman_message frames (spec.md §4.7). The length byte counts the
// bytes following it (timestamp + payload), so a frame with length L
// occupies 1+L bytes starting at its length byte.
func SplitFrames(body []byte) []Message {
	var msgs []Message
	pos := 0
	for pos < len(body) {
		if pos+1 > len(body) {
			break
		}
		length := int(body[pos])
		if length == 0 {
			break
		}
		end := pos + 1 + length
		if end > len(body) || length < 2 {
			break
		}
		ts := binary.LittleEndian.Uint16(body[pos+1 : pos+3])
		payload := body[pos+3 : end]
		msgs = append(msgs, Message{TimestampHigh: ts, Payload: payload})
		pos = end
	}
	return msgs
}
