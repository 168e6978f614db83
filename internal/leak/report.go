package leak

import (
	"fmt"
	"io"
	"strings"
)

// unlikelyMarker flags a byte chosen after the round budget ran out.
const unlikelyMarker = "[[[unlikely]]]"

// FormatByte renders one result the way the report prints it:
//
//	Reading at offset 0x1000... Success: 0x48='H' score=201 (second best: 0x01 score=0) rounds=201
//	Reading at offset 0x1001... Unclear: 0x65='e' score=37 (second best: 0x21 score=30) rounds=1000 [[[unlikely]]]
//
// Non-printable values are shown as '?'. The runner-up is omitted when it
// never scored.
func FormatByte(b Byte) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("Reading at offset %#x... ", b.Offset))
	if b.LowConfidence {
		buf.WriteString("Unclear: ")
	} else {
		buf.WriteString("Success: ")
	}

	buf.WriteString(fmt.Sprintf("0x%02X='%c' score=%d", b.Value, printable(b.Value), b.Score))
	if b.RunnerUpScore > 0 {
		buf.WriteString(fmt.Sprintf(" (second best: 0x%02X score=%d)", b.RunnerUp, b.RunnerUpScore))
	}
	buf.WriteString(fmt.Sprintf(" rounds=%d", b.Rounds))

	if b.LowConfidence {
		buf.WriteString(" ")
		buf.WriteString(unlikelyMarker)
	}
	return buf.String()
}

// WriteReport writes one line per byte followed by a summary line.
func WriteReport(w io.Writer, l Leaked) error {
	for _, b := range l {
		if _, err := fmt.Fprintln(w, FormatByte(b)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, Summary(l))
	return err
}

// Summary returns a one-line description of the whole range.
//
// Example:
//
//	Recovered 6 bytes: "Hello\n" (0 low confidence)
func Summary(l Leaked) string {
	return fmt.Sprintf("Recovered %d bytes: %q (%d low confidence)", len(l), l.String(), l.LowConfidence())
}

func printable(v byte) rune {
	if v > 31 && v < 127 {
		return rune(v)
	}
	return '?'
}
