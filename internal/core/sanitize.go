package core

import (
	"regexp"
	"strings"
)

// Log chunks arriving from containers can carry the full zoo of terminal
// escape sequences. Everything is stripped before storage so that search and
// highlighting operate on plain text and rendering stays deterministic.

var (
	// CSI: ESC [ ... final byte in @-~ (cursor moves, erase, SGR colors).
	reCSI = regexp.MustCompile("\x1b\x5b[0-?]*[ -/]*[@-~]")

	// OSC: ESC ] ... terminated by BEL or ST.
	reOSC = regexp.MustCompile("\x1b\x5d[\x20-\x7e]*(?:\x07|\x1b\\\\)")

	// DCS/SOS/PM/APC: ESC P/X/^/_ ... terminated by ST or BEL.
	reDCS = regexp.MustCompile("\x1b[PX^_](?s:.*?)(?:\x1b\\\\|\x07)")

	// Bare two-byte escapes such as ESC 7 / ESC 8.
	reESC = regexp.MustCompile("\x1b[0-9A-Za-z]")
)

// SanitizeLine strips terminal control sequences and C0 control characters
// (except tab) from a log line. Carriage returns and backspaces are removed
// outright since they would rewrite previously rendered cells. Idempotent.
func SanitizeLine(s string) string {
	if s == "" {
		return s
	}

	// OSC/DCS blocks first: they may contain CSI-looking bytes inside.
	s = reOSC.ReplaceAllString(s, "")
	s = reDCS.ReplaceAllString(s, "")
	s = reCSI.ReplaceAllString(s, "")
	s = reESC.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\b", "")

	if !hasC0(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 0x20 && ch != '\t' {
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func hasC0(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 && s[i] != '\t' {
			return true
		}
	}
	return false
}
