package core

import "testing"

func TestSanitizeLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"sgr color stripped", "\x1b[31mred\x1b[0m text", "red text"},
		{"cursor movement stripped", "a\x1b[2Kb\x1b[1;1Hc", "abc"},
		{"osc title stripped", "\x1b]0;title\x07line", "line"},
		{"osc with st terminator", "\x1b]8;;http://x\x1b\\link", "link"},
		{"dcs stripped", "\x1bPq payload\x1b\\after", "after"},
		{"bare escape stripped", "\x1b7saved\x1b8", "saved"},
		{"carriage return removed", "progress\rdone", "progressdone"},
		{"backspace removed", "ab\b\bcd", "abcd"},
		{"tab preserved", "col1\tcol2", "col1\tcol2"},
		{"other c0 replaced with space", "a\x01b\x02c", "a b c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeLine(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// Idempotence: a second pass must not change anything.
			if again := SanitizeLine(got); again != got {
				t.Errorf("SanitizeLine not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestMatchIndices(t *testing.T) {
	lines := []string{"aaa", "bab", "abc"}

	if got := MatchIndices(lines, "ab"); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("MatchIndices(ab) = %v, want [1 2]", got)
	}
	if got := MatchIndices(lines, "zzz"); got != nil {
		t.Errorf("MatchIndices(zzz) = %v, want nil", got)
	}
	// Empty query matches everything.
	if got := MatchIndices(lines, ""); len(got) != 3 {
		t.Errorf("MatchIndices(\"\") matched %d lines, want 3", len(got))
	}
	if got := MatchIndices(nil, "x"); got != nil {
		t.Errorf("MatchIndices on nil input = %v, want nil", got)
	}
}

func TestMatchNavigation(t *testing.T) {
	if got := NextMatch(0, 3); got != 1 {
		t.Errorf("NextMatch(0,3) = %d, want 1", got)
	}
	if got := NextMatch(2, 3); got != 0 {
		t.Errorf("NextMatch(2,3) = %d, want 0 (wrap)", got)
	}
	if got := PrevMatch(0, 3); got != 2 {
		t.Errorf("PrevMatch(0,3) = %d, want 2 (wrap)", got)
	}
	if got := PrevMatch(2, 3); got != 1 {
		t.Errorf("PrevMatch(2,3) = %d, want 1", got)
	}
	if got := NextMatch(5, 0); got != 5 {
		t.Errorf("NextMatch with no matches should not move, got %d", got)
	}
}
