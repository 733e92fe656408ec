package captions

import "testing"

func TestCleanLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"html tags", "Hello <b>world</b>", "Hello world"},
		{"annotations", "Hello [music] world [applause]", "Hello world"},
		{"speaker marker", ">> Hello there", "Hello there"},
		{"interleaved speaker", "yes >> no", "yes no"},
		{"vtt inline timestamps", "<00:00:01.000><c>so</c><00:00:01.500><c> we</c>", "so we"},
		{"ass override", `{\i1}quiet{\i0} please`, "quiet please"},
		{"entities", "Tom &amp; Jerry &gt;&gt; fin", "Tom & Jerry fin"},
		{"whitespace", "  spread \t out   words ", "spread out words"},
		{"only noise", "[Music]", ""},
		{"empty", "", ""},
		{"nfc", "Cafe\u0301", "Caf\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanLine(tt.in); got != tt.want {
				t.Fatalf("CleanLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
