package captions

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"empty", "", SRT},
		{"whitespace", "  \n\n", SRT},
		{"srt", "1\n00:00:00,000 --> 00:00:01,000\nHi", SRT},
		{"vtt", "WEBVTT\n\n00:00.000 --> 00:01.000\nHi", VTT},
		{"vtt with bom and padding", "\ufeff \nWEBVTT - title\n", VTT},
		{"ass script info", "[Script Info]\nTitle: x\n", ASS},
		{"ass events only", "junk\n[Events]\nDialogue: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,Hi", ASS},
		{"ass before lrc", "[00:01.00]line\n[V4+ Styles]", ASS},
		{"lrc", "[ar:Someone]\n[00:12.00]First line", LRC},
		{"lrc without fraction", "[01:02]line", LRC},
		{"plain text", "just some words", SRT},
		{"bracket prose", "[applause]\nthanks", SRT},
		{"vtt keyword mid file", "hello\nWEBVTT", SRT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.content); got != tt.want {
				t.Fatalf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectIsTotal(t *testing.T) {
	inputs := []string{"", "\x00\xff", "-->", "[", "]", "WEBVTT", "[Events]", "[99:99.99]", "\r\r\n"}
	for _, in := range inputs {
		if got := Detect(in); !got.Valid() {
			t.Fatalf("Detect(%q) returned invalid format %d", in, int(got))
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%q) = %v, %v", f.String(), got, err)
		}
		got, err = ParseFormat(f.Extension())
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%q) = %v, %v", f.Extension(), got, err)
		}
	}
	if got, err := ParseFormat(" WebVTT "); err != nil || got != VTT {
		t.Fatalf("expected webvtt alias, got %v %v", got, err)
	}
	if _, err := ParseFormat("sbv"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
