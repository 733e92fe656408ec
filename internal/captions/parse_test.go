package captions

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"captioner/internal/services"
)

func TestParseSRTScenario(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:05,000\nHello world\n\n2\n00:00:05,000 --> 00:00:10,000\nThis is a test"
	got, err := Parse(content, SRT)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got != "Hello world This is a test" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestParseVTTScenario(t *testing.T) {
	content := "WEBVTT\nKind: captions\nLanguage: en\n\nNOTE generated by a robot\n\n" +
		"00:00:00.000 --> 00:00:05.000\nHello world\n\n" +
		"00:00:05.000 --> 00:00:10.000 align:start position:0%\nThis is a test\n"
	got, err := Parse(content, VTT)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got != "Hello world This is a test" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestParseVTTSkipsBlocksAndIdentifiers(t *testing.T) {
	content := strings.Join([]string{
		"WEBVTT",
		"",
		"STYLE",
		"::cue { color: lime }",
		"",
		"intro",
		"00:01.000 --> 00:02.000",
		"<v Roger>Hi <i>there</i>",
		"",
		"NOTE",
		"a multi line",
		"comment",
		"",
		"2",
		"00:02.000 --> 00:03.000",
		"&gt;&gt; General Kenobi",
	}, "\r\n")
	got, err := Fragments(content, VTT)
	if err != nil {
		t.Fatalf("Fragments returned error: %v", err)
	}
	want := []string{"Hi there", "General Kenobi"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSRTStripsStrayIndexes(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:01,000\nfirst line 2\n\n2\n00:00:01.000 --> 00:00:02.000\n2 second line\n"
	got, err := Parse(content, SRT)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got != "first line second line" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestParseSRTKeepsSpokenNumbers(t *testing.T) {
	content := strings.Join([]string{
		"2",
		"00:00:01,000 --> 00:00:02,000",
		"Room 2 is ready",
		"",
		"3",
		"00:00:02,000 --> 00:00:03,000",
		"we need 4 chairs",
		"3",
		"",
		"4",
		"00:00:03,000 --> 00:00:04,000",
		"4 5 seats left 5",
		"",
	}, "\n")
	got, err := Fragments(content, SRT)
	if err != nil {
		t.Fatalf("Fragments returned error: %v", err)
	}
	want := []string{"Room 2 is ready", "we need 4 chairs", "seats left"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseASS(t *testing.T) {
	content := strings.Join([]string{
		"[Script Info]",
		"Title: demo",
		"Dialogue: this is not an event line",
		"",
		"[V4+ Styles]",
		"Format: Name, Fontname",
		"",
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
		`Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,{\an8}Hello,\Nworld`,
		"Comment: 0,0:00:02.00,0:00:03.00,Default,,0,0,0,,ignored",
		`Dialogue: 0,0:00:03.00,0:00:04.00,Default,Bob,0,0,0,,second\hline`,
		"",
		"[Fonts]",
		"Dialogue: 0,0:00:05.00,0:00:06.00,Default,,0,0,0,,after events",
	}, "\n")
	got, err := Fragments(content, ASS)
	if err != nil {
		t.Fatalf("Fragments returned error: %v", err)
	}
	want := []string{"Hello, world", "second line"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLRC(t *testing.T) {
	content := "[ar:Artist]\n[ti:Title]\n[00:01.00]First line\n[00:02.50][01:10.00] Chorus <00:02.60>again\nuntagged\n[00:03]Last"
	got, err := Parse(content, LRC)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got != "First line Chorus again Last" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse("anything", Format(42))
	if !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseGarbageYieldsEmpty(t *testing.T) {
	for _, f := range Formats() {
		got, err := Parse("\x00\x01 -->\n\n", f)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", f, err)
		}
		if f != SRT && got != "" {
			t.Fatalf("%s: expected empty transcript, got %q", f, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	format, text := Normalize("[00:01.00]la la\n[00:02.00]la")
	if format != LRC || text != "la la la" {
		t.Fatalf("Normalize = %s %q", format, text)
	}
}

// Serialized fragments must parse back to the same fragments for every dialect.
func TestRoundTrip(t *testing.T) {
	fragments := []string{"Hello world", "This is a test", "Café au lait", "it's 100% fine", "fin"}
	serializers := map[Format]func([]string) string{
		SRT: renderSRT,
		VTT: renderVTT,
		ASS: renderASS,
		LRC: renderLRC,
	}
	for format, render := range serializers {
		t.Run(format.String(), func(t *testing.T) {
			content := render(fragments)
			if got := Detect(content); got != format {
				t.Fatalf("Detect = %s, want %s", got, format)
			}
			got, err := Parse(content, format)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if want := strings.Join(fragments, " "); got != want {
				t.Fatalf("round trip mismatch: got %q want %q", got, want)
			}
		})
	}
}

func renderSRT(fragments []string) string {
	var b strings.Builder
	for i, f := range fragments {
		fmt.Fprintf(&b, "%d\n00:00:%02d,000 --> 00:00:%02d,500\n%s\n\n", i+1, i, i, f)
	}
	return b.String()
}

func renderVTT(fragments []string) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, f := range fragments {
		fmt.Fprintf(&b, "00:00:%02d.000 --> 00:00:%02d.500\n%s\n\n", i, i, f)
	}
	return b.String()
}

func renderASS(fragments []string) string {
	var b strings.Builder
	b.WriteString("[Script Info]\nScriptType: v4.00+\n\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for i, f := range fragments {
		fmt.Fprintf(&b, "Dialogue: 0,0:00:%02d.00,0:00:%02d.50,Default,,0,0,0,,%s\n", i, i, f)
	}
	return b.String()
}

func renderLRC(fragments []string) string {
	var b strings.Builder
	b.WriteString("[ar:Unknown]\n")
	for i, f := range fragments {
		fmt.Fprintf(&b, "[00:%02d.00]%s\n", i, f)
	}
	return b.String()
}
