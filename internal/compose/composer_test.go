package compose

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

type fakeSearcher struct {
	results string
	ok      bool
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) (string, bool) {
	f.calls++
	return f.results, f.ok
}

func TestDocumentWinsOverImage(t *testing.T) {
	in := Input{
		DocumentText: "some extracted text",
		ImageData:    []byte{0xff, 0xd8},
		ImageName:    "photo.jpg",
	}
	res := Compose(context.Background(), in, nil)

	if res.Channel != ChannelDocument {
		t.Fatalf("channel = %q, want %q", res.Channel, ChannelDocument)
	}
	if res.Label != "[Document Uploaded]" {
		t.Fatalf("label = %q, want document label", res.Label)
	}
	for _, p := range res.Parts {
		if p.IsBinary() {
			t.Fatalf("document turn must not carry image parts")
		}
	}
}

func TestDocumentTruncation(t *testing.T) {
	in := Input{DocumentText: strings.Repeat("a", DocumentCharLimit+500)}
	res := Compose(context.Background(), in, nil)

	if len(res.Parts) != 1 {
		t.Fatalf("parts = %d, want 1", len(res.Parts))
	}
	want := len(documentInstruction) + DocumentCharLimit
	if len(res.Parts[0].Text) != want {
		t.Fatalf("composed length = %d, want %d", len(res.Parts[0].Text), want)
	}
}

func TestDocumentTruncationKeepsValidUTF8(t *testing.T) {
	// A multi-byte rune straddles the character limit; the cut must land
	// on a rune boundary, not mid-sequence.
	in := Input{DocumentText: strings.Repeat("a", DocumentCharLimit-1) + "ɗaɗin zama"}
	res := Compose(context.Background(), in, nil)

	text := res.Parts[0].Text
	if !utf8.ValidString(text) {
		t.Fatalf("composed document part contains invalid UTF-8")
	}
	got := utf8.RuneCountInString(strings.TrimPrefix(text, documentInstruction))
	if got != DocumentCharLimit {
		t.Fatalf("truncated rune count = %d, want %d", got, DocumentCharLimit)
	}
	if !strings.HasSuffix(text, "ɗ") {
		t.Fatalf("final character = %q, want the straddling rune kept whole", text[len(text)-4:])
	}
}

func TestAudioChannel(t *testing.T) {
	in := Input{Text: "ignored by precedence", AudioData: []byte{1, 2, 3}, AudioMIME: "audio/ogg"}
	res := Compose(context.Background(), in, nil)

	if res.Channel != ChannelAudio {
		t.Fatalf("channel = %q, want %q", res.Channel, ChannelAudio)
	}
	if len(res.Parts) != 2 {
		t.Fatalf("parts = %d, want binary + instruction", len(res.Parts))
	}
	if !res.Parts[0].IsBinary() || res.Parts[0].MIME != "audio/ogg" {
		t.Fatalf("first part = %+v, want audio binary", res.Parts[0])
	}
	if res.Parts[1].Text != audioInstruction {
		t.Fatalf("second part = %q, want transcribe instruction", res.Parts[1].Text)
	}
}

func TestImageChannelUsesCaptionOrDefault(t *testing.T) {
	in := Input{Text: "Menene wannan?", ImageData: []byte{1}, ImageName: "x.png"}
	res := Compose(context.Background(), in, nil)

	if res.Channel != ChannelImage {
		t.Fatalf("channel = %q, want %q", res.Channel, ChannelImage)
	}
	if res.Parts[0].MIME != "image/png" {
		t.Fatalf("mime = %q, want image/png", res.Parts[0].MIME)
	}
	if res.Parts[1].Text != "Menene wannan?" {
		t.Fatalf("caption = %q, want user prompt", res.Parts[1].Text)
	}
	if res.Label != "[Image Uploaded: Menene wannan?]" {
		t.Fatalf("label = %q", res.Label)
	}

	res = Compose(context.Background(), Input{ImageData: []byte{1}, ImageName: "x.bin"}, nil)
	if res.Parts[0].MIME != "image/jpeg" {
		t.Fatalf("default mime = %q, want image/jpeg", res.Parts[0].MIME)
	}
	if res.Parts[1].Text != imageInstruction {
		t.Fatalf("caption = %q, want default instruction", res.Parts[1].Text)
	}
}

func TestSearchAugmentedText(t *testing.T) {
	search := &fakeSearcher{results: "WEB SEARCH RESULTS:\n- fact", ok: true}
	in := Input{Text: "Wanene shugaban Ghana?", Search: true, MaxResults: 3}
	res := Compose(context.Background(), in, search)

	if res.Channel != ChannelSearch {
		t.Fatalf("channel = %q, want %q", res.Channel, ChannelSearch)
	}
	if search.calls != 1 {
		t.Fatalf("search calls = %d, want 1", search.calls)
	}
	if !strings.HasPrefix(res.Parts[0].Text, "WEB SEARCH RESULTS") {
		t.Fatalf("results block should be prepended, got %q", res.Parts[0].Text)
	}
	if !strings.HasSuffix(res.Parts[0].Text, "USER QUESTION: Wanene shugaban Ghana?") {
		t.Fatalf("question should follow results, got %q", res.Parts[0].Text)
	}
	if res.Label != "[Searched: Wanene shugaban Ghana?]" {
		t.Fatalf("label = %q", res.Label)
	}
}

func TestSearchUnavailableFallsBackToPlainText(t *testing.T) {
	search := &fakeSearcher{ok: false}
	in := Input{Text: "hello", Search: true}
	res := Compose(context.Background(), in, search)

	if res.Channel != ChannelText {
		t.Fatalf("channel = %q, want plain text fallback", res.Channel)
	}
	if res.Parts[0].Text != "hello" {
		t.Fatalf("text = %q, want passthrough", res.Parts[0].Text)
	}
	if res.Label != "hello" {
		t.Fatalf("label = %q, want raw text", res.Label)
	}
}

func TestPlainTextAllowsEmptyInput(t *testing.T) {
	res := Compose(context.Background(), Input{}, nil)
	if len(res.Parts) != 1 || res.Parts[0].Text != "" {
		t.Fatalf("empty input should still yield one empty text part, got %+v", res.Parts)
	}
}

func TestReasoningAppendsInstructionOnEveryChannel(t *testing.T) {
	cases := []Input{
		{DocumentText: "doc", Reasoning: true},
		{AudioData: []byte{1}, Reasoning: true},
		{ImageData: []byte{1}, ImageName: "a.png", Reasoning: true},
		{Text: "hi", Reasoning: true},
	}
	for _, in := range cases {
		res := Compose(context.Background(), in, nil)
		last := res.Parts[len(res.Parts)-1]
		if last.Text != reasoningInstruction {
			t.Fatalf("channel %q: last part = %q, want reasoning instruction", res.Channel, last.Text)
		}
	}
}
