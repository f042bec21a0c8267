package persona

import (
	"strings"
	"testing"
)

func TestHonorifics(t *testing.T) {
	cases := []struct {
		age, gender string
		want        string
	}{
		{"elder", "male", "Ranka ya daɗe / Baba"},
		{"elder", "female", "Hajiya / Mama"},
		{"youth", "male", "Abokina / Ɗan'uwa"},
		{"youth", "female", "Abokina / Ɗan'uwa"},
		{"adult", "male", "Mallam / Malama"},
		{"adult", "female", "Mallam / Malama"},
	}
	for _, tc := range cases {
		if got := Honorifics(tc.age, tc.gender); got != tc.want {
			t.Fatalf("Honorifics(%q, %q) = %q, want %q", tc.age, tc.gender, got, tc.want)
		}
	}
}

func TestSystemPromptBranchOrder(t *testing.T) {
	// Search wins even when reasoning and vision would also match.
	p := SystemPrompt(Context{Age: "adult", Gender: "male", Mode: "vision", Reasoning: true, Search: true})
	if !strings.Contains(p, "RESEARCH MODE") {
		t.Fatalf("search context should select research persona, got:\n%s", p)
	}
	if strings.Contains(p, "DEEP THINKING MODE") || strings.Contains(p, "VISION MODE") {
		t.Fatalf("research persona should exclude lower-priority branches")
	}

	p = SystemPrompt(Context{Age: "adult", Gender: "male", Mode: "vision", Reasoning: true})
	if !strings.Contains(p, "DEEP THINKING MODE") {
		t.Fatalf("reasoning should win over vision, got:\n%s", p)
	}

	p = SystemPrompt(Context{Age: "adult", Gender: "male", Mode: "vision"})
	if !strings.Contains(p, "VISION MODE") {
		t.Fatalf("vision mode should select vision persona")
	}

	p = SystemPrompt(Context{Age: "adult", Gender: "male", Mode: "teacher"})
	if !strings.Contains(p, "Malam Magana") {
		t.Fatalf("teacher mode should select teacher persona")
	}

	p = SystemPrompt(Context{Age: "adult", Gender: "male", Mode: "chat"})
	if !strings.Contains(p, "Chat naturally") {
		t.Fatalf("default mode should select chat persona")
	}
}

func TestSystemPromptSharedFooter(t *testing.T) {
	p := SystemPrompt(Context{Age: "elder", Gender: "female", Mode: "chat"})

	for _, want := range []string{
		"Hajiya / Mama",
		"Greeting is MANDATORY on first turn",
		"Karin Magana",
		`"reply_text"`,
		`"english_translation"`,
		`"proverb_used"`,
		`"steps"`,
		`"analysis"`,
		`"intent"`,
		`"transcription"`,
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestSystemPromptIsDeterministic(t *testing.T) {
	pc := Context{Age: "youth", Gender: "male", Mode: "chat", Reasoning: true}
	if SystemPrompt(pc) != SystemPrompt(pc) {
		t.Fatalf("SystemPrompt should be a pure function of its context")
	}
}
