// Package persona derives the system instruction steering tone, honorifics,
// and task behavior from the user's context attributes.
package persona

import "fmt"

// Context describes one request's persona parameters. Derivations are pure;
// the same context always yields the same prompt.
type Context struct {
	Age       string // adult, elder, youth
	Gender    string // male, female
	Mode      string // chat, teacher, vision, ...
	Reasoning bool
	Search    bool
}

// Honorifics returns the address forms for the age/gender pair.
func Honorifics(age, gender string) string {
	switch age {
	case "elder":
		if gender == "male" {
			return "Ranka ya daɗe / Baba"
		}
		return "Hajiya / Mama"
	case "youth":
		return "Abokina / Ɗan'uwa"
	default:
		return "Mallam / Malama"
	}
}

// SystemPrompt builds the full system instruction. Branch order is fixed:
// search wins over reasoning, which wins over vision, teacher, then chat.
func SystemPrompt(pc Context) string {
	persona := "You are 'Magana', a wise Hausa AI."
	var task string

	switch {
	case pc.Search:
		persona += " You are in RESEARCH MODE (Mai Bincike)."
		task = `TASK:
1. Use the WEB SEARCH RESULTS provided to answer the user.
2. If asking for NEWS: Summarize key points in Hausa bullet points.
3. If asking for EXPLANATION: Explain simply (like for a 10-year-old).
4. Cite sources where possible.`
	case pc.Reasoning:
		persona += " You are in DEEP THINKING MODE."
		task = `TASK:
1. Break down the logic step-by-step (Mataki-mataki).
2. Analyze pros/cons.
3. Explain the 'Why' (Dalili).`
	case pc.Mode == "vision":
		persona += " You are in VISION MODE (Mai Gani)."
		task = `TASK:
1. Describe the image provided in Hausa with cultural context.
2. Identify objects, colors, and the general mood.
3. If there is text in the image, transcribe and translate it to Hausa.`
	case pc.Mode == "teacher":
		persona = "You are 'Malam Magana', a teacher."
		task = "TASK: Educate clearly using proverbs."
	default:
		task = "TASK: Chat naturally with cultural respect."
	}

	return fmt.Sprintf(`%s
USER: %s (%s). Honorifics: %s.

RULES:
1. Greeting is MANDATORY on first turn.
2. Maintain Context (Memory).
3. Use Hausa Proverbs (Karin Magana).

%s

OUTPUT JSON:
{"transcription": "...", "reply_text": "...", "english_translation": "...", "proverb_used": "...", "steps": [], "analysis": "...", "intent": "..."}`,
		persona, pc.Age, pc.Gender, Honorifics(pc.Age, pc.Gender), task)
}
