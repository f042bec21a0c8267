package brain

// Localized fallback replies shown when the generative endpoint fails.
// The triggering condition is classified structurally; memory is never
// mutated on the fallback path.
const (
	fallbackNetwork   = "Yi hakuri, network na ɗan bada matsala. Da fatan za a sake gwadawa anjima."
	fallbackRateLimit = "Yi hakuri, mun cikata aiki da yawa. Da fatan za a ɗan jira kaɗan."
	fallbackAuth      = "An kasa samun damar LLM endpoint. Duba saitunan sabar."

	fallbackProverb = "Hakuri maganin zaman duniya."
	fallbackEnglish = "Sorry, there is a network issue. Please try again later."
)

// FallbackReply maps a provider failure to its localized user-facing reply.
func FallbackReply(err error) Reply {
	text := fallbackNetwork
	switch {
	case IsRateLimited(err):
		text = fallbackRateLimit
	case IsAuthFailure(err):
		text = fallbackAuth
	}

	return Reply{
		ReplyText:          text,
		EnglishTranslation: fallbackEnglish,
		ProverbUsed:        fallbackProverb,
		Steps:              []string{},
		Intent:             "error",
	}
}
