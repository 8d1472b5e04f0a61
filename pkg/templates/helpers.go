package templates

import (
	"strings"
	"unicode/utf8"
)

// TelegramMessageLimit is the maximum length of a Telegram message
const TelegramMessageLimit = 4096

var markdownV2Replacer = strings.NewReplacer(
	"\\", "\\\\", // backslash first
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMarkdownV2 escapes every character Telegram MarkdownV2 reserves
// outside code and link entities.
func EscapeMarkdownV2(text string) string {
	return markdownV2Replacer.Replace(text)
}

// SafeTextV2 drops invalid UTF-8 and escapes MarkdownV2 characters
func SafeTextV2(text string) string {
	return EscapeMarkdownV2(strings.ToValidUTF8(text, ""))
}

// AnalystMarkdownToV2 converts the analyst's **bold** markdown into
// Telegram MarkdownV2, escaping everything else.
func AnalystMarkdownToV2(text string) string {
	parts := strings.Split(strings.ToValidUTF8(text, ""), "**")
	var b strings.Builder
	for i, part := range parts {
		escaped := EscapeMarkdownV2(part)
		// odd segments sit between a pair of ** markers
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString("*" + escaped + "*")
			continue
		}
		if i%2 == 1 {
			b.WriteString("\\*\\*")
		}
		b.WriteString(escaped)
	}
	return b.String()
}

// AnalystMarkdownToV2Limit converts like AnalystMarkdownToV2 but keeps the
// result within limit runes. The raw text is cut before escaping so the cut
// never splits an escape sequence or a bold pair.
func AnalystMarkdownToV2Limit(text string, limit int) string {
	out := AnalystMarkdownToV2(text)
	if limit <= 0 || utf8.RuneCountInString(out) <= limit {
		return out
	}

	runes := []rune(strings.ToValidUTF8(text, ""))
	fits := func(n int) (string, bool) {
		candidate := AnalystMarkdownToV2(string(runes[:n])) + "…"
		return candidate, utf8.RuneCountInString(candidate) <= limit
	}

	// lo always fits, hi never does
	lo, hi := 0, len(runes)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if _, ok := fits(mid); ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	best, _ := fits(lo)
	return best
}
