package profanity

import (
	"regexp"
	"strings"
)

var defaultBannedWords = []string{
	"asshole",
	"bastard",
	"bitch",
	"bullshit",
	"cunt",
	"dickhead",
	"fuck",
	"motherfucker",
	"shit",
	"wanker",
}

// Filter masks banned words in chat messages. Matching is case-insensitive
// and tolerant of common leetspeak substitutions.
type Filter struct {
	regex *regexp.Regexp
}

func NewFilter(words ...string) *Filter {
	if len(words) == 0 {
		words = defaultBannedWords
	}

	patterns := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		patterns = append(patterns, regexp.QuoteMeta(strings.ToLower(w)))
	}

	return &Filter{
		regex: regexp.MustCompile(`(?i)\b(` + strings.Join(patterns, "|") + `)\b`),
	}
}

var leetReplacer = strings.NewReplacer(
	"@", "a", "4", "a",
	"3", "e",
	"1", "i", "!", "i",
	"0", "o",
	"$", "s", "5", "s",
	"7", "t",
)

func normalize(text string) string {
	return leetReplacer.Replace(strings.ToLower(text))
}

func (f *Filter) Contains(text string) bool {
	if text == "" {
		return false
	}
	return f.regex.MatchString(normalize(text))
}

// Mask replaces each banned word with asterisks of the same length. The
// normalized text is scanned but replacement happens on the original, so
// leetspeak variants of the same length are masked in place.
func (f *Filter) Mask(text string) string {
	if text == "" {
		return text
	}

	normalized := normalize(text)
	out := []byte(text)
	for _, loc := range f.regex.FindAllStringIndex(normalized, -1) {
		for i := loc[0]; i < loc[1] && i < len(out); i++ {
			out[i] = '*'
		}
	}
	return string(out)
}
