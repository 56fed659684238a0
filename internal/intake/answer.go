package intake

import (
	"strings"
	"unicode"
)

var (
	positiveWords = []string{"yes", "sure", "yeah", "yep", "abnormal", "positive"}
	negativeWords = []string{"no", "nope", "nah", "normal", "negative"}
)

// ParseAnswer maps a free-text reply onto a value of domain. A reply that
// names a state exactly wins; otherwise an affirmative word selects the first
// state and a negative word the last. Affirmatives are checked first, so
// "yes, no fever" reads as yes.
func ParseAnswer(text string, domain []string) (string, bool) {
	if len(domain) == 0 {
		return "", false
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_'
	})
	if len(words) == 0 {
		return "", false
	}

	for _, w := range words {
		for _, s := range domain {
			if w == s {
				return s, true
			}
		}
	}
	if containsAny(words, positiveWords) {
		return domain[0], true
	}
	if containsAny(words, negativeWords) {
		return domain[len(domain)-1], true
	}
	return "", false
}

func containsAny(words, vocabulary []string) bool {
	for _, w := range words {
		for _, v := range vocabulary {
			if w == v {
				return true
			}
		}
	}
	return false
}
