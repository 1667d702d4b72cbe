package directory

import "regexp"

var (
	namePairPattern    = regexp.MustCompile(`([А-ЯЁ][а-яё]+)\s+([А-ЯЁ][а-яё]+)`)
	singleTokenPattern = regexp.MustCompile(`[А-ЯЁ][а-яё]+`)
)

// ExtractName pulls the leftmost pair of consecutive capitalized Cyrillic
// tokens out of the text. No attempt is made to disambiguate when several
// pairs are present.
func ExtractName(text string) (firstName, lastName string, ok bool) {
	match := namePairPattern.FindStringSubmatch(text)
	if match == nil {
		return "", "", false
	}

	return match[1], match[2], true
}

// ExtractToken pulls the leftmost single capitalized Cyrillic token.
func ExtractToken(text string) (string, bool) {
	token := singleTokenPattern.FindString(text)
	return token, token != ""
}

// ExtractEmail pulls the first email-shaped substring out of the text.
// Matching is case-insensitive; the original casing is preserved.
func ExtractEmail(text string) (string, bool) {
	email := emailPattern.FindString(text)
	return email, email != ""
}
