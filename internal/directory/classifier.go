// Package directory implements the query classification and multi-strategy
// employee resolution pipeline: deciding whether a free-text message is a
// directory lookup, pulling name/email entities out of it and resolving them
// against the employee repository through an ordered strategy chain.
package directory

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxImplicitQueryLen bounds the bare proper-name heuristic: longer texts are
// treated as regular sentences even if they start with capitalized words.
const maxImplicitQueryLen = 100

// employeeKeywords is the fixed keyword set that admits a message into the
// directory pipeline. Matching is substring-based on the lowercased text.
var employeeKeywords = []string{
	"сотрудник", "сотрудница",
	"директор", "руководитель",
	"бухгалтер", "главбух", "главный бухгалтер",
	"отдел", "подразделение", "бухгалтерия",
	"должность", "должност",
	"почта", "email", "e-mail", "мейл",
	"телефон", "контакт",
	"день рождения", "день рождени", "др",
}

var (
	emailPattern    = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	bareNamePattern = regexp.MustCompile(`^[А-ЯЁ][а-яё]+(?:\s+[А-ЯЁ][а-яё]+)+$`)

	positionQuestionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)кто\s+(по\s+)?должности`),
		regexp.MustCompile(`(?i)какая\s+должность`),
		regexp.MustCompile(`(?i)чь[аяё]\s+должность`),
		regexp.MustCompile(`(?i)должность\s+\w+`),
	}
)

// IsDirectoryQuery reports whether the message may concern the employee
// directory. It is the single cheap admission gate run before any entity
// extraction or store access, and it is pure.
func IsDirectoryQuery(text string) bool {
	if text == "" {
		return false
	}

	low := strings.ToLower(strings.TrimSpace(text))

	for _, keyword := range employeeKeywords {
		if strings.Contains(low, keyword) {
			return true
		}
	}

	if emailPattern.MatchString(text) {
		return true
	}

	// A short non-command message shaped like "Имя Фамилия" is an implicit
	// query even without any keyword.
	if !strings.HasPrefix(text, "/") && utf8.RuneCountInString(text) < maxImplicitQueryLen {
		if bareNamePattern.MatchString(strings.TrimSpace(text)) {
			return true
		}
	}

	for _, pattern := range positionQuestionPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	return false
}
