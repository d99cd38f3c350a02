package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxCodePoint is the largest value a pattern can express as a character.
const maxCodePoint = utf8.MaxRune

// GroupName maps a rule name to the name used for its pattern group:
// lower case with '-' replaced by '_'.
func GroupName(rule string) string {
	return strings.ReplaceAll(strings.ToLower(rule), "-", "_")
}

// literal renders a char-val. Case-insensitive values containing letters
// are wrapped in (?i:...).
func literal(contents string, caseSensitive bool) (string, bool) {
	quoted := regexp.QuoteMeta(contents)
	if !caseSensitive && hasLetter(contents) {
		return "(?i:" + quoted + ")", true
	}
	return quoted, utf8.RuneCountInString(contents) == 1
}

func hasLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c >= 'a' && c <= 'z' {
			return true
		}
	}
	return false
}

func codePoint(n uint64) string {
	return `\x{` + strings.ToUpper(strconv.FormatUint(n, 16)) + `}`
}

// quantifier renders the suffix for a repetition of lo to hi times;
// bounded is false when there is no upper limit. Exactly once yields "".
func quantifier(lo, hi uint64, bounded bool) string {
	switch {
	case !bounded && lo == 0:
		return "*"
	case !bounded && lo == 1:
		return "+"
	case !bounded:
		return fmt.Sprintf("{%d,}", lo)
	case lo == 1 && hi == 1:
		return ""
	case lo == 0 && hi == 1:
		return "?"
	case lo == hi:
		return fmt.Sprintf("{%d}", lo)
	default:
		return fmt.Sprintf("{%d,%d}", lo, hi)
	}
}

// proseComment renders prose as a pattern comment. '%' and ')' are
// percent-encoded so the comment cannot end early.
func proseComment(text string) string {
	text = strings.ReplaceAll(text, "%", "%25")
	text = strings.ReplaceAll(text, ")", "%29")
	return "(?#prose:" + text + ")"
}
