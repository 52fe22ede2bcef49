package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns text as valid UTF-8 in NFKC form, so ligatures and compatibility
// characters ("ﬁ", full-width letters, non-breaking spaces) compare like plain letters.
// Invalid UTF-8 sequences are replaced with the replacement character.
func Normalize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\ufffd")
	}
	return norm.NFKC.String(text)
}
