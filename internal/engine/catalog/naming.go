package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// oneCLanguageID is the only highlight.js id that does not camel-case into a
// valid identifier.
const oneCLanguageID = "1c"

// ImportName returns the import-safe identifier for a language id.
func ImportName(languageID string) string {
	if languageID == oneCLanguageID {
		return "oneC"
	}
	return CamelCase(languageID)
}

// CamelCase converts separated or humped text into lowerCamelCase.
// "vbscript-html" -> "vbscriptHtml", "FooBar" -> "fooBar", "HTMLParser" -> "hTMLParser".
func CamelCase(s string) string {
	words := splitWords(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, word := range words {
		if i == 0 {
			b.WriteString(word)
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}
	return b.String()
}

func splitWords(s string) []string {
	if !hasSeparator(s) && hasCamelHump(s) {
		s = splitHumps(s)
	}
	return strings.FieldsFunc(strings.ToLower(s), isSeparator)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func hasSeparator(s string) bool {
	return strings.IndexFunc(s, isSeparator) >= 0
}

func hasCamelHump(s string) bool {
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			if unicode.IsLower(prev) && unicode.IsUpper(r) {
				return true
			}
			if unicode.IsUpper(prev) && unicode.IsLower(r) {
				return true
			}
		}
		prev = r
	}
	return false
}

// splitHumps puts a space before every upper-case rune that follows another
// rune, so an acronym run splits into single letters: "HTMLParser" becomes
// "H T M L Parser".
func splitHumps(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(runes); i++ {
		b.WriteRune(runes[i])
		for i+1 < len(runes) && unicode.IsUpper(runes[i+1]) {
			i++
			b.WriteByte(' ')
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}
