// Package titlematch compares movie titles typed by a person against
// titles returned by the catalog.
package titlematch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// roman matches II-IX after a space. A bare "I" or "X" and numerals at
// the start of a title are left alone ("I, Robot", "American History X").
var roman = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanValue = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

var articles = []string{"the ", "a ", "an "}

// Clean reduces a title to a comparable form: lower case, accents and
// punctuation removed, leading articles dropped, Roman sequel numbers
// converted to digits.
//
//	Clean("Léon: The Professional") == "leon professional"
func Clean(title string) string {
	s := strings.ToLower(title)
	s = roman.ReplaceAllStringFunc(s, func(m string) string {
		return " " + romanValue[strings.TrimSpace(m)]
	})
	s = foldAccents(s)

	s = strings.NewReplacer("&", " and ", "-", " ", "'", "", "’", "", ".", " ").Replace(s)

	// Each subtitle part may carry its own article.
	parts := strings.Split(s, ":")
	for i, p := range parts {
		parts[i] = dropArticle(strings.TrimSpace(p))
	}
	s = strings.Join(parts, " ")

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func dropArticle(s string) string {
	for _, a := range articles {
		if rest, ok := strings.CutPrefix(s, a); ok {
			return rest
		}
	}
	return s
}
