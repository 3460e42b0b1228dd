package importer

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// The emoji every folder page gets.
const FolderIcon = "📁"

// SentenceCase splits s into words (on punctuation, whitespace and camelCase humps), lowercases
// them and capitalises the first: "gettingStarted_guide" becomes "Getting started guide".
func SentenceCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}

	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	words[0] = cases.Title(language.Und).String(words[0])

	return strings.Join(words, " ")
}

func splitWords(s string) []string {
	words := []string{}
	var current []rune
	var prev rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}

	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && len(current) > 0 && unicode.IsLower(prev):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
		prev = r
	}
	flush()

	return words
}

func unescape(segment string) string {
	if s, err := url.PathUnescape(segment); err == nil {
		return s
	}
	return segment
}

// FolderTitle is the title of the folder page for a path segment.
func FolderTitle(segment string) string {
	raw := unescape(segment)
	if title := SentenceCase(raw); title != "" {
		return title
	}
	return raw
}

// DocumentTitle is the title of the page created from a file name.
func DocumentTitle(filename string) string {
	raw := unescape(filename)
	raw = strings.TrimSuffix(raw, path.Ext(raw))
	if title := SentenceCase(raw); title != "" {
		return title
	}
	return raw
}

// splitPath breaks a slash separated relative path into its directory segments and file name.
func splitPath(file string) ([]string, string) {
	parts := strings.Split(path.Clean(file), "/")
	segments := []string{}
	for _, p := range parts[:len(parts)-1] {
		if p != "" && p != "." {
			segments = append(segments, p)
		}
	}
	return segments, parts[len(parts)-1]
}
