package ssml

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// tagRe matches one markup tag, tolerating quoted attribute values that
// contain '>'.
var tagRe = regexp.MustCompile(`^<("[^"]*"|'[^']*'|[^'">])*>`)

// ConsumeWhitespace measures the whitespace prefix of text. Characters and
// bytes are counted separately because the view may contain multi-byte
// characters and downstream offsets are byte offsets into the original
// buffer.
func ConsumeWhitespace(text string) (chars, bytes int) {
	for _, r := range text {
		if !unicode.IsSpace(r) {
			break
		}
		chars++
		bytes += utf8.RuneLen(r)
	}
	return chars, bytes
}

// ConsumeWhitespaceAndTags measures the prefix of text made up of any mix of
// whitespace and markup tags, stopping at the first spoken character. This
// is the SSML-mode counterpart of ConsumeWhitespace: between two spoken
// tokens the raw markup view may hold closing and opening tags in addition
// to whitespace, and all of it has to be accounted for byte-exactly.
func ConsumeWhitespaceAndTags(text string) (chars, bytes int) {
	rest := text
	for {
		wc, wb := ConsumeWhitespace(rest)
		chars += wc
		bytes += wb
		rest = rest[wb:]

		tag := tagRe.FindString(rest)
		if tag == "" {
			return chars, bytes
		}
		chars += utf8.RuneCountInString(tag)
		bytes += len(tag)
		rest = rest[len(tag):]
	}
}
