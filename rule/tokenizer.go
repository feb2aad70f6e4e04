package rule

import (
	"regexp"
	"unicode/utf8"
)

var regexps = []*regexp.Regexp{
	regexp.MustCompile(`^\(`),
	regexp.MustCompile(`^\)`),
	regexp.MustCompile(`^[0-9]+\.[0-9]+\b`),
	regexp.MustCompile(`^[\p{L}\p{N}_]+`),
	regexp.MustCompile(`^[<>=]+`),
	regexp.MustCompile(`^'[^']*'`),
}

type tokenizer struct {
	rule   string
	cursor int
}

func newTokenizer(rule string) *tokenizer {
	return &tokenizer{rule: rule}
}

// next returns the next lexeme, or false once the input is exhausted.
// Characters outside every lexeme class are skipped.
func (t *tokenizer) next() (string, bool) {
	for t.cursor < len(t.rule) {
		s := t.rule[t.cursor:]

		for _, r := range regexps {
			if match := r.FindString(s); match != "" {
				t.cursor += len(match)
				return match, true
			}
		}

		_, size := utf8.DecodeRuneInString(s)
		t.cursor += size
	}

	return "", false
}

// Tokenize splits a rule into its raw lexemes: parentheses, decimal numbers,
// words, runs of comparison characters and single-quoted literals, quotes
// included.
func Tokenize(rule string) []string {
	t := newTokenizer(rule)

	lexemes := make([]string, 0)
	for {
		lexeme, ok := t.next()
		if !ok {
			break
		}

		lexemes = append(lexemes, lexeme)
	}

	return lexemes
}
