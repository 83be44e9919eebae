// Package entity extracts labeled spans (person names, location tokens) from
// raw message text. The dialog layer consumes the Extractor interface so a
// real NER service can be plugged in; Heuristic is the default implementation
// and is deliberately shallow.
package entity

import (
	"strings"
	"unicode"
)

// Span categories.
const (
	CategoryPerson   = "PERSON"
	CategoryLocation = "LOCATION"
)

// Span is a labeled fragment of the input text.
type Span struct {
	Text     string
	Category string
}

// Extractor produces labeled spans from raw text.
type Extractor interface {
	Extract(text string) []Span
}

// ScanFromTo is the explicit "from X to Y" strategy, tried before generic
// location extraction. It returns the tokens immediately following the first
// "from" and the first "to". Both keywords must be present and each must be
// followed by a token; the bounds are checked explicitly because "from" or
// "to" as the final word is a legal message.
func ScanFromTo(text string) (start, end string, ok bool) {
	tokens := Tokenize(text)
	fromIdx, toIdx := -1, -1
	for i, tok := range tokens {
		switch strings.ToLower(tok) {
		case "from":
			if fromIdx == -1 {
				fromIdx = i
			}
		case "to":
			if toIdx == -1 {
				toIdx = i
			}
		}
	}
	if fromIdx == -1 || toIdx == -1 {
		return "", "", false
	}
	if fromIdx+1 >= len(tokens) || toIdx+1 >= len(tokens) {
		return "", "", false
	}
	return tokens[fromIdx+1], tokens[toIdx+1], true
}

// ScanAfter returns the token following the first occurrence of the keyword,
// if any. Used by the dialog layer to pick up a start location from replies
// like "from AB1_ENTRANCE".
func ScanAfter(text, keyword string) (string, bool) {
	tokens := Tokenize(text)
	for i, tok := range tokens {
		if strings.EqualFold(tok, keyword) && i+1 < len(tokens) {
			return tokens[i+1], true
		}
	}
	return "", false
}

// Tokenize splits text on whitespace and strips surrounding punctuation while
// preserving the underscores and hyphens used in location codes.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Heuristic is a dependency-free extractor. Location spans are tokens that
// look like campus codes (a letter prefix followed by digits, or containing
// an underscore, e.g. "AB1_303"). Person spans are runs of capitalized
// alphabetic tokens that are not common question words ("Aayush Sharma").
type Heuristic struct{}

func (Heuristic) Extract(text string) []Span {
	tokens := Tokenize(text)
	var spans []Span

	var pending []string
	flush := func() {
		if len(pending) > 0 {
			spans = append(spans, Span{Text: strings.Join(pending, " "), Category: CategoryPerson})
			pending = nil
		}
	}

	for _, tok := range tokens {
		if isLocationToken(tok) {
			flush()
			spans = append(spans, Span{Text: tok, Category: CategoryLocation})
			continue
		}
		if isNameToken(tok) {
			pending = append(pending, tok)
			continue
		}
		flush()
	}
	flush()

	return spans
}

func isLocationToken(tok string) bool {
	if strings.ContainsAny(tok, "_") {
		return true
	}
	hasLetter, hasDigit := false, false
	for _, r := range tok {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// questionWords are capitalized tokens that routinely start requests and must
// not be mistaken for name fragments.
var questionWords = map[string]struct{}{
	"who": {}, "what": {}, "where": {}, "when": {}, "how": {}, "why": {},
	"is": {}, "are": {}, "the": {}, "a": {}, "an": {}, "of": {}, "on": {},
	"i": {}, "me": {}, "my": {}, "you": {}, "please": {}, "tell": {},
	"find": {}, "show": {}, "give": {}, "details": {}, "information": {},
	"teacher": {}, "professor": {}, "faculty": {}, "about": {},
	"navigate": {}, "from": {}, "to": {}, "can": {}, "do": {}, "does": {},
}

func isNameToken(tok string) bool {
	runes := []rune(tok)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	_, common := questionWords[strings.ToLower(tok)]
	return !common
}
