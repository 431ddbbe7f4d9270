// internal/workers/conversation/normalize-message/normalizer.go
package normalizemessage

import (
	"strings"
	"unicode"

	"lasa-chatbot/internal/models"

	"golang.org/x/text/unicode/norm"
)

const combiningKeycap = '\u20e3'

// Normalizer cleans raw user text before analysis.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize composes the text to NFC, drops characters that are not letters,
// marks, numbers, whitespace or punctuation (emoji, pictographs, control
// characters), collapses whitespace runs to one space and trims the ends.
// A nil request yields an empty message.
func (n *Normalizer) Normalize(req *models.ChatRequest) models.NormalizedMessage {
	if req == nil {
		return models.NormalizedMessage{}
	}
	return models.NewNormalizedMessage(Clean(req.Message))
}

// Clean is Normalize on a bare string.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	composed := norm.NFC.String(raw)

	var b strings.Builder
	b.Grow(len(composed))
	pendingSpace := false
	for _, r := range composed {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
			continue
		case !keep(r):
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func keep(r rune) bool {
	switch {
	case unicode.Is(unicode.Variation_Selector, r), r == combiningKeycap:
		// emoji presentation parts
		return false
	case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsNumber(r), unicode.IsPunct(r):
		return true
	case r < unicode.MaxASCII && unicode.IsSymbol(r):
		// ASCII symbols such as + < = > ^ ` | ~ $ count as punctuation
		return true
	}
	return false
}
