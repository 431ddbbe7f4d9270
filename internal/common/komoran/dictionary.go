// internal/common/komoran/dictionary.go
package komoran

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entry is one user-dictionary word. Surface is matched in the input and
// Lemma is what the tokenizer emits (Surface when empty).
type Entry struct {
	Surface string
	Lemma   string
	Tag     string
}

// adjectiveForms maps common conjugations of irregular stems back to the stem.
var adjectiveForms = map[string][]string{
	"춥": {"춥다", "추워", "추운", "춥네", "추워요", "춥나"},
	"덥": {"덥다", "더워", "더운", "덥네", "더워요", "덥나"},
}

var verbStems = map[string]bool{
	"잘가": true,
}

// suffixes are particles and endings allowed to trail a dictionary word
// inside one eojeol.
var suffixes = map[string]string{
	"은": TagParticle, "는": TagParticle, "이": TagParticle, "가": TagParticle,
	"을": TagParticle, "를": TagParticle, "의": TagParticle, "에": TagParticle,
	"에서": TagParticle, "도": TagParticle, "로": TagParticle, "으로": TagParticle,
	"와": TagParticle, "과": TagParticle, "랑": TagParticle, "이랑": TagParticle,
	"만": TagParticle, "요": TagParticle,
	"야": TagEnding, "이야": TagEnding, "예요": TagEnding, "이에요": TagEnding,
	"인가요": TagEnding, "인가": TagEnding, "냐": TagEnding, "니": TagEnding,
	"어때": TagEnding, "어때요": TagEnding, "알려줘": TagEnding, "좀": TagEnding,
	"해": TagEnding, "해요": TagEnding, "하세요": TagEnding, "해줘": TagEnding,
	"다": TagEnding, "네": TagEnding,
}

// Dictionary is an in-process tokenizer driven by a user dictionary. Words are
// matched at the start of each eojeol; a match only counts when the rest of the
// eojeol is another dictionary word or a known particle/ending. Anything else
// becomes a single NNG (Hangul), SL, SN or NA token.
type Dictionary struct {
	entries map[string]Entry
	maxLen  int
}

func NewDictionary(entries ...Entry) *Dictionary {
	d := &Dictionary{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Surface == "" {
			continue
		}
		if e.Lemma == "" {
			e.Lemma = e.Surface
		}
		d.entries[e.Surface] = e
		if n := utf8.RuneCountInString(e.Surface); n > d.maxLen {
			d.maxLen = n
		}
	}
	return d
}

// PlaceEntries tags place names as proper nouns.
func PlaceEntries(places []string) []Entry {
	out := make([]Entry, 0, len(places))
	for _, p := range places {
		out = append(out, Entry{Surface: p, Tag: TagProperNoun})
	}
	return out
}

// KeywordEntries tags intent keywords: known adjective stems as VA (with their
// conjugations), known verb stems as VV and everything else as NNG.
func KeywordEntries(keywords []string) []Entry {
	out := make([]Entry, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		switch {
		case adjectiveForms[kw] != nil:
			out = append(out, Entry{Surface: kw, Tag: TagAdjective})
			for _, form := range adjectiveForms[kw] {
				out = append(out, Entry{Surface: form, Lemma: kw, Tag: TagAdjective})
			}
		case verbStems[kw]:
			out = append(out, Entry{Surface: kw, Tag: TagVerb})
		default:
			out = append(out, Entry{Surface: kw, Tag: TagNoun})
		}
	}
	return out
}

func (d *Dictionary) Tokenize(ctx context.Context, text string) ([]Morpheme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Morpheme
	for _, word := range strings.Fields(text) {
		body, trailing := splitTrailingPunct(word)
		if body != "" {
			out = append(out, d.tokenizeWord(body)...)
		}
		for _, r := range trailing {
			out = append(out, Morpheme{Surface: string(r), Tag: TagSymbol})
		}
	}
	return out, nil
}

func (d *Dictionary) tokenizeWord(word string) []Morpheme {
	if ms, ok := d.segment(strings.ToLower(word)); ok {
		return ms
	}
	return []Morpheme{{Surface: word, Tag: classify(word)}}
}

// segment splits word into dictionary words followed by at most one suffix.
// Longest match first, backtracking to shorter ones.
func (d *Dictionary) segment(word string) ([]Morpheme, bool) {
	runes := []rune(word)
	limit := d.maxLen
	if limit > len(runes) {
		limit = len(runes)
	}

	for n := limit; n > 0; n-- {
		e, ok := d.entries[string(runes[:n])]
		if !ok {
			continue
		}
		head := Morpheme{Surface: e.Lemma, Tag: e.Tag}
		rest := string(runes[n:])
		if rest == "" {
			return []Morpheme{head}, true
		}
		if tag, ok := suffixes[rest]; ok {
			return []Morpheme{head, {Surface: rest, Tag: tag}}, true
		}
		if tail, ok := d.segment(rest); ok {
			return append([]Morpheme{head}, tail...), true
		}
	}
	return nil, false
}

func splitTrailingPunct(word string) (string, string) {
	end := len(word)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(word[:end])
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			break
		}
		end -= size
	}
	return word[:end], word[end:]
}

func classify(word string) string {
	var hangul, digit, latin int
	for _, r := range word {
		switch {
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.IsDigit(r):
			digit++
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			latin++
		}
	}
	total := utf8.RuneCountInString(word)
	switch {
	case hangul > 0:
		return TagNoun
	case digit == total:
		return TagNumber
	case latin > 0:
		return TagForeign
	default:
		return TagUnknown
	}
}
