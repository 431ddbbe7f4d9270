// internal/workers/analysis/rule-analyzer/analyzer_test.go
package ruleanalyzer

import (
	"context"
	"errors"
	"testing"

	"lasa-chatbot/internal/common/config"
	"lasa-chatbot/internal/common/komoran"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/models"

	"github.com/stretchr/testify/assert"
)

var testCities = []string{"서울", "부산", "대구", "제주"}

// ==========================
// Test tokenizers
// ==========================

type fixedTokenizer struct {
	tokens []komoran.Morpheme
	err    error
	panic  bool
}

func (f *fixedTokenizer) Tokenize(ctx context.Context, text string) ([]komoran.Morpheme, error) {
	if f.panic {
		panic("tokenizer exploded")
	}
	return f.tokens, f.err
}

func m(surface, tag string) komoran.Morpheme {
	return komoran.Morpheme{Surface: surface, Tag: tag}
}

func createTestAnalyzer(t *testing.T, tok komoran.Tokenizer) *Analyzer {
	return NewAnalyzer(LoadConfig(), tok, testCities, logger.NewTestLogger(t))
}

// ==========================
// Intent and confidence
// ==========================

func TestAnalyzer_Analyze(t *testing.T) {
	tests := []struct {
		name           string
		tokens         []komoran.Morpheme
		wantIntent     string
		wantConfidence float64
		wantLocation   string
	}{
		{
			name:           "weather with city",
			tokens:         []komoran.Morpheme{m("서울", "NNP"), m("날씨", "NNG"), m("어때", "EF")},
			wantIntent:     "weather",
			wantConfidence: 0.65,
			wantLocation:   "서울",
		},
		{
			name:           "two weather keywords, default city",
			tokens:         []komoran.Morpheme{m("비", "NNG"), m("오", "VV"), m("날씨", "NNG")},
			wantIntent:     "weather",
			wantConfidence: 0.8,
			wantLocation:   "서울",
		},
		{
			name:           "several cities are joined",
			tokens:         []komoran.Morpheme{m("서울", "NNP"), m("부산", "NNP"), m("날씨", "NNG"), m("서울", "NNP")},
			wantIntent:     "weather",
			wantConfidence: 0.65,
			wantLocation:   "서울,부산",
		},
		{
			name:           "jeju alias",
			tokens:         []komoran.Morpheme{m("제주도", "NNP"), m("날씨", "NNG")},
			wantIntent:     "weather",
			wantConfidence: 0.65,
			wantLocation:   "제주도",
		},
		{
			name:           "proper noun outside gazetteer",
			tokens:         []komoran.Morpheme{m("강남", "NNP"), m("날씨", "NNG")},
			wantIntent:     "weather",
			wantConfidence: 0.65,
			wantLocation:   "서울",
		},
		{
			name:           "tie goes to the earlier row",
			tokens:         []komoran.Morpheme{m("안녕", "NNG"), m("날씨", "NNG")},
			wantIntent:     "weather",
			wantConfidence: 0.65,
			wantLocation:   "서울",
		},
		{
			name:           "confidence counts keywords of any tag",
			tokens:         []komoran.Morpheme{m("날씨", "NNG"), m("비", "JX")},
			wantIntent:     "weather",
			wantConfidence: 0.8,
			wantLocation:   "서울",
		},
		{
			name:           "confidence is capped",
			tokens:         []komoran.Morpheme{m("몇시", "NNG"), m("시간", "NNG"), m("시각", "NNG"), m("시간", "NNG")},
			wantIntent:     "time",
			wantConfidence: 1.0,
		},
		{
			name:           "adjective stem",
			tokens:         []komoran.Morpheme{m("오늘", "NNG"), m("춥", "VA"), m("어", "EC")},
			wantIntent:     "temperature",
			wantConfidence: 0.65,
		},
		{
			name:           "help keyword",
			tokens:         []komoran.Morpheme{m("도움말", "NNG")},
			wantIntent:     "help",
			wantConfidence: 0.65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := createTestAnalyzer(t, &fixedTokenizer{tokens: tt.tokens})
			result := a.Analyze(context.Background(), "message", "")

			assert.Equal(t, tt.wantIntent, result.Intent)
			assert.InDelta(t, tt.wantConfidence, result.Confidence, 1e-9)
			assert.Equal(t, "message", result.OriginalMessage)

			loc, ok := result.Entity("location")
			if tt.wantLocation == "" {
				assert.False(t, ok)
			} else {
				assert.Equal(t, tt.wantLocation, loc)
			}
		})
	}
}

func TestAnalyzer_NoContentWordHits(t *testing.T) {
	tests := []struct {
		name   string
		tokens []komoran.Morpheme
	}{
		{"no tokens", nil},
		{"no keywords", []komoran.Morpheme{m("점심", "NNG"), m("뭐", "NP"), m("먹", "VV")}},
		{"keyword with non-content tag", []komoran.Morpheme{m("안녕", "IC")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := createTestAnalyzer(t, &fixedTokenizer{tokens: tt.tokens}).Analyze(context.Background(), "점심 뭐 먹지", "")
			assert.Equal(t, models.IntentFallback, result.Intent)
			assert.Equal(t, 0.0, result.Confidence)
			assert.Empty(t, result.Entities())
		})
	}
}

func TestAnalyzer_TableOrderBreaksTies(t *testing.T) {
	cfg := &Config{
		Keywords: []config.IntentKeywords{
			{Intent: "greeting", Keywords: []string{"안녕"}},
			{Intent: "weather", Keywords: []string{"날씨"}},
		},
		DefaultCity: "서울",
	}
	a := NewAnalyzer(cfg, &fixedTokenizer{tokens: []komoran.Morpheme{m("날씨", "NNG"), m("안녕", "NNG")}}, testCities, logger.NewNoOpLogger())

	assert.Equal(t, "greeting", a.Analyze(context.Background(), "날씨 안녕", "").Intent)
}

func TestAnalyzer_TokenizerFailures(t *testing.T) {
	tests := []struct {
		name string
		tok  *fixedTokenizer
	}{
		{"error", &fixedTokenizer{err: errors.New("analysis server down")}},
		{"panic", &fixedTokenizer{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := createTestAnalyzer(t, tt.tok).Analyze(context.Background(), "서울 날씨", "")
			assert.Equal(t, models.IntentError, result.Intent)
			assert.Equal(t, 0.0, result.Confidence)
			assert.Equal(t, "서울 날씨", result.OriginalMessage)
		})
	}
}

func TestAnalyzer_WithDictionaryTokenizer(t *testing.T) {
	var keywords []string
	for _, row := range config.DefaultIntentKeywords() {
		keywords = append(keywords, row.Keywords...)
	}
	dict := komoran.NewDictionary(append(komoran.PlaceEntries(append(testCities, "제주도")), komoran.KeywordEntries(keywords)...)...)
	a := createTestAnalyzer(t, dict)

	result := a.Analyze(context.Background(), "부산 날씨 알려줘", "")
	assert.Equal(t, "weather", result.Intent)
	assert.InDelta(t, 0.65, result.Confidence, 1e-9)
	loc, _ := result.Entity("location")
	assert.Equal(t, "부산", loc)

	result = a.Analyze(context.Background(), "지금 몇시야?", "")
	assert.Equal(t, "time", result.Intent)

	result = a.Analyze(context.Background(), "안녕하세요", "")
	assert.Equal(t, "greeting", result.Intent)
}
