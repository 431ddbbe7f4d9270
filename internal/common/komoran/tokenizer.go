// internal/common/komoran/tokenizer.go
package komoran

import (
	"context"
	"strings"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/httpclient"
)

// Sejong tag set subset used by the analyzers.
const (
	TagProperNoun = "NNP"
	TagNoun       = "NNG"
	TagVerb       = "VV"
	TagAdjective  = "VA"
	TagParticle   = "JX"
	TagEnding     = "EF"
	TagNumber     = "SN"
	TagForeign    = "SL"
	TagSymbol     = "SF"
	TagUnknown    = "NA"
)

// Morpheme is one tagged token.
type Morpheme struct {
	Surface string `json:"morph"`
	Tag     string `json:"pos"`
}

// HasTagPrefix reports whether the tag starts with any of prefixes.
func (m Morpheme) HasTagPrefix(prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(m.Tag, p) {
			return true
		}
	}
	return false
}

// Tokenizer splits text into tagged morphemes.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]Morpheme, error)
}

// Client talks to a KOMORAN analysis server:
// POST {url}/analyze {"text": ...} -> {"tokens": [{"morph": ..., "pos": ...}]}
type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.NewClient(timeout),
	}
}

func (c *Client) Tokenize(ctx context.Context, text string) ([]Morpheme, error) {
	var resp struct {
		Tokens []Morpheme `json:"tokens"`
	}
	if err := c.http.PostJSON(ctx, c.baseURL+"/analyze", nil, map[string]string{"text": text}, &resp); err != nil {
		return nil, apperrors.NewTokenizerError(err)
	}
	return resp.Tokens, nil
}
