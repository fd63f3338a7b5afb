// Package semantika is the tagging backend for the semantika.lt analysis
// service. The service returns token segments as UTF-16 offsets into the
// submitted text together with positional morphological codes.
package semantika

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/FocuswithJustin/rnctag/core/crosswalk"
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// Name identifies the backend.
const Name = "semantika"

// DefaultEndpoint is the public analysis endpoint.
const DefaultEndpoint = "http://semantika.lt/SyntaticAndSemanticAnalysis/Analysis/Analyze"

// Client calls the analysis service.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// New returns a client for endpoint, or DefaultEndpoint when it is empty.
func New(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{Endpoint: endpoint}
	if timeout > 0 {
		c.HTTPClient = &http.Client{Timeout: timeout, Transport: logging.NewTransport(Name, nil)}
	}
	return c
}

// Response is the subset of the service answer the backend reads.
type Response struct {
	Lex *struct {
		Seg [][2]int `json:"seg"`
	} `json:"lex"`
	Morphology struct {
		// Msd holds, per segment, the [lemma, code] pairs.
		Msd [][][]string `json:"msd"`
	} `json:"morphology"`
}

// Name implements tagging.Tagger.
func (c *Client) Name() string { return Name }

// Crosswalk implements tagging.Tagger.
func (c *Client) Crosswalk() crosswalk.Crosswalk { return crosswalk.Semantika }

// Tag implements tagging.Tagger.
func (c *Client) Tag(ctx context.Context, text string) ([]tagging.Token, error) {
	resp, err := c.send(ctx, text)
	if err != nil {
		return nil, errors.NewTransport(Name, err)
	}
	tokens, err := Tokens(text, resp)
	if err != nil {
		return nil, errors.NewTransport(Name, err)
	}
	return tokens, nil
}

func (c *Client) send(ctx context.Context, text string) (*Response, error) {
	form := url.Values{
		"Text":          {text},
		"Morphology":    {"true"},
		"Collocations":  {"false"},
		"NamedEntities": {"false"},
		"Spelling":      {"false"},
		"Grammar":       {"false"},
		"Syntax":        {"false"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second, Transport: logging.NewTransport(Name, nil)}
}

// Tokens converts a service response for text into a token stream. Every
// token carries its byte offset in text.
func Tokens(text string, resp *Response) ([]tagging.Token, error) {
	if resp == nil || resp.Lex == nil {
		return nil, fmt.Errorf("invalid response: no lexical segmentation")
	}
	offsets := byteOffsets(text)
	units := len(offsets) - 1

	var tokens []tagging.Token
	prev := 0
	for i, seg := range resp.Lex.Seg {
		start, length := seg[0], seg[1]
		if start < 0 || length < 0 || start+length > units {
			return nil, fmt.Errorf("segment %d [%d,%d) outside text of %d units", i, start, start+length, units)
		}
		from, to := offsets[start], offsets[start+length]

		if from > prev {
			if gap := text[prev:from]; strings.TrimSpace(gap) == "" {
				tokens = append(tokens, tagging.Token{Kind: tagging.Whitespace, Text: gap, Offset: prev})
			}
		}
		prev = max(prev, to)

		var variants []tagging.Variant
		if i < len(resp.Morphology.Msd) {
			for _, pair := range resp.Morphology.Msd[i] {
				if len(pair) < 2 {
					continue
				}
				variants = append(variants, tagging.Variant{Lemma: pair[0], Code: pair[1]})
			}
		}
		tokens = append(tokens, segmentToken(text[from:to], variants).At(from))
	}
	if prev < len(text) && strings.TrimSpace(text[prev:]) == "" {
		tokens = append(tokens, tagging.Token{Kind: tagging.Whitespace, Text: text[prev:], Offset: prev})
	}
	return tokens, nil
}

func segmentToken(content string, variants []tagging.Variant) tagging.Token {
	switch {
	case len(variants) == 1 && crosswalk.IsPunctuation(variants[0].Code):
		return tagging.Sep(content)
	case len(variants) == 0 && isDigits(content):
		return tagging.Num(content)
	case len(variants) == 1:
		return tagging.NewWord(content, variants[0].Lemma, variants[0].Code)
	default:
		return tagging.NewAmbiguous(content, variants...)
	}
}

// byteOffsets maps each UTF-16 code unit index of s to a byte offset. The
// extra final entry maps the end of the text.
func byteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		for n := utf16.RuneLen(r); n > 0; n-- {
			offsets = append(offsets, i)
		}
	}
	return append(offsets, len(s))
}

func isDigits(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
