// Package donelaitis is the tagging backend for the VDU morphological
// annotator, which answers a form POST with an HTML page whose analysis
// section is a line-per-token pseudo-XML listing.
package donelaitis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/FocuswithJustin/rnctag/core/crosswalk"
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// Name identifies the backend.
const Name = "donelaitis"

// DefaultEndpoint is the public annotator form handler.
const DefaultEndpoint = "http://donelaitis.vdu.lt/main_helper.php?id=4&nr=7_2"

// Client calls the annotator.
type Client struct {
	Endpoint string
	// Single asks for one analysis per word (anotuoti) instead of every
	// candidate lemma (lemuoti).
	Single bool

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

// Name implements tagging.Tagger.
func (c *Client) Name() string { return Name }

// Crosswalk implements tagging.Tagger.
func (c *Client) Crosswalk() crosswalk.Crosswalk { return crosswalk.Donelaitis }

// Tag implements tagging.Tagger.
func (c *Client) Tag(ctx context.Context, text string) ([]tagging.Token, error) {
	body, err := c.send(ctx, text)
	if err != nil {
		return nil, errors.NewTransport(Name, err)
	}
	return Parse(analysisSection(body)), nil
}

func (c *Client) send(ctx context.Context, text string) (string, error) {
	mode := "lemuoti"
	if c.Single {
		mode = "anotuoti"
	}
	form := url.Values{
		"tekstas":  {text},
		"tipas":    {mode},
		"pateikti": {"LM"},
		"veiksmas": {"Rezultatas puslapyje"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(data), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second, Transport: logging.NewTransport(Name, nil)}
}

// analysisSection returns the entity-decoded part of the page after the
// input form.
func analysisSection(page string) string {
	const marker = "</form>"
	if i := strings.Index(page, marker); i >= 0 {
		page = page[i+len(marker):]
	}
	return html.UnescapeString(page)
}
