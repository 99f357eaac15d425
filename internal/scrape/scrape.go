// Package scrape fetches raw fare observations from the booking site. It is
// a fallible collaborator: it may return zero, partial, or malformed price
// lists, and the polling service decides what to do about it.
package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const searchPath = "/flight/search-flight.html"

// fareMatcher captures the first digit run after the currency symbol.
var fareMatcher = regexp.MustCompile(`\$\s*(\d+)`)

// Batch holds one cycle's parsed price observations per direction, in
// document order. Either direction may be empty when the page had no
// matching fare elements.
type Batch struct {
	Outbound []int64
	Return   []int64
}

// Scraper retrieves the current fare observations for the configured route.
type Scraper interface {
	FetchFares(ctx context.Context) (Batch, error)
}

// Options parameterise the booking-site scraper.
type Options struct {
	BaseURL          string
	Origin           string
	Destination      string
	OutboundDate     string
	ReturnDate       string
	Passengers       int
	OutboundSelector string
	ReturnSelector   string
	Timeout          time.Duration
	UserAgent        string
}

// Site scrapes fares by submitting the booking site's search form and
// pattern-matching prices out of the result page.
type Site struct {
	opts   Options
	client *resty.Client
	logger zerolog.Logger
}

// NewSite constructs a booking-site scraper.
func NewSite(opts Options, logger zerolog.Logger) *Site {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if opts.OutboundSelector == "" {
		opts.OutboundSelector = "#faresOutbound .product_price"
	}
	if opts.ReturnSelector == "" {
		opts.ReturnSelector = "#faresReturn .product_price"
	}
	if opts.Passengers <= 0 {
		opts.Passengers = 1
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout)
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		client.SetHeader("User-Agent", ua)
	}

	return &Site{
		opts:   opts,
		client: client,
		logger: logger.With().Str("component", "scraper").Logger(),
	}
}

// FetchFares submits the search form and extracts both directions' price
// observations. No validation is applied to airport codes or dates; the
// booking site is the authority on what they mean.
func (s *Site) FetchFares(ctx context.Context) (Batch, error) {
	if s.opts.BaseURL == "" {
		return Batch{}, errors.New("booking site base url not configured")
	}
	if s.opts.Origin == "" || s.opts.Destination == "" {
		return Batch{}, errors.New("origin and destination airports required")
	}

	res, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"twoWayTrip":          "true",
			"originAirport":       s.opts.Origin,
			"destinationAirport":  s.opts.Destination,
			"outboundDateString":  s.opts.OutboundDate,
			"returnDateString":    s.opts.ReturnDate,
			"adultPassengerCount": strconv.Itoa(s.opts.Passengers),
		}).
		Post(searchPath)
	if err != nil {
		return Batch{}, fmt.Errorf("submit fare search: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return Batch{}, fmt.Errorf("fare search returned status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return Batch{}, fmt.Errorf("parse fare page: %w", err)
	}

	batch := Batch{
		Outbound: extractFares(doc, s.opts.OutboundSelector),
		Return:   extractFares(doc, s.opts.ReturnSelector),
	}

	s.logger.Debug().
		Int("outbound_matches", len(batch.Outbound)).
		Int("return_matches", len(batch.Return)).
		Msg("fare page scraped")

	return batch, nil
}

func extractFares(doc *goquery.Document, selector string) []int64 {
	var fares []int64
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if price, ok := ParsePrice(sel.Text()); ok {
			fares = append(fares, price)
		}
	})
	return fares
}

// ParsePrice extracts a fare from a matched price string: the first digit
// run following the currency symbol, as a whole-dollar amount.
func ParsePrice(text string) (int64, bool) {
	m := fareMatcher.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

var _ Scraper = (*Site)(nil)
