package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// scraper walks the paginated listing on one long-lived tab and fans out
// detail resolutions under a shared permit pool. fetchPage and resolveID
// default to the chromedp implementations; tests swap them out.
type scraper struct {
	cfg        config
	allocCtx   context.Context
	pageCtx    context.Context
	permits    chan struct{}
	scrapeDate string

	fetchPage func(pageNo int) (string, error)
	resolveID func(detailURL string) *int64
}

func newScraper(allocCtx, pageCtx context.Context, cfg config) *scraper {
	s := &scraper{
		cfg:        cfg,
		allocCtx:   allocCtx,
		pageCtx:    pageCtx,
		permits:    make(chan struct{}, cfg.DetailConcurrency),
		scrapeDate: time.Now().Format(dateLayout),
	}
	s.fetchPage = s.renderListingPage
	s.resolveID = func(detailURL string) *int64 {
		return resolveRFQID(s.allocCtx, detailURL, cfg.DetailTimeout, cfg.SettleInterval)
	}
	return s
}

// renderListingPage navigates the shared tab to page pageNo of the listing
// and returns the rendered markup. The detail resolvers never touch this
// tab, so their navigations cannot disturb the listing state.
func (s *scraper) renderListingPage(pageNo int) (string, error) {
	target := s.cfg.BaseURL + strconv.Itoa(pageNo)

	var html string
	err := chromedp.Run(s.pageCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("fetch listing page %d: %w", pageNo, err)
	}
	return html, nil
}

// scrape runs the page loop: fetch, parse, enrich, accumulate. It stops
// normally at the first page that parses to zero records or once MaxPages is
// reached; a page-fetch failure aborts the run.
func (s *scraper) scrape() ([]RFQRecord, error) {
	var all []RFQRecord
	for pageNo := 1; pageNo <= s.cfg.MaxPages; pageNo++ {
		log.Printf("fetching listing page %d", pageNo)

		html, err := s.fetchPage(pageNo)
		if err != nil {
			return nil, err
		}

		records, err := parseListing(html)
		if err != nil {
			return nil, fmt.Errorf("parse listing page %d: %w", pageNo, err)
		}
		if len(records) == 0 {
			log.Printf("no RFQs found on page %d, stopping", pageNo)
			break
		}

		s.enrichPage(records)
		all = append(all, records...)
	}
	return all, nil
}

// enrichPage stamps dates and resolves ids in place. Inquiry dates anchor at
// a single moment captured before the fan-out, so a slow resolution cannot
// drift dates within the page. Each goroutine writes only its own slot, so
// listing order survives any completion order.
func (s *scraper) enrichPage(records []RFQRecord) {
	pageNow := time.Now()
	for i := range records {
		records[i].ScrapeDate = s.scrapeDate
		if records[i].InquiryTime != "" {
			records[i].InquiryDate = relativeDate(records[i].InquiryTime, pageNow)
		}
	}

	var wg sync.WaitGroup
	for i := range records {
		wg.Add(1)
		go func(rec *RFQRecord) {
			defer wg.Done()
			s.permits <- struct{}{}
			defer func() { <-s.permits }()
			rec.RFQID = s.resolveID(rec.InquiryURL)
		}(&records[i])
	}
	wg.Wait()
}
