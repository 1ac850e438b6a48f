package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubScraper(cfg config, fetch func(int) (string, error), resolve func(string) *int64) *scraper {
	s := &scraper{
		cfg:        cfg,
		permits:    make(chan struct{}, cfg.DetailConcurrency),
		scrapeDate: "01-09-2026",
	}
	s.fetchPage = fetch
	s.resolveID = resolve
	return s
}

func fixtureRow(pageNo, i int) string {
	href := fmt.Sprintf("//sourcing.alibaba.com/rfq/detail?p=%d&i=%d", pageNo, i)
	return listingRow(fmt.Sprintf("rfq-p%d-%d", pageNo, i), href, "")
}

func fixturePage(pageNo, rows int) string {
	var items []string
	for i := 0; i < rows; i++ {
		items = append(items, fixtureRow(pageNo, i))
	}
	return listingPage(items...)
}

func rowIndex(detailURL string) int {
	parsed, err := url.Parse(detailURL)
	if err != nil {
		return -1
	}
	i, err := strconv.Atoi(parsed.Query().Get("i"))
	if err != nil {
		return -1
	}
	return i
}

func TestScrapeStopsAtFirstEmptyPage(t *testing.T) {
	var fetched []int
	fetch := func(pageNo int) (string, error) {
		fetched = append(fetched, pageNo)
		if pageNo == 5 {
			return listingPage(), nil
		}
		return fixturePage(pageNo, 2), nil
	}
	resolve := func(string) *int64 { return nil }

	s := newStubScraper(config{MaxPages: 100, DetailConcurrency: 10}, fetch, resolve)
	records, err := s.scrape()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, fetched)
	require.Len(t, records, 8)
	assert.Equal(t, "rfq-p1-0", records[0].Title)
	assert.Equal(t, "rfq-p4-1", records[7].Title)
	for _, rec := range records {
		assert.Equal(t, "01-09-2026", rec.ScrapeDate)
	}
}

func TestScrapeRespectsMaxPages(t *testing.T) {
	var fetched []int
	fetch := func(pageNo int) (string, error) {
		fetched = append(fetched, pageNo)
		return fixturePage(pageNo, 1), nil
	}

	s := newStubScraper(config{MaxPages: 3, DetailConcurrency: 10}, fetch, func(string) *int64 { return nil })
	records, err := s.scrape()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, fetched)
	assert.Len(t, records, 3)
}

func TestScrapePageFetchErrorAborts(t *testing.T) {
	var fetched []int
	fetch := func(pageNo int) (string, error) {
		fetched = append(fetched, pageNo)
		if pageNo == 2 {
			return "", errors.New("navigation failed")
		}
		return fixturePage(pageNo, 1), nil
	}

	s := newStubScraper(config{MaxPages: 100, DetailConcurrency: 10}, fetch, func(string) *int64 { return nil })
	records, err := s.scrape()
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, []int{1, 2}, fetched)
}

func TestEnrichPreservesListingOrder(t *testing.T) {
	records, err := parseListing(fixturePage(1, 5))
	require.NoError(t, err)
	require.Len(t, records, 5)

	// Earlier rows finish last: completion order is the reverse of listing
	// order, and the output order must not care.
	resolve := func(detailURL string) *int64 {
		i := rowIndex(detailURL)
		time.Sleep(time.Duration(5-i) * 20 * time.Millisecond)
		id := int64(1000 + i)
		return &id
	}

	s := newStubScraper(config{MaxPages: 1, DetailConcurrency: 10}, nil, resolve)
	s.enrichPage(records)

	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("rfq-p1-%d", i), rec.Title)
		require.NotNil(t, rec.RFQID)
		assert.Equal(t, int64(1000+i), *rec.RFQID)
	}
}

func TestEnrichDerivesInquiryDates(t *testing.T) {
	publish := func(text string) string {
		return fmt.Sprintf(`<div class="brh-rfq-item__publishtime"><span>Date Posted:</span>%s</div>`, text)
	}
	html := listingPage(
		listingRow("A", "//sourcing.alibaba.com/rfq/detail?p=1&i=0", publish("3 days ago")),
		listingRow("B", "//sourcing.alibaba.com/rfq/detail?p=1&i=1", publish("3 days ago")),
		listingRow("C", "//sourcing.alibaba.com/rfq/detail?p=1&i=2", ""),
	)
	records, err := parseListing(html)
	require.NoError(t, err)
	require.Len(t, records, 3)

	s := newStubScraper(config{MaxPages: 1, DetailConcurrency: 10}, nil, func(string) *int64 { return nil })

	before := time.Now().AddDate(0, 0, -3).Format(dateLayout)
	s.enrichPage(records)
	after := time.Now().AddDate(0, 0, -3).Format(dateLayout)

	// Both dated rows share the page's single anchor even if the clock
	// rolled over mid-call.
	assert.Contains(t, []string{before, after}, records[0].InquiryDate)
	assert.Equal(t, records[0].InquiryDate, records[1].InquiryDate)
	assert.Equal(t, "3 days ago", records[0].InquiryTime)

	// No publish time, no derived date.
	assert.Empty(t, records[2].InquiryTime)
	assert.Empty(t, records[2].InquiryDate)
	assert.Equal(t, "01-09-2026", records[2].ScrapeDate)
}

func TestEnrichBoundsConcurrency(t *testing.T) {
	records, err := parseListing(fixturePage(1, 40))
	require.NoError(t, err)
	require.Len(t, records, 40)

	var mu sync.Mutex
	inflight, peak := 0, 0
	resolve := func(string) *int64 {
		mu.Lock()
		inflight++
		if inflight > peak {
			peak = inflight
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		inflight--
		mu.Unlock()
		return nil
	}

	s := newStubScraper(config{MaxPages: 1, DetailConcurrency: 10}, nil, resolve)
	s.enrichPage(records)

	assert.LessOrEqual(t, peak, 10)
	assert.Greater(t, peak, 1, "fan-out should actually run concurrently")
}

func TestScrapeTwoPageEndToEnd(t *testing.T) {
	var fetched []int
	fetch := func(pageNo int) (string, error) {
		fetched = append(fetched, pageNo)
		if pageNo == 1 {
			return fixturePage(1, 2), nil
		}
		return listingPage(), nil
	}
	resolve := func(detailURL string) *int64 {
		if rowIndex(detailURL) == 0 {
			id := int64(99321)
			return &id
		}
		return nil // second item's resolution timed out
	}

	s := newStubScraper(config{MaxPages: 100, DetailConcurrency: 10}, fetch, resolve)
	records, err := s.scrape()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, fetched, "page 3 must never be requested")
	require.Len(t, records, 2)

	path := filepath.Join(t.TempDir(), "rfqs.csv")
	require.NoError(t, exportCSV(records, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "99321", rows[1][0])
	assert.Equal(t, "", rows[2][0])
}
