package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// rfqIDFromURL pulls the numeric rfqId query parameter out of a request URL.
func rfqIDFromURL(raw string) (int64, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return 0, false
	}
	value := parsed.Query().Get("rfqId")
	if value == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// navigationError folds the two failure channels of page.Navigate into one
// error. Net-level failures (DNS, blocked request, aborted load) come back
// as a non-empty errorText with a nil err; left unchecked they would stall
// the settle wait against Chrome's error page instead of surfacing a cause.
func navigationError(errorText string, err error) error {
	if err != nil {
		return err
	}
	if errorText != "" {
		return fmt.Errorf("navigate: %s", errorText)
	}
	return nil
}

// resolveRFQID opens a throwaway tab for one detail page and watches the
// requests it fires: the detail view calls a quotation endpoint whose URL
// carries the rfqId, a value that never appears in the rendered DOM. The
// first matching request wins; later ones are dropped by the non-blocking
// send. Navigation waits for DOMContentLoaded rather than full load, then
// holds for the settle interval so the asynchronous request has time to
// fire. A nil result means the id could not be observed; the record keeps an
// empty id and the run continues.
func resolveRFQID(allocCtx context.Context, detailURL string, timeout, settle time.Duration) *int64 {
	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	found := make(chan int64, 1)
	domReady := make(chan struct{}, 1)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			if id, ok := rfqIDFromURL(e.Request.URL); ok {
				select {
				case found <- id:
				default:
				}
			}
		case *page.EventDomContentEventFired:
			select {
			case domReady <- struct{}{}:
			default:
			}
		}
	})

	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, _, errorText, err := page.Navigate(detailURL).Do(ctx)
			return navigationError(errorText, err)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-domReady:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
		chromedp.Sleep(settle),
	)
	if err != nil {
		log.Printf("detail resolution failed for %s: %v", detailURL, err)
		return nil
	}

	select {
	case id := <-found:
		return &id
	default:
		return nil
	}
}
