package main

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	listingRowSelector = ".next-row.next-row-no-padding.alife-bc-brh-rfq-list__row"

	tagEmailConfirmed   = "Email Confirmed"
	tagExperiencedBuyer = "Experienced buyer"
	tagCompleteViaRFQ   = "Complete order via RFQ"
	tagTypicalReplies   = "Typically replies"
	tagInteractiveUser  = "Interactive user"
)

// RFQRecord is one business inquiry from the sourcing listing. RFQID stays
// nil until detail resolution observes it or gives up; every other field is
// fixed at parse time. Empty strings mark absent optional fields.
type RFQRecord struct {
	RFQID       *int64
	Title       string
	BuyerName   string
	BuyerImage  string
	InquiryTime string
	QuotesLeft  string
	Country     string
	QuantityReq string
	Flags       TagFlags
	InquiryURL  string
	InquiryDate string
	ScrapeDate  string
}

type TagFlags struct {
	EmailConfirmed   bool
	ExperiencedBuyer bool
	CompleteViaRFQ   bool
	TypicalReplies   bool
	InteractiveUser  bool
}

// classifyTags maps the free-text tag labels of one listing row onto the
// five known flags. Labels outside the vocabulary are ignored.
func classifyTags(tags []string) TagFlags {
	var flags TagFlags
	for _, tag := range tags {
		switch strings.TrimSpace(tag) {
		case tagEmailConfirmed:
			flags.EmailConfirmed = true
		case tagExperiencedBuyer:
			flags.ExperiencedBuyer = true
		case tagCompleteViaRFQ:
			flags.CompleteViaRFQ = true
		case tagTypicalReplies:
			flags.TypicalReplies = true
		case tagInteractiveUser:
			flags.InteractiveUser = true
		}
	}
	return flags
}

// parseListing extracts every RFQ row from one rendered listing page, in
// document order. Rows missing a title or detail link are skipped with a
// warning; an empty result is the signal that the listing is exhausted.
func parseListing(html string) ([]RFQRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var records []RFQRecord
	doc.Find(listingRowSelector).Each(func(i int, row *goquery.Selection) {
		subject := row.Find(".brh-rfq-item__subject-link").First()
		title := strings.TrimSpace(subject.Text())
		href := strings.TrimSpace(subject.AttrOr("href", ""))
		if title == "" || href == "" {
			log.Printf("skipping listing row %d: missing title or detail link", i+1)
			return
		}

		var tags []string
		row.Find(".next-tag-body").Each(func(_ int, tag *goquery.Selection) {
			tags = append(tags, strings.TrimSpace(tag.Text()))
		})

		records = append(records, RFQRecord{
			Title:       title,
			BuyerName:   strings.TrimSpace(row.Find(".text").First().Text()),
			BuyerImage:  strings.TrimSpace(row.Find(".img").First().AttrOr("src", "")),
			InquiryTime: textWithoutSpans(row.Find(".brh-rfq-item__publishtime").First()),
			QuotesLeft:  textWithoutSpans(row.Find(".brh-rfq-item__quote-left").First()),
			Country:     textWithoutSpans(row.Find(".brh-rfq-item__country").First()),
			QuantityReq: strings.TrimSpace(row.Find(".brh-rfq-item__quantity-num").First().Text()),
			Flags:       classifyTags(tags),
			InquiryURL:  absoluteDetailURL(href),
		})
	})

	return records, nil
}

// textWithoutSpans reads a value node whose label lives in nested spans
// ("Date Posted:" and the like); the spans are dropped from a clone so only
// the value text remains.
func textWithoutSpans(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	clone := sel.Clone()
	clone.Find("span").Remove()
	return strings.TrimSpace(clone.Text())
}

// absoluteDetailURL turns the listing's protocol-relative detail hrefs into
// absolute https URLs.
func absoluteDetailURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return "https:" + href
}
