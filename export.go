package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{
	"RFQ ID", "Title", "Buyer Name", "Buyer Image",
	"Inquiry Time", "Quotes Left", "Country",
	"Quantity Required", "Email Confirmed",
	"Experienced Buyer", "Complete Order via RFQ",
	"Typical Replies", "Interactive User",
	"Inquiry URL", "Inquiry Date", "Scraping Date",
}

func outputFilename(dir, scrapeDate string) string {
	return filepath.Join(dir, fmt.Sprintf("alibaba_rfq_%s.csv", scrapeDate))
}

// exportCSV writes the accumulated records in the fixed 16-column order.
// Absent values become empty cells, never a literal "null".
func exportCSV(records []RFQRecord, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range records {
		id := ""
		if rec.RFQID != nil {
			id = strconv.FormatInt(*rec.RFQID, 10)
		}
		row := []string{
			id,
			rec.Title,
			rec.BuyerName,
			rec.BuyerImage,
			rec.InquiryTime,
			rec.QuotesLeft,
			rec.Country,
			rec.QuantityReq,
			yesNo(rec.Flags.EmailConfirmed),
			yesNo(rec.Flags.ExperiencedBuyer),
			yesNo(rec.Flags.CompleteViaRFQ),
			yesNo(rec.Flags.TypicalReplies),
			yesNo(rec.Flags.InteractiveUser),
			rec.InquiryURL,
			rec.InquiryDate,
			rec.ScrapeDate,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	log.Printf("saved %d RFQs to %s", len(records), path)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
