package main

import (
	"context"
	"flag"
	"log"

	"github.com/chromedp/chromedp"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

func main() {
	urlFlag := flag.String("url", "", "Listing base URL template; the page number is appended")
	maxPages := flag.Int("max-pages", 0, "Maximum listing page to fetch")
	outDir := flag.String("out", "", "Directory for the CSV artifact")
	store := flag.Bool("store", false, "Also upsert records into MySQL")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *urlFlag != "" {
		cfg.BaseURL = *urlFlag
	}
	if *maxPages > 0 {
		cfg.MaxPages = *maxPages
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	pageCtx, cancelPage := chromedp.NewContext(allocCtx)
	defer cancelPage()

	// Start the shared session up front; failing here is fatal.
	if err := chromedp.Run(pageCtx); err != nil {
		log.Fatalf("unable to start browser session: %v", err)
	}

	s := newScraper(allocCtx, pageCtx, cfg)
	records, err := s.scrape()
	if err != nil {
		log.Fatalf("scrape failed: %v", err)
	}

	path := outputFilename(cfg.OutputDir, s.scrapeDate)
	if err := exportCSV(records, path); err != nil {
		log.Fatalf("export failed: %v", err)
	}

	if *store {
		ctx := context.Background()
		db, err := openStore(ctx, cfg)
		if err != nil {
			log.Printf("warning: store unavailable: %v", err)
			return
		}
		defer db.Close()
		if err := storeRFQs(ctx, db, records); err != nil {
			log.Printf("warning: unable to store RFQs: %v", err)
		}
	}
}
