package main

import (
	"context"
	"database/sql"
	"strings"
)

// openStore connects to MySQL and makes sure the rfqs table exists. The
// store is an optional secondary sink; the CSV stays the primary artifact.
func openStore(ctx context.Context, cfg config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.dsn())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := ensureRFQTable(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureRFQTable(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS rfqs (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  rfq_id BIGINT NULL,
  title VARCHAR(512) NOT NULL,
  buyer_name VARCHAR(255) NULL,
  buyer_image TEXT NULL,
  inquiry_time VARCHAR(64) NULL,
  quotes_left VARCHAR(64) NULL,
  country VARCHAR(128) NULL,
  quantity_required VARCHAR(128) NULL,
  email_confirmed TINYINT(1) NOT NULL DEFAULT 0,
  experienced_buyer TINYINT(1) NOT NULL DEFAULT 0,
  complete_via_rfq TINYINT(1) NOT NULL DEFAULT 0,
  typical_replies TINYINT(1) NOT NULL DEFAULT 0,
  interactive_user TINYINT(1) NOT NULL DEFAULT 0,
  inquiry_url VARCHAR(768) NOT NULL,
  inquiry_date VARCHAR(10) NULL,
  scraping_date VARCHAR(10) NOT NULL,
  scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  UNIQUE KEY uniq_inquiry_url (inquiry_url(191))
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func storeRFQs(ctx context.Context, db *sql.DB, records []RFQRecord) error {
	if len(records) == 0 {
		return nil
	}

	const stmt = `
INSERT INTO rfqs (rfq_id, title, buyer_name, buyer_image, inquiry_time, quotes_left, country, quantity_required,
  email_confirmed, experienced_buyer, complete_via_rfq, typical_replies, interactive_user,
  inquiry_url, inquiry_date, scraping_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  rfq_id=VALUES(rfq_id),
  buyer_name=VALUES(buyer_name),
  buyer_image=VALUES(buyer_image),
  inquiry_time=VALUES(inquiry_time),
  quotes_left=VALUES(quotes_left),
  country=VALUES(country),
  quantity_required=VALUES(quantity_required),
  email_confirmed=VALUES(email_confirmed),
  experienced_buyer=VALUES(experienced_buyer),
  complete_via_rfq=VALUES(complete_via_rfq),
  typical_replies=VALUES(typical_replies),
  interactive_user=VALUES(interactive_user),
  inquiry_date=VALUES(inquiry_date),
  scraping_date=VALUES(scraping_date);`

	prepared, err := db.PrepareContext(ctx, stmt)
	if err != nil {
		return err
	}
	defer prepared.Close()

	for _, rec := range records {
		if strings.TrimSpace(rec.Title) == "" {
			continue
		}

		if _, err := prepared.ExecContext(ctx,
			nullInt64(rec.RFQID),
			rec.Title,
			nullString(rec.BuyerName),
			nullString(rec.BuyerImage),
			nullString(rec.InquiryTime),
			nullString(rec.QuotesLeft),
			nullString(rec.Country),
			nullString(rec.QuantityReq),
			rec.Flags.EmailConfirmed,
			rec.Flags.ExperiencedBuyer,
			rec.Flags.CompleteViaRFQ,
			rec.Flags.TypicalReplies,
			rec.Flags.InteractiveUser,
			rec.InquiryURL,
			nullString(rec.InquiryDate),
			rec.ScrapeDate,
		); err != nil {
			return err
		}
	}
	return nil
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullInt64(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}
