package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://sourcing.alibaba.com/rfq/rfq_search_list.htm?spm=a2700.8073608.1998677545.2.fe0465aa11X6WR&country=AE&recently=Y&page="

	defaultMaxPages          = 100
	defaultDetailConcurrency = 10
	defaultDetailTimeoutMs   = 30000
	defaultSettleMs          = 1000

	dateLayout = "02-01-2006"
)

type config struct {
	BaseURL           string
	MaxPages          int
	DetailConcurrency int
	DetailTimeout     time.Duration
	SettleInterval    time.Duration
	Headless          bool
	OutputDir         string
	DBHost            string
	DBUser            string
	DBPass            string
	DBName            string
}

func loadConfig() (config, error) {
	headless, err := parseHeadless(os.Getenv("HEADLESS"))
	if err != nil {
		return config{}, err
	}

	cfg := config{
		BaseURL:           valueOrDefault(os.Getenv("RFQ_BASE_URL"), defaultBaseURL),
		MaxPages:          parseIntEnv("MAX_PAGES", defaultMaxPages),
		DetailConcurrency: parseIntEnv("DETAIL_CONCURRENCY", defaultDetailConcurrency),
		DetailTimeout:     parseDurationEnv("DETAIL_TIMEOUT_MS", defaultDetailTimeoutMs),
		SettleInterval:    parseDurationEnv("SETTLE_MS", defaultSettleMs),
		Headless:          headless,
		OutputDir:         valueOrDefault(os.Getenv("OUTPUT_DIR"), "."),
		DBHost:            valueOrDefault(os.Getenv("DB_HOST"), "127.0.0.1:3306"),
		DBUser:            valueOrDefault(os.Getenv("DB_USER"), "rfq"),
		DBPass:            valueOrDefault(os.Getenv("DB_PASSWORD"), "rfq"),
		DBName:            valueOrDefault(os.Getenv("DB_NAME"), "rfq"),
	}

	return cfg, nil
}

func (c config) dsn() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		c.DBUser, c.DBPass, c.DBHost, c.DBName,
	)
}

func parseHeadless(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid HEADLESS value: %w", err)
	}
	return b, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func parseDurationEnv(key string, defaultMs int) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return time.Duration(defaultMs) * time.Millisecond
	}
	ms, err := strconv.Atoi(value)
	if err != nil || ms < 0 {
		return time.Duration(defaultMs) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

func parseIntEnv(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
