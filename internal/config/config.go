package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/lunchpoll/lunch-poll-bot/internal/domain"
)

type Config struct {
	TelegramToken    string
	DatabasePath     string
	PollOpenPeriod   int // seconds
	MinVotesForOrder int

	// Tickets watcher; disabled when TicketsAPIURL is empty.
	TicketsAPIURL       string
	TicketsDepartmentID string
	TicketsSurnames     []string
}

func Load() *Config {
	return &Config{
		TelegramToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		DatabasePath:        getEnv("DATABASE_PATH", "./lunchbot.db"),
		PollOpenPeriod:      getEnvInt("POLL_OPEN_PERIOD", domain.DefaultPollOpenPeriod),
		MinVotesForOrder:    getEnvInt("MIN_VOTES_FOR_ORDER", domain.DefaultMinVotesForOrder),
		TicketsAPIURL:       getEnv("TICKETS_API_URL", ""),
		TicketsDepartmentID: getEnv("TICKETS_DEPARTMENT_ID", ""),
		TicketsSurnames:     getEnvList("TICKETS_SURNAMES"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
