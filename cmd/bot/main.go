package main

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/lunchpoll/lunch-poll-bot/internal/bot"
	"github.com/lunchpoll/lunch-poll-bot/internal/calendar"
	"github.com/lunchpoll/lunch-poll-bot/internal/config"
	"github.com/lunchpoll/lunch-poll-bot/internal/database"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain"
	"github.com/lunchpoll/lunch-poll-bot/internal/domain/service"
	"github.com/lunchpoll/lunch-poll-bot/internal/runner"
	"github.com/lunchpoll/lunch-poll-bot/internal/tickets"
	"github.com/lunchpoll/lunch-poll-bot/migrator/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.Load()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Println("Running migrations...")
	if err := sqlite.Migrate(db.DB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	log.Printf("Authorized as @%s", api.Self.UserName)

	dm := database.NewInstance(db)
	client := bot.NewClient(api)
	cal := calendar.New()

	services := service.NewInstance(dm, client, cal, service.Options{
		OpenPeriod:       cfg.PollOpenPeriod,
		MinVotesForOrder: cfg.MinVotesForOrder,
	})

	ctx := context.Background()

	tasks := []runner.Task{
		{
			Name:  "lunch-poll-scan",
			Every: time.Minute,
			Run: func(ctx context.Context) error {
				return services.Poll.RunDuePolls(ctx, domain.UTCNowMinute())
			},
		},
		{
			Name:  "poll-resolution",
			Every: 30 * time.Second,
			Run:   services.Poll.ResolveDuePolls,
		},
		{
			Name:  "poll-gc",
			Every: 6 * time.Hour,
			Run:   services.Poll.PurgeClosedPolls,
		},
	}

	if cfg.TicketsAPIURL != "" {
		watcher := tickets.NewWatcher(cfg.TicketsAPIURL, cfg.TicketsDepartmentID, cfg.TicketsSurnames, client, dm)
		tasks = append(tasks, runner.Task{
			Name:  "tickets-check",
			Every: 10 * time.Minute,
			Run:   watcher.Check,
		})
	}

	run := runner.New(tasks...)
	run.Start()
	defer run.Stop()

	router := bot.NewRouter(api, dm, services.Poll)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "poll_answer"}

	for update := range api.GetUpdatesChan(u) {
		router.HandleUpdate(ctx, update)
	}
}
