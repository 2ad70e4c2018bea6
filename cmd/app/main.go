package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/access"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/booking"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/config"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/content"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/conversation"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/earnings"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/notify"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/profile"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/realtime"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/scheduler"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/server"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/session"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/subscription"
)

// changeFeed is what the services publish to and the relay consumes.
type changeFeed interface {
	realtime.Publisher
	realtime.Subscriber
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.LogLevel)
	logger.Info("Starting hubcontent", "port", cfg.Port, "change_feed", cfg.ChangeFeedDriver)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}

	var feed changeFeed
	switch cfg.ChangeFeedDriver {
	case "amqp":
		amqpFeed, err := realtime.NewAMQPFeed(cfg.RabbitURL, "hubcontent.relay")
		if err != nil {
			logger.Fatalf("Failed to connect to rabbitmq: %v", err)
		}
		defer amqpFeed.Close()
		feed = amqpFeed
	default:
		feed = realtime.NewRedisFeed(rdb)
	}

	loc := cfg.Location()

	profiles := profile.NewRepository(database)
	notifier := notify.New(rdb, profiles, notify.SMTPConfig{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
	})
	go notifier.Start(ctx)

	conversationRepo := conversation.NewRepository(database)
	conversations := conversation.NewService(conversationRepo, feed)

	ledger := earnings.NewRepository(database)
	bookingRepo := booking.NewRepository(database)
	sessionRepo := session.NewRepository(database)

	// bookings and sessions call each other; the terminator closes the loop
	var sessions session.Service
	bookings := booking.NewService(booking.Deps{
		Repo:      bookingRepo,
		Profiles:  profiles,
		Ledger:    ledger,
		Notifier:  notifier,
		Feed:      feed,
		Messenger: conversations,
		Sessions: booking.TerminatorFunc(func(ctx context.Context, bookingID string) error {
			return sessions.TerminateForBooking(ctx, bookingID)
		}),
		Location: loc,
	})
	sessions = session.NewService(session.Deps{
		Repo:      sessionRepo,
		Bookings:  bookings,
		Notifier:  notifier,
		Feed:      feed,
		Messenger: conversations,
		Location:  loc,
	})

	contents := content.NewService(content.NewRepository(database), access.NewFactsRepository(database))
	subscriptions := subscription.NewService(subscription.NewRepository(database), profiles, nil)

	hub := realtime.NewHub()
	relay := realtime.NewRelay(feed, realtime.Loaders{
		realtime.TableBookings: booking.NewSnapshotLoader(bookingRepo),
		realtime.TableSessions: session.NewSnapshotLoader(sessionRepo, nil),
		realtime.TableMessages: conversation.NewSnapshotLoader(conversationRepo),
	}, hub)
	go func() {
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("change feed relay stopped")
		}
	}()

	jobs := scheduler.New(scheduler.NewRedisLocker(rdb))
	for _, job := range []scheduler.Job{
		scheduler.SessionSweepJob(cfg.SweepSchedule, sessions),
		scheduler.SubscriptionExpiryJob(cfg.SubscriptionExpirySchedule, subscriptions),
		{
			Name: "notification_queue_gauge",
			Spec: "@every 15s",
			Run: func(ctx context.Context) error {
				notifier.QueueLength(ctx)
				return nil
			},
		},
	} {
		if err := jobs.Add(job); err != nil {
			logger.Fatalf("Failed to schedule %s: %v", job.Name, err)
		}
	}
	jobs.Start()

	srv := server.New(cfg, server.Handlers{
		Profiles:      profile.NewHandler(profiles, cfg.JWTSecret),
		Bookings:      booking.NewHandler(bookings),
		Sessions:      session.NewHandler(sessions),
		Content:       content.NewHandler(contents),
		Subscriptions: subscription.NewHandler(subscriptions),
		Conversations: conversation.NewHandler(conversations),
		Earnings:      earnings.NewHandler(ledger),
		Realtime:      realtime.NewHandler(hub),
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	jobs.Stop(shutdownCtx)
	cancel()

	logger.Info("Server stopped")
}
