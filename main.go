package main

import (
	"context"
	"os"

	"github.com/gogomarket/gogomarket-BE/api"
	"github.com/gogomarket/gogomarket-BE/internal/alert"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/event"
	"github.com/gogomarket/gogomarket-BE/internal/mailer"
	"github.com/gogomarket/gogomarket-BE/internal/payout"
	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/gogomarket/gogomarket-BE/internal/worker"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rs/zerolog/log"

	_ "github.com/gogomarket/gogomarket-BE/docs"
)

//	@title			GoGoMarket API
//	@version		1.0.0
//	@description	Order and escrow lifecycle API for the GoGoMarket marketplace

//	@host		localhost:8080
//	@BasePath	/v1
//	@schemes	http https

//	@securityDefinitions.apikey	accessToken
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	// Create connection pool
	connPool, err := pgxpool.New(context.Background(), config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}

	pingErr := connPool.Ping(context.Background())
	if pingErr != nil {
		log.Fatal().Err(pingErr).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	store := db.NewStore(connPool)

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	mailService, err := mailer.NewGmailSender(config.GmailSMTPUsername, config.GmailSMTPPassword, config, redisDb)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mailer service 😣")
	}

	var alertNotifier *alert.Notifier
	if config.DiscordBotToken != "" {
		alertNotifier, err = alert.NewNotifier(config)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create alert notifier 😣")
		}
		log.Info().Msg("alert notifier created successfully ✅")
	}

	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}
	taskDistributor := worker.NewTaskDistributor(redisOpt)

	eventSender := event.NewSSEServer()
	go eventSender.Run()

	go runTaskProcessor(redisOpt, store, eventSender)
	go runPayoutSettler(store, taskDistributor)

	runHTTPServer(&config, store, taskDistributor, mailService, alertNotifier, eventSender)
}

func runTaskProcessor(redisOpt asynq.RedisClientOpt, store db.Store, eventSender event.EventSender) {
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, store, eventSender)

	log.Info().Msg("task processor started ✅")
	if err := taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
}

func runPayoutSettler(store db.Store, taskDistributor worker.TaskDistributor) {
	settler, err := payout.NewSettler(store, taskDistributor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create payout settler 😣")
	}

	if err = settler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start payout settler 😣")
	}
	log.Info().Msg("payout settler started ✅")
}

func runHTTPServer(config *util.Config, store db.Store, taskDistributor worker.TaskDistributor, mailService *mailer.GmailSender, alertNotifier *alert.Notifier, eventSender event.EventSender) {
	server, err := api.NewServer(store, taskDistributor, config, mailService, alertNotifier, eventSender)

	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	err = server.Start(config.HTTPServerAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
