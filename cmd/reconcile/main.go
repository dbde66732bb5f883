package main

import (
	"context"
	"fmt"
	"log"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/messhub/messhub.go/db"
	"github.com/messhub/messhub.go/lib"
	"github.com/messhub/messhub.go/lib/service"
	"github.com/messhub/messhub.go/sms"
)

// script to run one reconciliation batch over all pending online requests,
// for deployments that schedule it from cron instead of hitting the
// trigger endpoint
func main() {

	c := &service.Config{}

	// Load configuration from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configured log file
	logger := lib.Logger(c.LogFilePath)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: c.SentryDSN}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	var smsClient sms.Client = sms.NoopClient{}
	if c.SmsGatewayUrl != "" {
		smsClient = sms.NewHTTPClient(c.SmsGatewayUrl,
			sms.WithApiKey(c.SmsGatewayApiKey),
			sms.WithSenderID(c.SmsSenderID),
			sms.WithLogger(logger),
		)
	}

	svc := &service.MesshubService{
		Config:           c,
		DB:               dbConn,
		Logger:           logger,
		SmsClient:        smsClient,
		SettlementPubSub: service.NewPubsub(),
	}

	batch, err := svc.ReconcilePendingRequests(context.Background())
	if err != nil {
		sentry.CaptureException(err)
		svc.Logger.Fatal(err)
	}
	svc.Logger.Infof("Reconciliation batch %s done: processed %d, approved %d",
		batch.BatchID, batch.Processed, batch.Approved)
}
