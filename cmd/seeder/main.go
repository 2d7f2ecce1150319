// Command seeder loads sample data records and users into MongoDB.
//
// By default it only seeds when both collections are empty; -force clears
// them first.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/core/ports"
	"github.com/cse341/records-api/internal/core/service"
	mongostore "github.com/cse341/records-api/internal/infrastructure/db/mongo"
	"github.com/cse341/records-api/internal/pkg/config"
	"github.com/cse341/records-api/pkg/logger"
)

func main() {
	force := flag.Bool("force", false, "clear the data and users collections before seeding")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seeder"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "records-seeder"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = mongostore.Disconnect(client, 5*time.Second) }()

	if err := mongostore.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare collections")
	}

	before, err := mongostore.CountRecords(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count records")
	}
	log.Info().Int64("data", before.Data).Int64("users", before.Users).Msg("current collection sizes")

	switch {
	case *force:
		log.Warn().Msg("clearing data and users collections")
		if err := mongostore.ClearRecords(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to clear collections")
		}
	case before.Data > 0 || before.Users > 0:
		log.Info().Msg("collections are not empty; rerun with -force to reseed")
		return
	}

	audit := mongostore.NewAuditRepository(db)
	dataService := service.NewDataService(mongostore.NewDataRepository(db), audit, log)
	userService := service.NewUserService(mongostore.NewUserRepository(db), audit, log)

	if err := seed(ctx, dataService, userService, log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	after, err := mongostore.CountRecords(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count records")
	}
	log.Info().Int64("data", after.Data).Int64("users", after.Users).Msg("database seeded")
}

func seed(ctx context.Context, data ports.DataService, users ports.UserService, log zerolog.Logger) error {
	for _, in := range sampleData() {
		rec, err := data.CreateData(ctx, in)
		if err != nil {
			return err
		}
		log.Info().Str("id", rec.ID).Str("title", rec.Title).Msg("data record inserted")
	}
	for _, in := range sampleUsers() {
		rec, err := users.CreateUser(ctx, in)
		if err != nil {
			return err
		}
		log.Info().Str("id", rec.ID).Str("email", rec.Email).Msg("user inserted")
	}
	return nil
}
