// Command seed loads a venue JSON document into MySQL.
//
//	seed -file venue.json [-migrate]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/venue-seating-map/internal/config"
	"github.com/iliyamo/venue-seating-map/internal/database"
	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/repository"
	"github.com/iliyamo/venue-seating-map/internal/venuesource"
)

func main() {
	file := flag.String("file", "venue.json", "venue document to load")
	migrate := flag.Bool("migrate", true, "create tables before loading")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New(os.Getenv("LOG_LEVEL"), "text").WithComponent("seed")
	cfg := config.LoadDB()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.WithError(err).Error("read venue file")
		os.Exit(1)
	}
	v, err := venuesource.Decode(data)
	if err != nil {
		log.WithError(err).Error("invalid venue document")
		os.Exit(1)
	}

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.WithError(err).Error("connect")
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.WithError(err).Error("migrate")
			os.Exit(1)
		}
	}
	if err := repository.NewVenueRepo(db).SaveVenue(ctx, v); err != nil {
		log.WithError(err).Error("save venue")
		os.Exit(1)
	}
	log.Info("venue loaded", "venue", v.ID, "sections", len(v.Sections), "seats", v.SeatCount())
}
