package main

import (
	"context"
	"log"

	"github.com/rakhadavedra/user-management-service/config"
	"github.com/rakhadavedra/user-management-service/internal/app"

	postgresDriver "github.com/rakhadavedra/user-management-service/internal/infrastructure/database/postgres"
	kafkaDriver "github.com/rakhadavedra/user-management-service/internal/infrastructure/message-queue/kafka"
)

func main() {
	conf := config.CreateNewConfig()

	db, err := postgresDriver.ConnectDB(conf.PostgreSQLConfig)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	if err := postgresDriver.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	server := app.App{
		DB:     db,
		Config: conf,
	}

	if conf.KafkaConfig.BrokerAddress != "" {
		producer, err := kafkaDriver.CreateKafkaProducer(conf)
		if err != nil {
			log.Fatalf("Failed to connect to the message broker: %v", err)
		}
		server.KafkaProducer = producer
	}

	server.Start()
}
