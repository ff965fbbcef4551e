package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type TracingConfig struct {
	CollectorHost string
}

type Config struct {
	PostgreSQLConfig PostgreSQLConfig
	KafkaConfig      KafkaConfig
	TracingConfig    TracingConfig
	JWTSecret        string
	ServicePort      string
	MetricsPort      string
	Environment      string
	AllowedOrigins   string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ServicePort:    os.Getenv("SERVICE_PORT"),
		MetricsPort:    os.Getenv("METRICS_PORT"),
		Environment:    os.Getenv("ENVIRONMENT"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
	}

	if conf.ServicePort == "" {
		conf.ServicePort = "8000"
	}

	brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION"))
	if err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	return &conf
}
