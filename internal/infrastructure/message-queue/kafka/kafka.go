package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/rakhadavedra/user-management-service/config"
)

func CreateKafkaProducer(conf *config.Config) (*kafka.Conn, error) {
	conn, err := kafka.DialLeader(context.Background(), "tcp", conf.KafkaConfig.BrokerAddress, conf.KafkaConfig.BrokerTopic, conf.KafkaConfig.BrokerPartition)
	if err != nil {
		return nil, err
	}

	return conn, nil
}
