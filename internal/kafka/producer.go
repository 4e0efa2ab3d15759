package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// InteractionEvent 问答记录创建事件
type InteractionEvent struct {
	InteractionID     uint      `json:"interacao_id"`
	CourseID          uint      `json:"curso_id"`
	AIConfigurationID *uint     `json:"configuracao_ia_id"`
	Source            string    `json:"origem"`
	FallbackReason    string    `json:"motivo_fallback,omitempty"`
	TokensUsed        int       `json:"tokens_utilizados"`
	CreatedAt         time.Time `json:"data_criacao"`
}

// Producer Kafka 生产者
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewSaramaConfig 生产者默认配置
func NewSaramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Timeout = 10 * time.Second
	return config
}

// NewProducer 连接 brokers 并创建同步生产者
func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	logger.Info("Kafka producer ready", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return NewProducerWith(producer, topic, logger), nil
}

// NewProducerWith 使用已有的 SyncProducer（测试中为 mocks）
func NewProducerWith(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Producer {
	return &Producer{producer: producer, topic: topic, logger: logger}
}

// PublishInteractionCreated 发送事件，以课程 ID 作为分区键
func (p *Producer) PublishInteractionCreated(_ context.Context, event InteractionEvent) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal interaction event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.CourseID), 10)),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("interacao.criada")},
			{Key: []byte("origem"), Value: []byte(event.Source)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send interaction event: %w", err)
	}

	p.logger.Debug("Interaction event sent",
		zap.Uint("interaction_id", event.InteractionID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *Producer) Close() error {
	if p != nil && p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
