// Package kafka announces finished quality reports on a Kafka topic so
// downstream consumers can react to new package revisions.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-quality-monitor/internal/domain"
)

// Publisher produces one message per stored package revision.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the report topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes the report and writes it keyed by package name, so all
// revisions of one package land on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, pkg string, version int64, report domain.QualityReport) error {
	msg, err := serializeToMessage(pkg, version, report)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write report message: %w", err)
	}
	p.logger.Debug("report published", "package", pkg, "version", version)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a report into a Kafka message with the package
// coordinates as headers.
func serializeToMessage(pkg string, version int64, report domain.QualityReport) (kafkago.Message, error) {
	data, err := domain.EncodeReport(report)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte(pkg),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "package", Value: []byte(pkg)},
			{Key: "version", Value: []byte(strconv.FormatInt(version, 10))},
			{Key: "top_hash", Value: []byte(domain.ReportDigest(report))},
			{Key: "assessed_at", Value: []byte(report.Timestamp.UTC().Format(time.RFC3339))},
		},
	}, nil
}
