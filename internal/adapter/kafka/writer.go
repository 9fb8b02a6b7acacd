package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/summit-forecast-etl/internal/config"
	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes forecast-updated events to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured forecast topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// ForecastUpdated is the event body: the headline of a persisted record
// without the hourly arrays.
type ForecastUpdated struct {
	RunID          string                `json:"run_id,omitempty"`
	PeakID         string                `json:"peak_id"`
	RiskScore      int                   `json:"risk_score"`
	RiskLevel      domain.RiskLevel      `json:"risk_level"`
	ConditionFlags domain.ConditionFlags `json:"condition_flags"`
	SummitWindow   domain.SummitWindow   `json:"summit_window"`
	StormEta       *time.Time            `json:"storm_eta"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// PublishForecasts writes one event per record in a single WriteMessages call.
// Records are keyed by peak id so updates for a peak stay ordered.
func (w *Writer) PublishForecasts(ctx context.Context, runID string, records []domain.ForecastRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(runID, records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d forecast events: %w", len(msgs), err)
	}
	w.logger.Debug("forecast events published", "count", len(msgs), "run_id", runID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastRecord headline into a Kafka message.
func serializeToMessage(runID string, rec domain.ForecastRecord) (kafkago.Message, error) {
	data, err := json.Marshal(ForecastUpdated{
		RunID:          runID,
		PeakID:         rec.PeakID,
		RiskScore:      rec.RiskScore,
		RiskLevel:      rec.RiskLevel,
		ConditionFlags: rec.ConditionFlags,
		SummitWindow:   rec.SummitWindow,
		StormEta:       rec.StormEta,
		UpdatedAt:      rec.UpdatedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast %s: %w", rec.PeakID, err)
	}
	return kafkago.Message{
		Key:   []byte(rec.PeakID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(rec.RiskLevel)},
			{Key: "updated_at", Value: []byte(rec.UpdatedAt.Format(time.RFC3339))},
		},
	}, nil
}
