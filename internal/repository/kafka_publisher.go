package repository

import (
	"context"
	"time"

	"BullBearPK/internal/domain/models"
	"BullBearPK/internal/domain/repository"
	pkgkafka "BullBearPK/pkg/kafka"
)

// KafkaRecordPublisher relays validated market records onto the broker.
type KafkaRecordPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaRecordPublisher(producer *pkgkafka.Producer, topic string) repository.RecordPublisher {
	return &KafkaRecordPublisher{producer: producer, topic: topic}
}

func recordPayload(rec *models.MarketRecord) map[string]interface{} {
	return map[string]interface{}{
		"symbol":         rec.Symbol,
		"name":           rec.Name,
		"sector":         rec.Sector,
		"open":           rec.Open,
		"high":           rec.High,
		"low":            rec.Low,
		"close":          rec.Close,
		"volume":         rec.Volume,
		"change_amount":  rec.ChangeAmount,
		"change_percent": rec.ChangePercent,
		"as_of":          rec.AsOf.Unix(),
	}
}

func (p *KafkaRecordPublisher) Publish(ctx context.Context, rec *models.MarketRecord) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Symbol), recordPayload(rec))
}

func (p *KafkaRecordPublisher) PublishBatch(ctx context.Context, recs []*models.MarketRecord) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(recs))
	for i, rec := range recs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(rec.Symbol),
			Value: recordPayload(rec),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaRecordPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// KafkaRunPublisher emits one event per completed pipeline run. Delivery is
// best effort; the caller logs failures and moves on.
type KafkaRunPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaRunPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaRunPublisher{producer: producer, topic: topic}
}

func (p *KafkaRunPublisher) PublishRun(ctx context.Context, result *models.PipelineResult) error {
	recs := make([]map[string]interface{}, 0, len(result.Recommendations))
	for _, r := range result.Recommendations {
		recs = append(recs, map[string]interface{}{
			"symbol":     r.Symbol,
			"type":       r.Type,
			"confidence": r.Confidence,
			"risk_level": r.RiskLevel,
		})
	}
	return p.producer.Publish(ctx, p.topic, []byte(result.UserID), map[string]interface{}{
		"submission_id":   result.SubmissionID,
		"user_id":         result.UserID,
		"success":         result.Success,
		"recommendations": recs,
		"completed_at":    result.CompletedAt.Format(time.RFC3339),
	})
}

func (p *KafkaRunPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
