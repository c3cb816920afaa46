package usecase

import (
	"context"
	"encoding/json"
	"time"

	"BullBearPK/internal/domain/models"
	domrepo "BullBearPK/internal/domain/repository"
	pkgkafka "BullBearPK/pkg/kafka"
)

// KafkaRecordsHandler consumes relayed market records and writes them to the
// market store. It is the only ClickHouse writer when ingestion runs through
// the broker.
type KafkaRecordsHandler struct {
	topic   string
	store   domrepo.MarketStore
	metrics domrepo.Metrics
}

func NewKafkaRecordsHandler(topic string, store domrepo.MarketStore, metrics domrepo.Metrics) *KafkaRecordsHandler {
	return &KafkaRecordsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaRecordsHandler) Topic() string { return h.topic }

func (h *KafkaRecordsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol        string  `json:"symbol"`
		Name          string  `json:"name"`
		Sector        string  `json:"sector"`
		Open          float64 `json:"open"`
		High          float64 `json:"high"`
		Low           float64 `json:"low"`
		Close         float64 `json:"close"`
		Volume        int64   `json:"volume"`
		ChangeAmount  float64 `json:"change_amount"`
		ChangePercent float64 `json:"change_percent"`
		AsOf          int64   `json:"as_of"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.AsOf > 1e11 { // ms
		m.AsOf = m.AsOf / 1000
	}

	err := h.store.Store(ctx, &models.MarketRecord{
		Symbol:        m.Symbol,
		Name:          m.Name,
		Sector:        m.Sector,
		Open:          m.Open,
		High:          m.High,
		Low:           m.Low,
		Close:         m.Close,
		Volume:        m.Volume,
		ChangeAmount:  m.ChangeAmount,
		ChangePercent: m.ChangePercent,
		AsOf:          time.Unix(m.AsOf, 0).UTC(),
	})
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordIngested("clickhouse", 1)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaRecordsHandler)(nil)
