package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"MacroPull/internal/domain/models"
	"MacroPull/internal/domain/repository"
	pkgkafka "MacroPull/pkg/kafka"
)

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db        *sql.DB
	table     string
	batchSize int
}

// NewClickHouseStorage creates ClickHouse storage. batchSize bounds the
// rows per INSERT statement; <= 0 falls back to 2000.
func NewClickHouseStorage(db *sql.DB, table string, batchSize int) repository.Storage {
	if batchSize <= 0 {
		batchSize = 2000
	}
	return &ClickHouseStorage{db: db, table: table, batchSize: batchSize}
}

func (s *ClickHouseStorage) Store(ctx context.Context, o *models.Observation) error {
	q := fmt.Sprintf("INSERT INTO %s (series_id, date, value) VALUES (?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q, o.SeriesID, o.Date, o.Value)
	return err
}

func (s *ClickHouseStorage) StoreBatch(ctx context.Context, obs []*models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	// One refresh pass yields at most a few dozen rows, but chunk anyway
	// so a config with a huge trailing window cannot build an unbounded
	// statement.
	for start := 0; start < len(obs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(obs) {
			end = len(obs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*3)
		for _, o := range obs[start:end] {
			if o == nil || o.SeriesID == "" {
				continue
			}
			values = append(values, "(?, ?, ?)")
			args = append(args, o.SeriesID, o.Date, o.Value)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (series_id, date, value) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, o *models.Observation) error {
	return p.producer.Publish(ctx, p.topic, []byte(o.SeriesID), map[string]interface{}{
		"series_id": o.SeriesID,
		"date":      o.Date.Unix(),
		"value":     o.Value,
	})
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, obs []*models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(obs))
	for i, o := range obs {
		msgs[i] = pkgkafka.Message{
			Key: []byte(o.SeriesID),
			Value: map[string]interface{}{
				"series_id": o.SeriesID,
				"date":      o.Date.Unix(),
				"value":     o.Value,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
