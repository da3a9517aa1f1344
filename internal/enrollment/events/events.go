// Package events publishes enrollment lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

type Type string

const (
	TypeEnrolled               Type = "enrolled"
	TypeUnenrolled             Type = "unenrolled"
	TypeTemplateAdded          Type = "certificate_template_added"
	TypeTemplateRemoved        Type = "certificate_template_removed"
	TypeParticipantsReconciled Type = "participants_reconciled"
)

// Event is the payload written to the enrollment topic. Records are keyed by
// batch id so a batch's events stay ordered within a partition.
type Event struct {
	Type       Type      `json:"type"`
	CourseID   string    `json:"courseId"`
	BatchID    string    `json:"batchId"`
	UserID     string    `json:"userId,omitempty"`
	TemplateID string    `json:"templateId,omitempty"`
	Added      []string  `json:"added,omitempty"`
	Removed    []string  `json:"removed,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// KafkaPublisher produces events synchronously to one topic.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(client *kgo.Client, topic string) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.BatchID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s event: %w", event.Type, err)
	}
	return nil
}

// LogPublisher writes events to the log and keeps nothing. It is the publisher
// used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.DebugContext(ctx, "enrollment event",
		"event_type", event.Type,
		"course_id", event.CourseID,
		"batch_id", event.BatchID,
		"user_id", event.UserID,
		"request_id", event.RequestID,
	)
	return nil
}

// Recorder keeps every event in memory. Tests only.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns the recorded events of type t.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
