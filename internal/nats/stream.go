package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

const (
	// StreamName is the name of the workspace record stream.
	StreamName = "WORKSPACE"

	// SubjectPrefix is the prefix for all workspace subjects.
	SubjectPrefix = "ws"

	// SnapshotBucketName is the KV bucket holding capped snapshot lists.
	SnapshotBucketName = "workspace_snapshots"
)

// StreamLog is the durable log of backend records per conversation. It is
// the replay source when a conversation is loaded into a workspace.
type StreamLog struct {
	client *Client
}

// NewStreamLog creates a new stream log.
func NewStreamLog(client *Client) *StreamLog {
	return &StreamLog{client: client}
}

// EnsureStream ensures the workspace stream exists with proper configuration.
func (l *StreamLog) EnsureStream(ctx context.Context) error {
	js := l.client.JetStream()

	// Check if stream exists
	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil // Stream already exists
	}

	// Create stream
	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      365 * 24 * time.Hour,
		MaxBytes:    100 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "All workspace conversation records",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// RecordSubject returns the subject for a backend record.
func RecordSubject(orgID, conversationID string, recordType model.RecordType) string {
	return fmt.Sprintf("%s.%s.%s.rec.%s", SubjectPrefix, orgID, conversationID, recordType)
}

// ConversationFilter returns the filter subject for all records in a
// conversation.
func ConversationFilter(orgID, conversationID string) string {
	return fmt.Sprintf("%s.%s.%s.>", SubjectPrefix, orgID, conversationID)
}

// PublishRecord publishes a backend record to JetStream.
func (l *StreamLog) PublishRecord(ctx context.Context, orgID, conversationID string, rec *model.BackendRecord) (uint64, error) {
	subject := RecordSubject(orgID, conversationID, rec.Type)

	data, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal record: %w", err)
	}

	ack, err := l.client.JetStream().Publish(ctx, subject, data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish record: %w", err)
	}

	return ack.Sequence, nil
}

// ReplayRecords retrieves all records for a conversation in publish order.
func (l *StreamLog) ReplayRecords(ctx context.Context, orgID, conversationID string, limit int) ([]model.BackendRecord, error) {
	js := l.client.JetStream()

	consumer, err := js.CreateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		FilterSubject: ConversationFilter(orgID, conversationID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	if limit <= 0 {
		limit = 1000
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	var records []model.BackendRecord
	for msg := range batch.Messages() {
		var rec model.BackendRecord
		if err := json.Unmarshal(msg.Data(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	if batch.Error() != nil && batch.Error() != context.DeadlineExceeded {
		return nil, fmt.Errorf("batch error: %w", batch.Error())
	}

	return records, nil
}

// SnapshotBucket returns the KV bucket for capped snapshot lists, creating
// it on first use.
func (l *StreamLog) SnapshotBucket(ctx context.Context) (jetstream.KeyValue, error) {
	js := l.client.JetStream()

	kv, err := js.KeyValue(ctx, SnapshotBucketName)
	if err == nil {
		return kv, nil
	}

	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      SnapshotBucketName,
		Description: "Per-user capped workspace snapshot lists",
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot bucket: %w", err)
	}
	return kv, nil
}
