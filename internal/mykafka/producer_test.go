package mykafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer([]string{" ", ""})
	assert.Error(t, err)

	p, err := NewProducer([]string{"kafka:9092"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestPublishEvent_WritesKeyedJSON(t *testing.T) {
	w := &recordingWriter{}
	at := time.Unix(1_700_000_000, 0)
	p := &Producer{writer: w, now: func() time.Time { return at }}

	ev := Event{Type: "user_registered", At: at, Payload: map[string]any{"email": "ann@garage.io"}}
	require.NoError(t, p.PublishEvent(context.Background(), TopicUsers, "7", ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, TopicUsers, msg.Topic)
	assert.Equal(t, "7", string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "user_registered", got["type"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestEmit_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))
	p := &Producer{writer: &recordingWriter{err: errors.New("broker down")}, now: time.Now}

	Emit(context.Background(), p, l, TopicGarages, 3, NewEvent("garage_created", nil))

	assert.Contains(t, buf.String(), "event_publish_failed")
	assert.Contains(t, buf.String(), "broker down")

	Emit(context.Background(), NopPublisher{}, l, TopicGarages, 3, NewEvent("garage_created", nil))
	Emit(context.Background(), nil, l, TopicGarages, 3, NewEvent("garage_created", nil))
}
