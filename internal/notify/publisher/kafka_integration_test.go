//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"ireporter/internal/notify"
	"ireporter/internal/notify/publisher"
	"ireporter/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	topic    string
	pub      *publisher.Kafka
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redpanda = mgr.GetRedpanda(s.T())
}

func (s *KafkaPublisherSuite) SetupTest() {
	// A fresh topic per test keeps consumed offsets out of the way.
	s.topic = "notifications-" + uuid.NewString()

	pub, err := publisher.NewKafka(s.redpanda.Brokers, s.topic)
	s.Require().NoError(err)
	s.pub = pub

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(pub.EnsureTopic(ctx, 1, 1))
}

func (s *KafkaPublisherSuite) TearDownTest() {
	if s.pub != nil {
		s.pub.Close()
	}
}

func (s *KafkaPublisherSuite) TestEnsureTopicIsIdempotent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(s.pub.EnsureTopic(ctx, 1, 1))
}

func (s *KafkaPublisherSuite) TestPublishKeysByRecipient() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ev := notify.Event{
		ID:        uuid.NewString(),
		Kind:      notify.KindStatusChange,
		Recipient: "jane@example.com",
		RecordID:  "rec-1",
		Status:    "resolved",
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.pub.Publish(ctx, ev))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	fetches := client.PollFetches(ctx)
	s.Require().NoError(fetches.Err())

	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal("jane@example.com", string(records[0].Key))

	var got notify.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(ev.ID, got.ID)
	s.Equal(notify.KindStatusChange, got.Kind)
	s.Equal("resolved", got.Status)
}
