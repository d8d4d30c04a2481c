// Package events consumes post-mutation events and applies the cache
// consistency policy to them. Events are published by the write path
// after the store has acknowledged the mutation, which preserves the
// write-then-invalidate ordering without coupling this service to the
// writers.
package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	kf "github.com/segmentio/kafka-go"

	"newsfeed-service/internal/cachepolicy"
	"newsfeed-service/internal/registry"
)

type PostEvent struct {
	Type     string `json:"type"`
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
	ActorID  string `json:"actor_id,omitempty"`
}

type Consumer struct {
	policy   *cachepolicy.Policy
	registry *registry.Registry
}

func NewConsumer(p *cachepolicy.Policy, reg *registry.Registry) *Consumer {
	return &Consumer{policy: p, registry: reg}
}

// Run blocks reading the topic until ctx is cancelled. Bad payloads and
// handler failures are logged and skipped; the consumer never stops on
// a single poison message.
func (c *Consumer) Run(ctx context.Context, bootstrap, topic, groupID string) error {
	r := kf.NewReader(kf.ReaderConfig{
		Brokers:  strings.Split(bootstrap, ","),
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		MaxWait:  2 * time.Second,
	})
	defer r.Close()

	log.Printf("events consumer started group=%s topic=%s", groupID, topic)

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			return err
		}
		var ev PostEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Printf("events: bad payload: %v", err)
			continue
		}
		if err := c.handle(ctx, ev); err != nil {
			log.Printf("events: handle %s %s: %v", ev.Type, ev.PostID, err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, ev PostEvent) error {
	if err := c.policy.OnPostMutation(ctx, ev.PostID, cachepolicy.Mutation(ev.Type)); err != nil {
		return err
	}
	// Best-effort nudge to the post author's live connections.
	if c.registry != nil && ev.AuthorID != "" && ev.ActorID != ev.AuthorID {
		if b, err := json.Marshal(ev); err == nil {
			c.registry.Send(ev.AuthorID, b)
		}
	}
	return nil
}
