package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/career-wizard/internal/domain/events"
	"github.com/maxaizer/career-wizard/internal/logger"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"time"
)

const CareerPublishedCommand = "CAREER_PUBLISHED"

type Message struct {
	Command   string    `json:"command"`
	CareerID  string    `json:"careerID"`
	OrgID     string    `json:"orgID"`
	JobTitle  string    `json:"jobTitle"`
	Created   bool      `json:"created"`
	Timestamp time.Time `json:"timestamp"`
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Redis forwards career-published events to a Redis channel for downstream workers.
type Redis struct {
	client  publisher
	channel string
	timeout time.Duration
}

func NewRedis(ctx context.Context, addr, password, channel string) (*Redis, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedis(client, channel), client, nil
}

func newRedis(client publisher, channel string) *Redis {
	return &Redis{client: client, channel: channel, timeout: 5 * time.Second}
}

// Subscribe attaches the notifier to the bus asynchronously so saves never wait on Redis.
func (r *Redis) Subscribe(bus EventBus.Bus) error {
	return bus.SubscribeAsync(events.CareerPublishedTopic, r.onCareerPublished, false)
}

func (r *Redis) onCareerPublished(event events.CareerPublished) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.Notify(ctx, event); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeRedis).
			Errorf("failed to publish career %s: %v", event.Career.ID, err)
	}
}

func (r *Redis) Notify(ctx context.Context, event events.CareerPublished) error {
	payload, err := json.Marshal(newMessage(event))
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

func newMessage(event events.CareerPublished) Message {
	return Message{
		Command:   CareerPublishedCommand,
		CareerID:  event.Career.ID,
		OrgID:     event.Career.OrgID,
		JobTitle:  event.Career.Title,
		Created:   event.Created,
		Timestamp: event.Career.UpdatedAt,
	}
}
