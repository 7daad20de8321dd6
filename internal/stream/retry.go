package stream

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxAttempts = 3

// RetryHandler retries a failing message handler with exponential backoff and
// parks messages that keep failing on a dead-letter list.
type RetryHandler struct {
	client        *redis.Client
	deadLetterKey string
	baseDelay     time.Duration
}

func NewRetryHandler(client *redis.Client, deadLetterKey string) *RetryHandler {
	return &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
		baseDelay:     500 * time.Millisecond,
	}
}

// RetryWithBackoff runs fn up to maxAttempts times. After the final failure
// the original message is pushed to the dead-letter list so it is never lost.
func (r *RetryHandler) RetryWithBackoff(ctx context.Context, fn func() error, messageID string, fields map[string]interface{}) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		log.Warn().
			Err(lastErr).
			Str("message_id", messageID).
			Int("attempt", attempt).
			Msg("Message handler failed")

		if attempt == maxAttempts {
			break
		}

		delay := r.baseDelay * time.Duration(1<<(attempt-1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if err := r.sendToDeadLetter(ctx, messageID, fields); err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("Failed to push message to dead letter queue")
	}

	return lastErr
}

func (r *RetryHandler) sendToDeadLetter(ctx context.Context, messageID string, fields map[string]interface{}) error {
	entry := map[string]interface{}{
		"message_id": messageID,
		"failed_at":  time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		entry["field_"+k] = v
	}

	if err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.deadLetterKey,
		Values: entry,
	}).Err(); err != nil {
		return err
	}

	log.Info().Str("message_id", messageID).Str("dlq", r.deadLetterKey).Msg("Message parked in dead letter queue")
	return nil
}
