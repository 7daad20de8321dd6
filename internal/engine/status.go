package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/arkandaru/simdoc/internal/infra/redis"
	"github.com/arkandaru/simdoc/internal/models"
	"github.com/rs/zerolog/log"
)

// UpdateStatus mirrors a check's current step into a Redis key the dashboard
// can poll cheaply while the pipeline runs.
func UpdateStatus(ctx context.Context, redisClient *redis.Client, checkID int64, step models.Step) error {
	validSteps := map[models.Step]bool{
		models.StepQueued:     true,
		models.StepProcessing: true,
		models.StepDone:       true,
		models.StepFailed:     true,
		models.StepCancelled:  true,
	}
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}

	rkey := "check_status:" + strconv.FormatInt(checkID, 10)

	err := redisClient.Set(ctx, rkey, string(step), 12*time.Hour).Err()
	if err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Int64("checkID", checkID).
			Str("redisKey", rkey).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Int64("checkID", checkID).
		Msg("Status updated in Redis")

	return nil
}
