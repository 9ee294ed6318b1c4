package validators

import (
  "errors"
  "fmt"
  "time"

  "scheduler.local/post-scheduler/config"
)

var ErrMissingScheduleTime = errors.New("scheduled date is required for scheduled posts")

type DailyLimitError struct {
  Limit int
}

func (e *DailyLimitError) Error() string {
  return fmt.Sprintf("you have reached the daily limit of %d scheduled posts", e.Limit)
}

// ScheduledCounter reports how many posts a user already holds in scheduled
// state on a calendar date.
type ScheduledCounter interface {
  CountScheduledOnDate(userID string, date string) int64
}

// ScheduleLimitValidator admits a post into scheduled state only while the
// user stays under the per-day cap. Callers serialize concurrent admissions
// for the same user and day around Validate.
type ScheduleLimitValidator struct {
  Counter ScheduledCounter
  Limit   int
}

func (v *ScheduleLimitValidator) Validate(userID string, status string, scheduledAt *time.Time) error {
  if status != config.POST_STATUS_SCHEDULED {
    return nil
  }
  if scheduledAt == nil {
    return ErrMissingScheduleTime
  }
  count := v.Counter.CountScheduledOnDate(userID, ScheduleDate(*scheduledAt))
  if count >= int64(v.Limit) {
    return &DailyLimitError{Limit: v.Limit}
  }
  return nil
}

// ScheduleDate buckets an instant to its calendar date.
func ScheduleDate(t time.Time) string {
  return t.Format("2006-01-02")
}
