package validators

import (
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "scheduler.local/post-scheduler/config"
)

type fakeCounter struct {
  counts map[string]int64
  asked  []string
}

func (c *fakeCounter) CountScheduledOnDate(userID string, date string) int64 {
  c.asked = append(c.asked, userID+"@"+date)
  return c.counts[userID+"@"+date]
}

func TestValidateIgnoresUnscheduledStatuses(t *testing.T) {
  counter := &fakeCounter{counts: map[string]int64{}}
  v := &ScheduleLimitValidator{Counter: counter, Limit: 5}

  assert.NoError(t, v.Validate("u1", config.POST_STATUS_DRAFT, nil))
  assert.NoError(t, v.Validate("u1", config.POST_STATUS_PUBLISHED, nil))
  assert.Empty(t, counter.asked)
}

func TestValidateRequiresScheduleTime(t *testing.T) {
  v := &ScheduleLimitValidator{Counter: &fakeCounter{}, Limit: 5}
  err := v.Validate("u1", config.POST_STATUS_SCHEDULED, nil)
  assert.ErrorIs(t, err, ErrMissingScheduleTime)
}

func TestValidateAdmitsUnderLimit(t *testing.T) {
  scheduledAt := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
  counter := &fakeCounter{counts: map[string]int64{"u1@2025-06-01": 4}}
  v := &ScheduleLimitValidator{Counter: counter, Limit: 5}

  assert.NoError(t, v.Validate("u1", config.POST_STATUS_SCHEDULED, &scheduledAt))
}

func TestValidateRejectsAtLimit(t *testing.T) {
  scheduledAt := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
  counter := &fakeCounter{counts: map[string]int64{"u1@2025-06-01": 5}}
  v := &ScheduleLimitValidator{Counter: counter, Limit: 5}

  err := v.Validate("u1", config.POST_STATUS_SCHEDULED, &scheduledAt)
  require.Error(t, err)
  limitErr := &DailyLimitError{}
  require.ErrorAs(t, err, &limitErr)
  assert.Equal(t, 5, limitErr.Limit)
  assert.Contains(t, err.Error(), "5")
}

func TestValidateBucketsByCalendarDate(t *testing.T) {
  // Same day, different time of day: the count key is the date only.
  scheduledAt := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
  counter := &fakeCounter{counts: map[string]int64{}}
  v := &ScheduleLimitValidator{Counter: counter, Limit: 5}

  require.NoError(t, v.Validate("u1", config.POST_STATUS_SCHEDULED, &scheduledAt))
  require.Len(t, counter.asked, 1)
  assert.Equal(t, "u1@2025-06-01", counter.asked[0])
}
