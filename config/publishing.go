package config

import (
  "os"
  "strconv"
  "strings"
  "time"
)

var backoffDefault = []time.Duration{
  30 * time.Second,
  60 * time.Second,
  120 * time.Second,
}

// ScheduleDailyLimit is the number of posts a user may hold in scheduled
// state per calendar day.
func ScheduleDailyLimit() int {
  if value, err := strconv.Atoi(os.Getenv("SCHEDULE_DAILY_LIMIT")); err == nil && value > 0 {
    return value
  }
  return SCHEDULE_DAILY_LIMIT_DEFAULT
}

// PublishMaxAttempts is the total attempt budget of one dispatch unit,
// the first run included.
func PublishMaxAttempts() int {
  if value, err := strconv.Atoi(os.Getenv("PUBLISH_MAX_ATTEMPTS")); err == nil && value > 0 {
    return value
  }
  return PUBLISH_MAX_ATTEMPTS_DEFAULT
}

// PublishBackoffSchedule parses PUBLISH_BACKOFF ("30,60,120", seconds) into
// the fixed delay sequence between attempts.
func PublishBackoffSchedule() []time.Duration {
  value := os.Getenv("PUBLISH_BACKOFF")
  if value == "" {
    return backoffDefault
  }
  var schedule []time.Duration
  for _, item := range strings.Split(value, ",") {
    seconds, err := strconv.Atoi(strings.TrimSpace(item))
    if err != nil || seconds < 0 {
      return backoffDefault
    }
    schedule = append(schedule, time.Duration(seconds)*time.Second)
  }
  if len(schedule) == 0 {
    return backoffDefault
  }
  return schedule
}

// PublishBackoff returns the delay before re-running a unit that has already
// been retried n times. Past the end of the schedule the last delay repeats.
func PublishBackoff(n int) time.Duration {
  schedule := PublishBackoffSchedule()
  if n < 0 {
    n = 0
  }
  if n >= len(schedule) {
    n = len(schedule) - 1
  }
  return schedule[n]
}

// ScheduleTimeFilter reports whether the due-post sweep honours scheduled_at
// or runs in relaxed mode picking up every scheduled post.
func ScheduleTimeFilter() bool {
  value := strings.ToLower(os.Getenv("SCHEDULE_TIME_FILTER"))
  if value == "false" || value == "0" || value == "off" {
    return false
  }
  return true
}

func CronDispatchInterval() string {
  if value := os.Getenv("CRON_DISPATCH_INTERVAL"); value != "" {
    return value
  }
  return "@every 1m"
}
