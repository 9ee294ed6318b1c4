package validators

import (
  "fmt"
  "unicode/utf8"

  "scheduler.local/post-scheduler/config"
)

// contentLimits maps a platform type to its maximum content length in
// characters. Types missing from the map carry no limit.
var contentLimits = map[string]int{
  config.PLATFORM_TYPE_TWITTER:   280,
  config.PLATFORM_TYPE_LINKEDIN:  1300,
  config.PLATFORM_TYPE_INSTAGRAM: 2200,
}

type ContentViolation struct {
  PlatformType string
  Limit        int
}

func (e *ContentViolation) Error() string {
  return fmt.Sprintf("content exceeds the %d characters limit for %s", e.Limit, e.PlatformType)
}

// ValidateContent checks post content against the platform's length policy.
// Lengths are counted in runes, not bytes.
func ValidateContent(platformType string, content string) error {
  limit, ok := contentLimits[platformType]
  if !ok {
    return nil
  }
  if utf8.RuneCountInString(content) > limit {
    return &ContentViolation{
      PlatformType: platformType,
      Limit:        limit,
    }
  }
  return nil
}
