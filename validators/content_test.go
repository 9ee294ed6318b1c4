package validators

import (
  "strings"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "scheduler.local/post-scheduler/config"
)

func TestValidateContentBoundaries(t *testing.T) {
  cases := []struct {
    platformType string
    limit        int
  }{
    {config.PLATFORM_TYPE_TWITTER, 280},
    {config.PLATFORM_TYPE_LINKEDIN, 1300},
    {config.PLATFORM_TYPE_INSTAGRAM, 2200},
  }
  for _, c := range cases {
    t.Run(c.platformType, func(t *testing.T) {
      assert.NoError(t, ValidateContent(c.platformType, strings.Repeat("a", c.limit)))

      err := ValidateContent(c.platformType, strings.Repeat("a", c.limit+1))
      require.Error(t, err)
      violation := &ContentViolation{}
      require.ErrorAs(t, err, &violation)
      assert.Equal(t, c.limit, violation.Limit)
      assert.Contains(t, err.Error(), c.platformType)
    })
  }
}

func TestValidateContentCountsRunesNotBytes(t *testing.T) {
  // 280 three-byte runes are well over 280 bytes but exactly at the limit.
  assert.NoError(t, ValidateContent(config.PLATFORM_TYPE_TWITTER, strings.Repeat("日", 280)))
  assert.Error(t, ValidateContent(config.PLATFORM_TYPE_TWITTER, strings.Repeat("日", 281)))
}

func TestValidateContentUnknownTypeUnbounded(t *testing.T) {
  assert.NoError(t, ValidateContent("mastodon", strings.Repeat("a", 100000)))
  assert.NoError(t, ValidateContent("", strings.Repeat("a", 100000)))
}
