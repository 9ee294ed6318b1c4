package publishers

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/tidwall/gjson"

  "scheduler.local/post-scheduler/config"
  "scheduler.local/post-scheduler/models"
)

func TestRegistryFallsBackToNoop(t *testing.T) {
  r := NewRegistry()
  publisher := r.Get("mastodon")
  require.NotNil(t, publisher)

  response, err := publisher.Publish(&models.Post{Content: "hello"})
  require.NoError(t, err)
  assert.Equal(t, "{}", response)
}

func TestRegistryOverride(t *testing.T) {
  r := NewRegistry()
  noop := &Noop{}
  r.Register(config.PLATFORM_TYPE_TWITTER, noop)
  assert.Same(t, noop, r.Get(config.PLATFORM_TYPE_TWITTER))
}

func TestTwitterResponseCarriesExternalID(t *testing.T) {
  p := &Twitter{}
  response, err := p.Publish(&models.Post{Content: "hello"})
  require.NoError(t, err)
  assert.NotEmpty(t, gjson.Get(response, "id").String())
  assert.Contains(t, gjson.Get(response, "url").String(), "twitter.com")
  assert.Equal(t, "hello", gjson.Get(response, "text").String())
}

func TestLinkedInResponseCarriesExternalID(t *testing.T) {
  p := &LinkedIn{}
  response, err := p.Publish(&models.Post{Content: "hello"})
  require.NoError(t, err)
  assert.NotEmpty(t, gjson.Get(response, "id").String())
}

func TestInstagramResponseCarriesExternalID(t *testing.T) {
  p := &Instagram{}
  response, err := p.Publish(&models.Post{ImageURL: "https://example.com/a.jpg"})
  require.NoError(t, err)
  assert.NotEmpty(t, gjson.Get(response, "id").String())
  assert.Equal(t, "https://example.com/a.jpg", gjson.Get(response, "media_url").String())
}
