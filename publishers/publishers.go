package publishers

import (
  "time"

  "scheduler.local/post-scheduler/config"
  "scheduler.local/post-scheduler/models"
)

// Publisher pushes one post to one external platform and returns the raw
// JSON response of the platform API.
type Publisher interface {
  Publish(post *models.Post) (string, error)
}

type Registry struct {
  entries  map[string]Publisher
  fallback Publisher
}

// NewRegistry wires the known platform types. Unregistered types resolve to
// a best-effort no-op publisher.
func NewRegistry() *Registry {
  r := &Registry{
    entries:  make(map[string]Publisher),
    fallback: &Noop{},
  }
  r.Register(config.PLATFORM_TYPE_TWITTER, &Twitter{Latency: time.Second})
  r.Register(config.PLATFORM_TYPE_LINKEDIN, &LinkedIn{Latency: time.Second})
  r.Register(config.PLATFORM_TYPE_INSTAGRAM, &Instagram{Latency: time.Second})
  return r
}

func (r *Registry) Register(platformType string, publisher Publisher) {
  r.entries[platformType] = publisher
}

func (r *Registry) Get(platformType string) Publisher {
  if publisher, ok := r.entries[platformType]; ok {
    return publisher
  }
  return r.fallback
}

type Noop struct{}

func (p *Noop) Publish(post *models.Post) (string, error) {
  return "{}", nil
}
