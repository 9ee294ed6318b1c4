package workers

import (
  "errors"
  "testing"

  "github.com/hibiken/asynq"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/tidwall/gjson"
  "gorm.io/gorm"

  "scheduler.local/post-scheduler/config"
  "scheduler.local/post-scheduler/models"
  "scheduler.local/post-scheduler/publishers"
)

type fakeStore struct {
  posts  map[string]*models.Post
  pivots map[string]string
  errors map[string]string
  extIDs map[string]string
  writes int
}

func newFakeStore(posts ...*models.Post) *fakeStore {
  s := &fakeStore{
    posts:  make(map[string]*models.Post),
    pivots: make(map[string]string),
    errors: make(map[string]string),
    extIDs: make(map[string]string),
  }
  for _, post := range posts {
    s.posts[post.ID] = post
  }
  return s
}

func (s *fakeStore) FindWithPlatform(postID string, platformID string) (*models.Post, error) {
  post, ok := s.posts[postID]
  if !ok {
    return nil, gorm.ErrRecordNotFound
  }
  clone := *post
  clone.Platforms = nil
  for _, platform := range post.Platforms {
    if platform.ID == platformID {
      clone.Platforms = append(clone.Platforms, platform)
    }
  }
  return &clone, nil
}

func (s *fakeStore) SetPivotStatus(postID string, platformID string, status string, values map[string]interface{}) error {
  key := postID + ":" + platformID
  s.pivots[key] = status
  if reason, ok := values["error"].(string); ok {
    s.errors[key] = reason
  }
  if externalID, ok := values["external_id"].(string); ok {
    s.extIDs[key] = externalID
  }
  s.writes++
  return nil
}

type fakePlatforms struct {
  platforms map[string]*models.Platform
}

func (s *fakePlatforms) Find(id string) (*models.Platform, error) {
  if platform, ok := s.platforms[id]; ok {
    return platform, nil
  }
  return nil, gorm.ErrRecordNotFound
}

// flakyPublisher fails its first n calls, then succeeds.
type flakyPublisher struct {
  calls    int
  failures int
}

func (p *flakyPublisher) Publish(post *models.Post) (string, error) {
  p.calls++
  if p.calls <= p.failures {
    return "", errors.New("gateway timeout")
  }
  return `{"id":"ext-1"}`, nil
}

type fakeSink struct {
  subjects []string
  payloads [][]byte
}

func (s *fakeSink) Publish(subject string, data []byte) error {
  s.subjects = append(s.subjects, subject)
  s.payloads = append(s.payloads, data)
  return nil
}

func twitterPlatform() *models.Platform {
  return &models.Platform{
    ID:   "pf-twitter",
    Name: "Twitter",
    Type: config.PLATFORM_TYPE_TWITTER,
  }
}

func newWorker(store *fakeStore, platforms *fakePlatforms, publisher publishers.Publisher, sink *fakeSink) *Posts {
  registry := publishers.NewRegistry()
  registry.Register(config.PLATFORM_TYPE_TWITTER, publisher)
  registry.Register(config.PLATFORM_TYPE_LINKEDIN, publisher)
  return &Posts{
    Repository:          store,
    PlatformsRepository: platforms,
    Publishers:          registry,
    Sink:                sink,
  }
}

func TestProcessPostMissing(t *testing.T) {
  store := newFakeStore()
  platforms := &fakePlatforms{platforms: map[string]*models.Platform{"pf-twitter": twitterPlatform()}}
  publisher := &flakyPublisher{}
  sink := &fakeSink{}
  h := newWorker(store, platforms, publisher, sink)

  err := h.process("p1", "pf-twitter", 0, 2)
  require.Error(t, err)
  assert.True(t, errors.Is(err, asynq.SkipRetry))
  assert.Equal(t, config.PIVOT_STATUS_FAILED, store.pivots["p1:pf-twitter"])
  assert.Zero(t, publisher.calls)
  assert.Len(t, sink.subjects, 1)
}

func TestProcessNotAssociated(t *testing.T) {
  post := &models.Post{
    ID:      "p1",
    Content: "hello",
    Status:  config.POST_STATUS_SCHEDULED,
    Platforms: []*models.Platform{
      {ID: "pf-other", Type: config.PLATFORM_TYPE_LINKEDIN},
    },
  }
  store := newFakeStore(post)
  platforms := &fakePlatforms{platforms: map[string]*models.Platform{"pf-twitter": twitterPlatform()}}
  publisher := &flakyPublisher{}
  sink := &fakeSink{}
  h := newWorker(store, platforms, publisher, sink)

  err := h.process("p1", "pf-twitter", 0, 2)
  require.Error(t, err)
  assert.True(t, errors.Is(err, asynq.SkipRetry))
  assert.Equal(t, config.PIVOT_STATUS_FAILED, store.pivots["p1:pf-twitter"])
  assert.Contains(t, store.errors["p1:pf-twitter"], "not associated")
  assert.Zero(t, publisher.calls, "publish capability must not run for an unassociated pair")
}

func TestProcessContentViolation(t *testing.T) {
  content := make([]rune, 300)
  for i := range content {
    content[i] = 'x'
  }
  post := &models.Post{
    ID:        "p1",
    Content:   string(content),
    Status:    config.POST_STATUS_SCHEDULED,
    Platforms: []*models.Platform{twitterPlatform()},
  }
  store := newFakeStore(post)
  platforms := &fakePlatforms{platforms: map[string]*models.Platform{"pf-twitter": twitterPlatform()}}
  publisher := &flakyPublisher{}
  sink := &fakeSink{}
  h := newWorker(store, platforms, publisher, sink)

  err := h.process("p1", "pf-twitter", 0, 2)
  require.NoError(t, err, "a permanent rejection must not be retried")
  assert.Equal(t, config.PIVOT_STATUS_FAILED, store.pivots["p1:pf-twitter"])
  assert.Contains(t, store.errors["p1:pf-twitter"], "280")
  assert.Zero(t, publisher.calls)
  assert.Empty(t, sink.subjects)
}

func TestProcessRetriesThenPublishes(t *testing.T) {
  post := &models.Post{
    ID:        "p1",
    Content:   "hello",
    Status:    config.POST_STATUS_SCHEDULED,
    Platforms: []*models.Platform{twitterPlatform()},
  }
  store := newFakeStore(post)
  platforms := &fakePlatforms{platforms: map[string]*models.Platform{"pf-twitter": twitterPlatform()}}
  publisher := &flakyPublisher{failures: 2}
  sink := &fakeSink{}
  h := newWorker(store, platforms, publisher, sink)

  require.Error(t, h.process("p1", "pf-twitter", 0, 2))
  assert.Equal(t, config.PIVOT_STATUS_FAILED, store.pivots["p1:pf-twitter"])

  require.Error(t, h.process("p1", "pf-twitter", 1, 2))
  assert.Equal(t, config.PIVOT_STATUS_FAILED, store.pivots["p1:pf-twitter"])

  require.NoError(t, h.process("p1", "pf-twitter", 2, 2))
  assert.Equal(t, config.PIVOT_STATUS_PUBLISHED, store.pivots["p1:pf-twitter"])
  assert.Equal(t, "ext-1", store.extIDs["p1:pf-twitter"])
  assert.Equal(t, 3, publisher.calls)
  assert.Empty(t, sink.subjects, "a unit that eventually publishes must not alert")
}

func TestProcessExhaustedAttemptsNotifiesOnce(t *testing.T) {
  post := &models.Post{
    ID:        "p1",
    Content:   "hello",
    Status:    config.POST_STATUS_SCHEDULED,
    Platforms: []*models.Platform{twitterPlatform()},
  }
  store := newFakeStore(post)
  platforms := &fakePlatforms{platforms: map[string]*models.Platform{"pf-twitter": twitterPlatform()}}
  publisher := &flakyPublisher{failures: 3}
  sink := &fakeSink{}
  h := newWorker(store, platforms, publisher, sink)

  require.Error(t, h.process("p1", "pf-twitter", 0, 2))
  require.Error(t, h.process("p1", "pf-twitter", 1, 2))
  require.Error(t, h.process("p1", "pf-twitter", 2, 2))

  assert.Equal(t, config.PIVOT_STATUS_FAILED, store.pivots["p1:pf-twitter"])
  assert.Equal(t, 3, publisher.calls)
  require.Len(t, sink.subjects, 1)
  assert.Equal(t, config.NATS_POSTS_PUBLISH_FAILED, sink.subjects[0])
  assert.Equal(t, int64(3), gjson.GetBytes(sink.payloads[0], "attempts").Int())
  assert.Equal(t, "p1", gjson.GetBytes(sink.payloads[0], "post_id").String())
}

func TestProcessUnknownPlatformTypeBestEffort(t *testing.T) {
  unknown := &models.Platform{
    ID:   "pf-mastodon",
    Name: "Mastodon",
    Type: "mastodon",
  }
  post := &models.Post{
    ID:        "p1",
    Content:   "hello",
    Status:    config.POST_STATUS_SCHEDULED,
    Platforms: []*models.Platform{unknown},
  }
  store := newFakeStore(post)
  platforms := &fakePlatforms{platforms: map[string]*models.Platform{"pf-mastodon": unknown}}
  publisher := &flakyPublisher{failures: 99}
  sink := &fakeSink{}
  h := newWorker(store, platforms, publisher, sink)

  require.NoError(t, h.process("p1", "pf-mastodon", 0, 2))
  assert.Equal(t, config.PIVOT_STATUS_PUBLISHED, store.pivots["p1:pf-mastodon"])
  assert.Zero(t, publisher.calls, "unknown types route to the no-op fallback")
}

func TestProcessRepublishIsIdempotent(t *testing.T) {
  post := &models.Post{
    ID:        "p1",
    Content:   "hello",
    Status:    config.POST_STATUS_SCHEDULED,
    Platforms: []*models.Platform{twitterPlatform()},
  }
  store := newFakeStore(post)
  platforms := &fakePlatforms{platforms: map[string]*models.Platform{"pf-twitter": twitterPlatform()}}
  publisher := &flakyPublisher{}
  sink := &fakeSink{}
  h := newWorker(store, platforms, publisher, sink)

  require.NoError(t, h.process("p1", "pf-twitter", 0, 2))
  require.NoError(t, h.process("p1", "pf-twitter", 0, 2))
  assert.Equal(t, config.PIVOT_STATUS_PUBLISHED, store.pivots["p1:pf-twitter"])
  assert.Empty(t, sink.subjects)
}
