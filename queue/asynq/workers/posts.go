package workers

import (
  "context"
  "encoding/json"
  "fmt"
  "log"
  "time"

  "github.com/hibiken/asynq"
  "github.com/tidwall/gjson"

  "scheduler.local/post-scheduler/common"
  "scheduler.local/post-scheduler/config"
  "scheduler.local/post-scheduler/publishers"
  "scheduler.local/post-scheduler/queue/asynq/jobs"
  "scheduler.local/post-scheduler/repositories"
  "scheduler.local/post-scheduler/validators"
)

// Sink receives terminal failure notifications. Satisfied by *nats.Conn.
type Sink interface {
  Publish(subject string, data []byte) error
}

// Posts runs dispatch units for the publishing queue. One task publishes
// one post to one platform and owns that pivot row while it runs.
type Posts struct {
  AnsqContext         *common.AnsqServerContext
  Repository          repositories.PostsStore
  PlatformsRepository repositories.PlatformsStore
  Publishers          *publishers.Registry
  Sink                Sink
}

func NewPosts(ansqContext *common.AnsqServerContext) *Posts {
  h := &Posts{
    AnsqContext: ansqContext,
  }
  h.Repository = &repositories.PostsRepository{
    Db:   h.AnsqContext.Db,
    Rdb:  h.AnsqContext.Rdb,
    Ctx:  h.AnsqContext.Ctx,
    Nats: h.AnsqContext.Nats,
  }
  h.PlatformsRepository = &repositories.PlatformsRepository{
    Db: h.AnsqContext.Db,
  }
  h.Publishers = publishers.NewRegistry()
  h.Sink = h.AnsqContext.Nats
  return h
}

func (h *Posts) Publish(ctx context.Context, t *asynq.Task) error {
  var payload jobs.PublishPayload
  json.Unmarshal(t.Payload(), &payload)

  mutex := common.NewMutex(
    h.AnsqContext.Rdb,
    h.AnsqContext.Ctx,
    fmt.Sprintf(config.LOCKS_POSTS_PUBLISH, payload.PostID, payload.PlatformID),
  )
  if !mutex.Lock(5 * time.Minute) {
    return nil
  }
  defer mutex.Unlock()

  retried, _ := asynq.GetRetryCount(ctx)
  maxRetry, _ := asynq.GetMaxRetry(ctx)

  return h.process(payload.PostID, payload.PlatformID, retried, maxRetry)
}

// process is one attempt of the pending -> published|failed state machine.
// Reads are fresh on every attempt; data may have changed since the last one.
func (h *Posts) process(postID string, platformID string, retried int, maxRetry int) error {
  attempt := retried + 1

  post, err := h.Repository.FindWithPlatform(postID, platformID)
  if err != nil {
    return h.abort(postID, platformID, attempt, fmt.Errorf("post not found: %v", postID))
  }
  platform, err := h.PlatformsRepository.Find(platformID)
  if err != nil {
    return h.abort(postID, platformID, attempt, fmt.Errorf("platform not found: %v", platformID))
  }
  if len(post.Platforms) == 0 {
    return h.abort(postID, platformID, attempt, fmt.Errorf("post %v is not associated with platform %v", postID, platformID))
  }

  // Content may have been edited after scheduling, so the gate runs again
  // here. A violation is a permanent rejection, never retried.
  if err := validators.ValidateContent(platform.Type, post.Content); err != nil {
    h.Repository.SetPivotStatus(postID, platformID, config.PIVOT_STATUS_FAILED, map[string]interface{}{
      "error": err.Error(),
    })
    log.Println("post", postID, "rejected for", platform.Name+":", err.Error())
    return nil
  }

  log.Println("publishing post", postID, "to", platform.Name, "attempt", attempt)

  response, err := h.Publishers.Get(platform.Type).Publish(post)
  if err != nil {
    h.Repository.SetPivotStatus(postID, platformID, config.PIVOT_STATUS_FAILED, map[string]interface{}{
      "error": err.Error(),
    })
    log.Println("post", postID, "platform", platformID, "attempt", attempt, "publish failed:", err)
    if retried >= maxRetry {
      h.notify(postID, platformID, attempt, err)
    }
    return err
  }

  values := map[string]interface{}{
    "error": "",
  }
  if externalID := gjson.Get(response, "id").String(); externalID != "" {
    values["external_id"] = externalID
  }
  if err := h.Repository.SetPivotStatus(postID, platformID, config.PIVOT_STATUS_PUBLISHED, values); err != nil {
    return err
  }
  log.Println("post", postID, "published to", platform.Name)
  return nil
}

// abort ends the unit without retrying: the pair vanished from the store or
// was never associated.
func (h *Posts) abort(postID string, platformID string, attempt int, cause error) error {
  h.Repository.SetPivotStatus(postID, platformID, config.PIVOT_STATUS_FAILED, map[string]interface{}{
    "error": cause.Error(),
  })
  log.Println("post", postID, "platform", platformID, "attempt", attempt, "aborted:", cause)
  h.notify(postID, platformID, attempt, cause)
  return fmt.Errorf("%v: %w", cause, asynq.SkipRetry)
}

func (h *Posts) notify(postID string, platformID string, attempts int, cause error) {
  if h.Sink == nil {
    return
  }
  data, _ := json.Marshal(map[string]interface{}{
    "post_id":     postID,
    "platform_id": platformID,
    "attempts":    attempts,
    "error":       cause.Error(),
  })
  if err := h.Sink.Publish(config.NATS_POSTS_PUBLISH_FAILED, data); err != nil {
    log.Println("failure notification dropped:", err)
  }
}

func (h *Posts) Register() error {
  h.AnsqContext.Mux.HandleFunc(config.ASYNQ_JOBS_POSTS_PUBLISH, h.Publish)
  return nil
}
