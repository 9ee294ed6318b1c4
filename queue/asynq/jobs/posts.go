package jobs

import (
  "encoding/json"

  "github.com/hibiken/asynq"

  "scheduler.local/post-scheduler/config"
)

// PublishPayload identifies one dispatch unit: one post on one platform.
type PublishPayload struct {
  PostID     string `json:"post_id"`
  PlatformID string `json:"platform_id"`
}

type Posts struct{}

func (h *Posts) Publish(postID string, platformID string) (*asynq.Task, error) {
  payload, err := json.Marshal(PublishPayload{postID, platformID})
  if err != nil {
    return nil, err
  }
  return asynq.NewTask(config.ASYNQ_JOBS_POSTS_PUBLISH, payload), nil
}
