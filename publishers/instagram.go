package publishers

import (
  "encoding/json"
  "time"

  "github.com/rs/xid"

  "scheduler.local/post-scheduler/models"
)

type Instagram struct {
  Latency time.Duration
}

func (p *Instagram) Publish(post *models.Post) (string, error) {
  time.Sleep(p.Latency)
  response, err := json.Marshal(map[string]interface{}{
    "id":        xid.New().String(),
    "media_url": post.ImageURL,
  })
  if err != nil {
    return "", err
  }
  return string(response), nil
}
