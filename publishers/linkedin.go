package publishers

import (
  "encoding/json"
  "fmt"
  "time"

  "github.com/rs/xid"

  "scheduler.local/post-scheduler/models"
)

type LinkedIn struct {
  Latency time.Duration
}

func (p *LinkedIn) Publish(post *models.Post) (string, error) {
  time.Sleep(p.Latency)
  shareID := xid.New().String()
  response, err := json.Marshal(map[string]interface{}{
    "id":  shareID,
    "url": fmt.Sprintf("https://www.linkedin.com/feed/update/%v", shareID),
  })
  if err != nil {
    return "", err
  }
  return string(response), nil
}
