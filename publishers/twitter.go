package publishers

import (
  "encoding/json"
  "fmt"
  "time"

  "github.com/rs/xid"

  "scheduler.local/post-scheduler/models"
)

// Twitter stands in for the real API client. Latency simulates the
// network round trip.
type Twitter struct {
  Latency time.Duration
}

func (p *Twitter) Publish(post *models.Post) (string, error) {
  time.Sleep(p.Latency)
  statusID := xid.New().String()
  response, err := json.Marshal(map[string]interface{}{
    "id":   statusID,
    "url":  fmt.Sprintf("https://twitter.com/i/status/%v", statusID),
    "text": post.Content,
  })
  if err != nil {
    return "", err
  }
  return string(response), nil
}
