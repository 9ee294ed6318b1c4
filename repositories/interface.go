package repositories

import (
  "time"

  "scheduler.local/post-scheduler/models"
)

// PostsStore is the slice of the association store a dispatch unit reads
// and writes.
type PostsStore interface {
  FindWithPlatform(postID string, platformID string) (*models.Post, error)
  SetPivotStatus(postID string, platformID string, status string, values map[string]interface{}) error
}

// PlatformsStore resolves the dispatch target.
type PlatformsStore interface {
  Find(id string) (*models.Platform, error)
}

// DueStore feeds the periodic sweep.
type DueStore interface {
  SelectDue(now time.Time, enforceTimeFilter bool) []*models.Post
}

type PlatformInfo struct {
  ID      string `json:"id"`
  Name    string `json:"name"`
  Type    string `json:"type"`
  Enabled bool   `json:"enabled"`
}
