package models

import (
  "time"
)

// PostPlatform is the pivot row a dispatch unit owns while publishing one
// post to one platform. Status moves pending -> published|failed.
type PostPlatform struct {
  PostID     string    `gorm:"size:20;primaryKey"`
  PlatformID string    `gorm:"size:20;primaryKey"`
  Status     string    `gorm:"size:20;not null;index"`
  Error      string    `gorm:"size:500"`
  ExternalID string    `gorm:"size:100"`
  CreatedAt  time.Time `gorm:"not null"`
  UpdatedAt  time.Time `gorm:"not null"`
}

func (m *PostPlatform) TableName() string {
  return "post_platforms"
}
