package models

import (
  "time"
)

type Post struct {
  ID          string      `gorm:"size:20;primaryKey"`
  UserID      string      `gorm:"size:20;not null;index:idx_posts_user,priority:1"`
  Title       string      `gorm:"size:255;not null"`
  Content     string      `gorm:"size:5000;not null"`
  ImageURL    string      `gorm:"size:200"`
  ScheduledAt *time.Time  `gorm:"index:idx_posts_due,priority:2"`
  Status      string      `gorm:"size:20;not null;index:idx_posts_due,priority:1;index:idx_posts_user,priority:2"`
  Platforms   []*Platform `gorm:"many2many:post_platforms"`
  CreatedAt   time.Time   `gorm:"not null"`
  UpdatedAt   time.Time   `gorm:"not null"`
}

func (m *Post) TableName() string {
  return "posts"
}
