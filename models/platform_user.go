package models

import (
  "time"
)

// PlatformUser records whether a platform is exposed to a user for
// selection. It has no bearing on dispatch.
type PlatformUser struct {
  UserID     string    `gorm:"size:20;primaryKey"`
  PlatformID string    `gorm:"size:20;primaryKey"`
  Enabled    bool      `gorm:"not null;default:true"`
  CreatedAt  time.Time `gorm:"not null"`
  UpdatedAt  time.Time `gorm:"not null"`
}

func (m *PlatformUser) TableName() string {
  return "platform_user"
}
