package models

import (
  "time"

  "gorm.io/datatypes"
)

type Platform struct {
  ID        string            `gorm:"size:20;primaryKey"`
  Name      string            `gorm:"size:50;not null;uniqueIndex"`
  Type      string            `gorm:"size:20;not null;index"`
  Settings  datatypes.JSONMap
  CreatedAt time.Time         `gorm:"not null"`
  UpdatedAt time.Time         `gorm:"not null"`
}

func (m *Platform) TableName() string {
  return "platforms"
}
