package models

import (
  "time"
)

type User struct {
  ID        string    `gorm:"size:20;primaryKey"`
  Account   string    `gorm:"size:50;not null;uniqueIndex"`
  Name      string    `gorm:"size:50;not null"`
  CreatedAt time.Time `gorm:"not null"`
  UpdatedAt time.Time `gorm:"not null"`
}

func (m *User) TableName() string {
  return "users"
}
