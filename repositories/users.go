package repositories

import (
  "github.com/rs/xid"
  "gorm.io/gorm"

  "scheduler.local/post-scheduler/models"
)

type UsersRepository struct {
  Db *gorm.DB
}

func (r *UsersRepository) Find(id string) (entity *models.User, err error) {
  err = r.Db.First(&entity, "id = ?", id).Error
  return
}

func (r *UsersRepository) Get(account string) (entity *models.User, err error) {
  err = r.Db.Where("account = ?", account).Take(&entity).Error
  return
}

func (r *UsersRepository) Create(account string, name string) (*models.User, error) {
  entity := &models.User{
    ID:      xid.New().String(),
    Account: account,
    Name:    name,
  }
  err := r.Db.Create(&entity).Error
  return entity, err
}
