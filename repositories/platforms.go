package repositories

import (
  "errors"

  "github.com/rs/xid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "scheduler.local/post-scheduler/models"
)

type PlatformsRepository struct {
  Db *gorm.DB
}

func (r *PlatformsRepository) Find(id string) (entity *models.Platform, err error) {
  err = r.Db.First(&entity, "id = ?", id).Error
  return
}

func (r *PlatformsRepository) Get(name string) (entity *models.Platform, err error) {
  err = r.Db.Where("name = ?", name).Take(&entity).Error
  return
}

func (r *PlatformsRepository) IsExists(name string) bool {
  var entity *models.Platform
  result := r.Db.Where("name = ?", name).Take(&entity)
  return !errors.Is(result.Error, gorm.ErrRecordNotFound)
}

// AllWithUserStatus lists every platform with the caller's enablement flag.
// Platforms the user never toggled default to enabled.
func (r *PlatformsRepository) AllWithUserStatus(userID string) []*PlatformInfo {
  var items []*PlatformInfo
  r.Db.Model(&models.Platform{}).
    Select("platforms.id, platforms.name, platforms.type, COALESCE(platform_user.enabled, true) AS enabled").
    Joins("LEFT JOIN platform_user ON platform_user.platform_id = platforms.id AND platform_user.user_id = ?", userID).
    Order("platforms.name ASC").
    Scan(&items)
  return items
}

func (r *PlatformsRepository) Create(name string, platformType string, settings datatypes.JSONMap) (*models.Platform, error) {
  entity := &models.Platform{
    ID:       xid.New().String(),
    Name:     name,
    Type:     platformType,
    Settings: settings,
  }
  err := r.Db.Create(&entity).Error
  return entity, err
}

func (r *PlatformsRepository) Updates(platform *models.Platform, values map[string]interface{}) error {
  return r.Db.Model(&platform).Updates(values).Error
}

func (r *PlatformsRepository) Delete(platform *models.Platform) error {
  if err := r.Db.Where("platform_id = ?", platform.ID).Delete(&models.PostPlatform{}).Error; err != nil {
    return err
  }
  if err := r.Db.Where("platform_id = ?", platform.ID).Delete(&models.PlatformUser{}).Error; err != nil {
    return err
  }
  return r.Db.Delete(platform).Error
}

// Toggle flips the user's enablement flag for a platform and returns the
// new value.
func (r *PlatformsRepository) Toggle(userID string, platformID string) (bool, error) {
  var entity models.PlatformUser
  err := r.Db.Where("user_id = ? AND platform_id = ?", userID, platformID).Take(&entity).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    entity = models.PlatformUser{
      UserID:     userID,
      PlatformID: platformID,
      Enabled:    false,
    }
    return false, r.Db.Create(&entity).Error
  }
  if err != nil {
    return false, err
  }
  enabled := !entity.Enabled
  err = r.Db.Model(&entity).Update("enabled", enabled).Error
  return enabled, err
}
