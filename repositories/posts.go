package repositories

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "time"

  "github.com/go-redis/redis/v8"
  "github.com/nats-io/nats.go"
  "github.com/rs/xid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "scheduler.local/post-scheduler/common"
  "scheduler.local/post-scheduler/config"
  "scheduler.local/post-scheduler/models"
  "scheduler.local/post-scheduler/validators"
)

var ErrScheduleBusy = errors.New("another scheduling request for this user is in progress")

type PostsRepository struct {
  Db   *gorm.DB
  Rdb  *redis.Client
  Ctx  context.Context
  Nats *nats.Conn
}

func (r *PostsRepository) Count(userID string, conditions map[string]interface{}) int64 {
  var total int64
  query := r.Db.Model(&models.Post{}).Where("user_id = ?", userID)
  r.applyFilters(query, conditions)
  query.Count(&total)
  return total
}

func (r *PostsRepository) Listings(
  userID string,
  conditions map[string]interface{},
  current int,
  pageSize int,
) []*models.Post {
  var posts []*models.Post
  query := r.Db.Preload("Platforms").Where("user_id = ?", userID)
  r.applyFilters(query, conditions)
  query.Order("created_at DESC")
  query.Offset((current - 1) * pageSize).Limit(pageSize).Find(&posts)
  return posts
}

func (r *PostsRepository) applyFilters(query *gorm.DB, conditions map[string]interface{}) {
  if _, ok := conditions["status"]; ok {
    query.Where("status = ?", conditions["status"].(string))
  }
  if _, ok := conditions["from_date"]; ok {
    query.Where("created_at >= ?", conditions["from_date"].(string))
  }
  if _, ok := conditions["to_date"]; ok {
    query.Where("created_at <= ?", conditions["to_date"].(string))
  }
}

func (r *PostsRepository) Find(id string) (entity *models.Post, err error) {
  err = r.Db.First(&entity, "id = ?", id).Error
  return
}

func (r *PostsRepository) FindForUser(id string, userID string) (entity *models.Post, err error) {
  err = r.Db.Preload("Platforms").Where("user_id = ?", userID).First(&entity, "id = ?", id).Error
  return
}

// FindWithPlatform loads a post with its platform set narrowed to the one
// dispatch target. An empty set on the result means the pair is not
// associated.
func (r *PostsRepository) FindWithPlatform(postID string, platformID string) (entity *models.Post, err error) {
  err = r.Db.Preload("Platforms", "platforms.id = ?", platformID).First(&entity, "id = ?", postID).Error
  return
}

// Create validates the daily schedule cap, stores the post and syncs its
// platform set. The per-user-day mutex closes the count-then-insert race
// between concurrent submissions.
func (r *PostsRepository) Create(
  userID string,
  title string,
  content string,
  imageURL string,
  scheduledAt *time.Time,
  status string,
  platformIDs []string,
) (*models.Post, error) {
  if status == config.POST_STATUS_SCHEDULED && scheduledAt != nil && r.Rdb != nil {
    mutex := common.NewMutex(
      r.Rdb,
      r.Ctx,
      fmt.Sprintf(config.LOCKS_POSTS_SCHEDULE, userID, validators.ScheduleDate(*scheduledAt)),
    )
    if !mutex.Lock(5 * time.Second) {
      return nil, ErrScheduleBusy
    }
    defer mutex.Unlock()
  }

  validator := &validators.ScheduleLimitValidator{
    Counter: r,
    Limit:   config.ScheduleDailyLimit(),
  }
  if err := validator.Validate(userID, status, scheduledAt); err != nil {
    return nil, err
  }

  entity := &models.Post{
    ID:          xid.New().String(),
    UserID:      userID,
    Title:       title,
    Content:     content,
    ImageURL:    imageURL,
    ScheduledAt: scheduledAt,
    Status:      status,
  }
  if err := r.Db.Create(&entity).Error; err != nil {
    return nil, err
  }
  if err := r.SyncPlatforms(entity, platformIDs, status); err != nil {
    return nil, err
  }

  if r.Nats != nil {
    data, _ := json.Marshal(map[string]interface{}{
      "id": entity.ID,
    })
    r.Nats.Publish(config.NATS_POSTS_CREATE, data)
    r.Nats.Flush()
  }
  return entity, nil
}

func (r *PostsRepository) Update(post *models.Post, values map[string]interface{}, platformIDs []string) error {
  if err := r.Db.Model(&post).Updates(values).Error; err != nil {
    return err
  }
  status, _ := values["status"].(string)
  if status == "" {
    status = post.Status
  }
  return r.SyncPlatforms(post, platformIDs, status)
}

// SyncPlatforms replaces the post's platform set. Pairs no longer selected
// are detached, every submitted pair's pivot is (re)set: pending while the
// post is draft or scheduled, published once it already is.
func (r *PostsRepository) SyncPlatforms(post *models.Post, platformIDs []string, postStatus string) error {
  status := config.PIVOT_STATUS_PENDING
  if postStatus == config.POST_STATUS_PUBLISHED {
    status = config.PIVOT_STATUS_PUBLISHED
  }
  return r.Db.Transaction(func(tx *gorm.DB) error {
    if len(platformIDs) == 0 {
      return tx.Where("post_id = ?", post.ID).Delete(&models.PostPlatform{}).Error
    }
    if err := tx.Where(
      "post_id = ? AND platform_id NOT IN ?",
      post.ID,
      platformIDs,
    ).Delete(&models.PostPlatform{}).Error; err != nil {
      return err
    }
    for _, platformID := range platformIDs {
      entity := &models.PostPlatform{
        PostID:     post.ID,
        PlatformID: platformID,
        Status:     status,
      }
      err := tx.Clauses(clause.OnConflict{
        Columns: []clause.Column{
          {Name: "post_id"},
          {Name: "platform_id"},
        },
        DoUpdates: clause.Assignments(map[string]interface{}{
          "status":      status,
          "error":       "",
          "external_id": "",
        }),
      }).Create(&entity).Error
      if err != nil {
        return err
      }
    }
    return nil
  })
}

func (r *PostsRepository) Delete(post *models.Post) error {
  if err := r.Db.Where("post_id = ?", post.ID).Delete(&models.PostPlatform{}).Error; err != nil {
    return err
  }
  return r.Db.Delete(post).Error
}

// Publish flips a post to published immediately and resets its pivots for a
// fresh dispatch round.
func (r *PostsRepository) Publish(post *models.Post) error {
  err := r.Db.Model(&post).Updates(map[string]interface{}{
    "status":       config.POST_STATUS_PUBLISHED,
    "scheduled_at": time.Now(),
  }).Error
  if err != nil {
    return err
  }
  return r.Db.Model(&models.PostPlatform{}).Where("post_id = ?", post.ID).Updates(map[string]interface{}{
    "status":      config.PIVOT_STATUS_PENDING,
    "error":       "",
    "external_id": "",
  }).Error
}

// SetPivotStatus writes the per-pair publication status. Re-issuing the same
// value is a no-op.
func (r *PostsRepository) SetPivotStatus(
  postID string,
  platformID string,
  status string,
  values map[string]interface{},
) error {
  updates := map[string]interface{}{
    "status": status,
  }
  for column, value := range values {
    updates[column] = value
  }
  return r.Db.Model(&models.PostPlatform{}).Where(
    "post_id = ? AND platform_id = ?",
    postID,
    platformID,
  ).Updates(updates).Error
}

func (r *PostsRepository) CountScheduledOnDate(userID string, date string) int64 {
  var total int64
  r.Db.Model(&models.Post{}).Where(
    "user_id = ? AND status = ? AND DATE(scheduled_at) = ?",
    userID,
    config.POST_STATUS_SCHEDULED,
    date,
  ).Count(&total)
  return total
}

// SelectDue returns scheduled posts ready for dispatch, platforms
// eager-loaded in one round trip. With the time filter off every scheduled
// post is due (relaxed mode).
func (r *PostsRepository) SelectDue(now time.Time, enforceTimeFilter bool) []*models.Post {
  var posts []*models.Post
  query := r.Db.Preload("Platforms").Where("status = ?", config.POST_STATUS_SCHEDULED)
  if enforceTimeFilter {
    query.Where("scheduled_at <= ?", now)
  }
  query.Find(&posts)
  return posts
}
