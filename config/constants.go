package config

const (
  POST_STATUS_DRAFT     = "draft"
  POST_STATUS_SCHEDULED = "scheduled"
  POST_STATUS_PUBLISHED = "published"

  PIVOT_STATUS_PENDING   = "pending"
  PIVOT_STATUS_PUBLISHED = "published"
  PIVOT_STATUS_FAILED    = "failed"

  PLATFORM_TYPE_TWITTER   = "twitter"
  PLATFORM_TYPE_LINKEDIN  = "linkedin"
  PLATFORM_TYPE_INSTAGRAM = "instagram"

  ASYNQ_QUEUE_PUBLISHING   = "publishing"
  ASYNQ_JOBS_POSTS_PUBLISH = "posts:publish"

  NATS_POSTS_CREATE         = "posts.created"
  NATS_POSTS_PUBLISH_FAILED = "posts.publish.failed"

  LOCKS_POSTS_PUBLISH  = "locks:posts:publish:%v:%v"
  LOCKS_POSTS_SCHEDULE = "locks:posts:schedule:%v:%v"

  SCHEDULE_DAILY_LIMIT_DEFAULT = 5
  PUBLISH_MAX_ATTEMPTS_DEFAULT = 3
)
