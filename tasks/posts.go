package tasks

import (
  "log"
  "time"

  "github.com/hibiken/asynq"

  "scheduler.local/post-scheduler/common"
  "scheduler.local/post-scheduler/config"
  "scheduler.local/post-scheduler/queue/asynq/jobs"
  "scheduler.local/post-scheduler/repositories"
)

// Enqueuer is the durable queue handle. Satisfied by *asynq.Client.
type Enqueuer interface {
  Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PostsTask sweeps due posts and fans out one dispatch unit per
// (post, platform) pair. It never touches post status itself.
type PostsTask struct {
  Job         *jobs.Posts
  AnsqContext *common.AnsqClientContext
  Repository  repositories.DueStore
  Broker      Enqueuer
}

func NewPostsTask(ansqContext *common.AnsqClientContext) *PostsTask {
  return &PostsTask{
    Job:         &jobs.Posts{},
    AnsqContext: ansqContext,
    Repository: &repositories.PostsRepository{
      Db:   ansqContext.Db,
      Rdb:  ansqContext.Rdb,
      Ctx:  ansqContext.Ctx,
      Nats: ansqContext.Nats,
    },
    Broker: ansqContext.Conn,
  }
}

func (t *PostsTask) Dispatch() error {
  now := time.Now()
  posts := t.Repository.SelectDue(now, config.ScheduleTimeFilter())
  if len(posts) == 0 {
    return nil
  }
  log.Println("found", len(posts), "posts to publish")

  for _, post := range posts {
    if len(post.Platforms) == 0 {
      log.Println("no platforms associated with post", post.ID)
      continue
    }
    for _, platform := range post.Platforms {
      if err := t.Enqueue(post.ID, platform.ID); err != nil {
        log.Println("enqueue failed for post", post.ID, "platform", platform.ID, err)
        continue
      }
      log.Println("dispatched post", post.ID, "for platform", platform.ID)
    }
  }
  return nil
}

func (t *PostsTask) Enqueue(postID string, platformID string) error {
  job, err := t.Job.Publish(postID, platformID)
  if err != nil {
    return err
  }
  _, err = t.Broker.Enqueue(
    job,
    asynq.Queue(config.ASYNQ_QUEUE_PUBLISHING),
    asynq.MaxRetry(config.PublishMaxAttempts()-1),
    asynq.Timeout(5*time.Minute),
  )
  return err
}
