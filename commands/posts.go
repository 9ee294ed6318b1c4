package commands

import (
  "context"
  "log"

  "github.com/go-redis/redis/v8"
  "github.com/hibiken/asynq"
  "github.com/urfave/cli/v2"
  "gorm.io/gorm"

  "scheduler.local/post-scheduler/common"
  "scheduler.local/post-scheduler/tasks"
)

type PostsHandler struct {
  Db    *gorm.DB
  Rdb   *redis.Client
  Asynq *asynq.Client
  Ctx   context.Context
}

func NewPostsCommand() *cli.Command {
  var h PostsHandler
  return &cli.Command{
    Name:  "posts",
    Usage: "",
    Before: func(c *cli.Context) error {
      h = PostsHandler{
        Db:    common.NewDB(),
        Rdb:   common.NewRedis(),
        Asynq: common.NewAsynqClient(),
        Ctx:   context.Background(),
      }
      return nil
    },
    Subcommands: []*cli.Command{
      {
        Name:  "dispatch",
        Usage: "sweep due posts once and enqueue their dispatch units",
        Action: func(c *cli.Context) error {
          if err := h.dispatch(); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
    },
  }
}

func (h *PostsHandler) dispatch() error {
  log.Println("posts dispatch")

  ansqContext := &common.AnsqClientContext{
    Db:   h.Db,
    Rdb:  h.Rdb,
    Ctx:  h.Ctx,
    Conn: h.Asynq,
    Nats: common.NewNats(),
  }

  return tasks.NewPostsTask(ansqContext).Dispatch()
}
