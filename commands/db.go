package commands

import (
  "log"

  "github.com/urfave/cli/v2"
  "gorm.io/gorm"

  "scheduler.local/post-scheduler/common"
  "scheduler.local/post-scheduler/config"
  "scheduler.local/post-scheduler/models"
  "scheduler.local/post-scheduler/repositories"
)

type DbHandler struct {
  Db *gorm.DB
}

func NewDbCommand() *cli.Command {
  var h DbHandler
  return &cli.Command{
    Name:  "db",
    Usage: "",
    Before: func(c *cli.Context) error {
      h = DbHandler{
        Db: common.NewDB(),
      }
      return nil
    },
    Subcommands: []*cli.Command{
      {
        Name:  "migrate",
        Usage: "",
        Action: func(c *cli.Context) error {
          if err := h.migrate(); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
      {
        Name:  "seed",
        Usage: "",
        Action: func(c *cli.Context) error {
          if err := h.seed(); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
    },
  }
}

func (h *DbHandler) migrate() error {
  log.Println("process migrator")
  h.Db.AutoMigrate(
    &models.User{},
    &models.Platform{},
    &models.Post{},
    &models.PostPlatform{},
    &models.PlatformUser{},
  )
  return nil
}

func (h *DbHandler) seed() error {
  log.Println("process seeder")

  usersRepository := &repositories.UsersRepository{
    Db: h.Db,
  }
  if _, err := usersRepository.Get("demo"); err != nil {
    usersRepository.Create("demo", "Demo User")
  }

  platformsRepository := &repositories.PlatformsRepository{
    Db: h.Db,
  }
  platforms := map[string]string{
    "Twitter":   config.PLATFORM_TYPE_TWITTER,
    "LinkedIn":  config.PLATFORM_TYPE_LINKEDIN,
    "Instagram": config.PLATFORM_TYPE_INSTAGRAM,
  }
  for name, platformType := range platforms {
    if !platformsRepository.IsExists(name) {
      platformsRepository.Create(name, platformType, nil)
    }
  }
  return nil
}
