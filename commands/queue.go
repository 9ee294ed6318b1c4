package commands

import (
  "github.com/urfave/cli/v2"

  "scheduler.local/post-scheduler/commands/queue"
)

func NewQueueCommand() *cli.Command {
  return &cli.Command{
    Name:  "queue",
    Usage: "",
    Subcommands: []*cli.Command{
      queue.NewAsynqCommand(),
    },
  }
}
