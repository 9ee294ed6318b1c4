package asynq

import (
  "scheduler.local/post-scheduler/common"
  "scheduler.local/post-scheduler/queue/asynq/workers"
)

type Workers struct {
  AnsqContext *common.AnsqServerContext
}

func NewWorkers(ansqContext *common.AnsqServerContext) *Workers {
  return &Workers{
    AnsqContext: ansqContext,
  }
}

func (h *Workers) Register() error {
  workers.NewPosts(h.AnsqContext).Register()
  return nil
}
