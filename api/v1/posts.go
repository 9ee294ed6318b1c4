package v1

import (
  "encoding/json"
  "errors"
  "net/http"
  "strconv"
  "time"

  "github.com/go-chi/chi/v5"
  "gorm.io/gorm"

  "scheduler.local/post-scheduler/api"
  "scheduler.local/post-scheduler/common"
  "scheduler.local/post-scheduler/config"
  "scheduler.local/post-scheduler/models"
  "scheduler.local/post-scheduler/queue/asynq/jobs"
  "scheduler.local/post-scheduler/repositories"
  "scheduler.local/post-scheduler/tasks"
  "scheduler.local/post-scheduler/validators"
)

type PostsHandler struct {
  ApiContext          *common.ApiContext
  Response            *api.ResponseHandler
  Repository          *repositories.PostsRepository
  PlatformsRepository *repositories.PlatformsRepository
  Broker              *tasks.PostsTask
}

type PostRequest struct {
  Title       string     `json:"title"`
  Content     string     `json:"content"`
  ImageURL    string     `json:"image_url"`
  ScheduledAt *time.Time `json:"scheduled_at"`
  Status      string     `json:"status"`
  Platforms   []string   `json:"platforms"`
}

func NewPostsRouter(apiContext *common.ApiContext) http.Handler {
  h := PostsHandler{
    ApiContext: apiContext,
  }
  h.Repository = &repositories.PostsRepository{
    Db:  h.ApiContext.Db,
    Rdb: h.ApiContext.Rdb,
    Ctx: h.ApiContext.Ctx,
  }
  h.PlatformsRepository = &repositories.PlatformsRepository{
    Db: h.ApiContext.Db,
  }
  h.Broker = &tasks.PostsTask{
    Job:    &jobs.Posts{},
    Broker: h.ApiContext.Asynq,
  }

  r := chi.NewRouter()
  r.Get("/", h.Listings)
  r.Post("/", h.Create)
  r.Get("/{id}", h.Show)
  r.Put("/{id}", h.Update)
  r.Delete("/{id}", h.Delete)
  r.Post("/{id}/publish", h.Publish)
  return r
}

func (h *PostsHandler) Listings(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  userID := r.Header.Get("X-User-Id")
  if userID == "" {
    h.Response.Error(http.StatusUnauthorized, 1001, "user is required")
    return
  }

  current := 1
  if r.URL.Query().Has("current") {
    current, _ = strconv.Atoi(r.URL.Query().Get("current"))
  }
  if current < 1 {
    h.Response.Error(http.StatusForbidden, 1004, "current not valid")
    return
  }

  pageSize := 10
  if r.URL.Query().Has("page_size") {
    pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
  }
  if pageSize < 1 || pageSize > 100 {
    h.Response.Error(http.StatusForbidden, 1004, "page size not valid")
    return
  }

  conditions := make(map[string]interface{})
  if r.URL.Query().Get("status") != "" {
    conditions["status"] = r.URL.Query().Get("status")
  }
  if r.URL.Query().Get("from_date") != "" {
    conditions["from_date"] = r.URL.Query().Get("from_date")
  }
  if r.URL.Query().Get("to_date") != "" {
    conditions["to_date"] = r.URL.Query().Get("to_date")
  }

  total := h.Repository.Count(userID, conditions)
  posts := h.Repository.Listings(userID, conditions, current, pageSize)
  h.Response.Pagenate(posts, total, current, pageSize)
}

func (h *PostsHandler) Create(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  userID := r.Header.Get("X-User-Id")
  if userID == "" {
    h.Response.Error(http.StatusUnauthorized, 1001, "user is required")
    return
  }

  var request PostRequest
  if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
    h.Response.Error(http.StatusForbidden, 1004, "payload not valid")
    return
  }
  if message := h.validate(&request); message != "" {
    h.Response.Error(http.StatusUnprocessableEntity, 1004, message)
    return
  }

  platforms, message := h.platforms(request.Platforms)
  if message != "" {
    h.Response.Error(http.StatusUnprocessableEntity, 1004, message)
    return
  }
  for _, platform := range platforms {
    if err := validators.ValidateContent(platform.Type, request.Content); err != nil {
      h.Response.Error(http.StatusUnprocessableEntity, 1000, err.Error())
      return
    }
  }

  post, err := h.Repository.Create(
    userID,
    request.Title,
    request.Content,
    request.ImageURL,
    request.ScheduledAt,
    request.Status,
    request.Platforms,
  )
  if err != nil {
    h.Response.Error(http.StatusUnprocessableEntity, 1000, err.Error())
    return
  }

  post, _ = h.Repository.FindForUser(post.ID, userID)
  h.Response.Created(post)
}

func (h *PostsHandler) Show(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  userID := r.Header.Get("X-User-Id")
  if userID == "" {
    h.Response.Error(http.StatusUnauthorized, 1001, "user is required")
    return
  }

  post, err := h.Repository.FindForUser(chi.URLParam(r, "id"), userID)
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1000, "post not found")
    return
  }
  h.Response.Json(post)
}

func (h *PostsHandler) Update(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  userID := r.Header.Get("X-User-Id")
  if userID == "" {
    h.Response.Error(http.StatusUnauthorized, 1001, "user is required")
    return
  }

  post, err := h.Repository.FindForUser(chi.URLParam(r, "id"), userID)
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1000, "post not found")
    return
  }

  var request PostRequest
  if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
    h.Response.Error(http.StatusForbidden, 1004, "payload not valid")
    return
  }
  if message := h.validate(&request); message != "" {
    h.Response.Error(http.StatusUnprocessableEntity, 1004, message)
    return
  }

  platforms, message := h.platforms(request.Platforms)
  if message != "" {
    h.Response.Error(http.StatusUnprocessableEntity, 1004, message)
    return
  }
  for _, platform := range platforms {
    if err := validators.ValidateContent(platform.Type, request.Content); err != nil {
      h.Response.Error(http.StatusUnprocessableEntity, 1000, err.Error())
      return
    }
  }

  err = h.Repository.Update(post, map[string]interface{}{
    "title":        request.Title,
    "content":      request.Content,
    "image_url":    request.ImageURL,
    "scheduled_at": request.ScheduledAt,
    "status":       request.Status,
  }, request.Platforms)
  if err != nil {
    h.Response.Error(http.StatusUnprocessableEntity, 1000, err.Error())
    return
  }

  post, _ = h.Repository.FindForUser(post.ID, userID)
  h.Response.Json(post)
}

func (h *PostsHandler) Delete(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  userID := r.Header.Get("X-User-Id")
  if userID == "" {
    h.Response.Error(http.StatusUnauthorized, 1001, "user is required")
    return
  }

  post, err := h.Repository.FindForUser(chi.URLParam(r, "id"), userID)
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1000, "post not found")
    return
  }
  if err := h.Repository.Delete(post); err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }
  h.Response.Deleted()
}

// Publish flips a scheduled post to published right away and re-dispatches
// every associated platform with a fresh attempt budget.
func (h *PostsHandler) Publish(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  userID := r.Header.Get("X-User-Id")
  if userID == "" {
    h.Response.Error(http.StatusUnauthorized, 1001, "user is required")
    return
  }

  post, err := h.Repository.FindForUser(chi.URLParam(r, "id"), userID)
  if err != nil || post.Status != config.POST_STATUS_SCHEDULED {
    h.Response.Error(http.StatusNotFound, 1000, "post not found or not scheduled")
    return
  }

  if err := h.Repository.Publish(post); err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }
  for _, platform := range post.Platforms {
    h.Broker.Enqueue(post.ID, platform.ID)
  }

  post, _ = h.Repository.FindForUser(post.ID, userID)
  h.Response.Json(post)
}

func (h *PostsHandler) validate(request *PostRequest) string {
  if request.Title == "" || len(request.Title) > 255 {
    return "title is required and limited to 255 characters"
  }
  if request.Content == "" {
    return "content is required"
  }
  switch request.Status {
  case config.POST_STATUS_DRAFT, config.POST_STATUS_SCHEDULED, config.POST_STATUS_PUBLISHED:
  default:
    return "status not valid"
  }
  if request.Status == config.POST_STATUS_SCHEDULED && request.ScheduledAt == nil {
    return "scheduled_at is required for scheduled posts"
  }
  if len(request.Platforms) == 0 {
    return "at least one platform is required"
  }
  return ""
}

// platforms resolves the submitted ids in order, so the first content
// violation reported matches the submission order.
func (h *PostsHandler) platforms(ids []string) ([]*models.Platform, string) {
  platforms := make([]*models.Platform, 0, len(ids))
  for _, id := range ids {
    platform, err := h.PlatformsRepository.Find(id)
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, "platform not found: " + id
    }
    if err != nil {
      return nil, "server error"
    }
    platforms = append(platforms, platform)
  }
  return platforms, ""
}
