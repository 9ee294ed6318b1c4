package v1

import (
  "encoding/json"
  "net/http"

  "github.com/go-chi/chi/v5"

  "scheduler.local/post-scheduler/api"
  "scheduler.local/post-scheduler/common"
  "scheduler.local/post-scheduler/repositories"
)

type PlatformsHandler struct {
  ApiContext *common.ApiContext
  Response   *api.ResponseHandler
  Repository *repositories.PlatformsRepository
}

type PlatformRequest struct {
  Name     string                 `json:"name"`
  Type     string                 `json:"type"`
  Settings map[string]interface{} `json:"settings"`
}

func NewPlatformsRouter(apiContext *common.ApiContext) http.Handler {
  h := PlatformsHandler{
    ApiContext: apiContext,
  }
  h.Repository = &repositories.PlatformsRepository{
    Db: h.ApiContext.Db,
  }

  r := chi.NewRouter()
  r.Get("/", h.Listings)
  r.Post("/", h.Create)
  r.Get("/{id}", h.Show)
  r.Put("/{id}", h.Update)
  r.Delete("/{id}", h.Delete)
  r.Post("/{id}/toggle", h.Toggle)
  return r
}

func (h *PlatformsHandler) Listings(
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

  h.Response.Json(h.Repository.AllWithUserStatus(userID))
}

func (h *PlatformsHandler) Create(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  var request PlatformRequest
  if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
    h.Response.Error(http.StatusForbidden, 1004, "payload not valid")
    return
  }
  if request.Name == "" || request.Type == "" {
    h.Response.Error(http.StatusUnprocessableEntity, 1004, "name and type are required")
    return
  }
  if h.Repository.IsExists(request.Name) {
    h.Response.Error(http.StatusUnprocessableEntity, 1000, "platform name already taken")
    return
  }

  platform, err := h.Repository.Create(request.Name, request.Type, common.JSONMap(request.Settings))
  if err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }
  h.Response.Created(platform)
}

func (h *PlatformsHandler) Show(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  platform, err := h.Repository.Find(chi.URLParam(r, "id"))
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1000, "platform not found")
    return
  }
  h.Response.Json(platform)
}

func (h *PlatformsHandler) Update(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  platform, err := h.Repository.Find(chi.URLParam(r, "id"))
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1000, "platform not found")
    return
  }

  var request PlatformRequest
  if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
    h.Response.Error(http.StatusForbidden, 1004, "payload not valid")
    return
  }

  values := make(map[string]interface{})
  if request.Name != "" && request.Name != platform.Name {
    if h.Repository.IsExists(request.Name) {
      h.Response.Error(http.StatusUnprocessableEntity, 1000, "platform name already taken")
      return
    }
    values["name"] = request.Name
  }
  if request.Type != "" {
    values["type"] = request.Type
  }
  if request.Settings != nil {
    values["settings"] = common.JSONMap(request.Settings)
  }
  if len(values) > 0 {
    if err := h.Repository.Updates(platform, values); err != nil {
      h.Response.Error(http.StatusInternalServerError, 500, "server error")
      return
    }
  }
  h.Response.Json(platform)
}

func (h *PlatformsHandler) Delete(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  platform, err := h.Repository.Find(chi.URLParam(r, "id"))
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1000, "platform not found")
    return
  }
  if err := h.Repository.Delete(platform); err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }
  h.Response.Deleted()
}

func (h *PlatformsHandler) Toggle(
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

  platform, err := h.Repository.Find(chi.URLParam(r, "id"))
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1000, "platform not found")
    return
  }

  enabled, err := h.Repository.Toggle(userID, platform.ID)
  if err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }
  h.Response.Json(map[string]interface{}{
    "platform_id": platform.ID,
    "enabled":     enabled,
  })
}
