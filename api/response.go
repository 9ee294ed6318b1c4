package api

import (
  "encoding/json"
  "net/http"
)

type ResponseHandler struct {
  Writer http.ResponseWriter
}

func (h *ResponseHandler) Json(data interface{}) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(http.StatusOK)
  json.NewEncoder(h.Writer).Encode(map[string]interface{}{
    "success": true,
    "data":    data,
  })
}

func (h *ResponseHandler) Created(data interface{}) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(http.StatusCreated)
  json.NewEncoder(h.Writer).Encode(map[string]interface{}{
    "success": true,
    "data":    data,
  })
}

func (h *ResponseHandler) Deleted() {
  h.Writer.WriteHeader(http.StatusNoContent)
}

func (h *ResponseHandler) Error(status int, code int, message string) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(status)
  json.NewEncoder(h.Writer).Encode(map[string]interface{}{
    "success": false,
    "code":    code,
    "message": message,
  })
}

func (h *ResponseHandler) Pagenate(data interface{}, total int64, current int, pageSize int) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(http.StatusOK)
  json.NewEncoder(h.Writer).Encode(map[string]interface{}{
    "success":   true,
    "data":      data,
    "total":     total,
    "current":   current,
    "page_size": pageSize,
  })
}
