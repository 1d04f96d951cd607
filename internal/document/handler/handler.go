package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swetasamaddar-clear/document-finder/internal/document"
	"github.com/swetasamaddar-clear/document-finder/internal/document/service"
	"github.com/swetasamaddar-clear/document-finder/internal/keywords"
	"github.com/swetasamaddar-clear/document-finder/pkg/logger"
	"github.com/swetasamaddar-clear/document-finder/pkg/metrics"
)

const (
	ActionSave   = "saveDocument"
	ActionSearch = "searchDocuments"
)

// DocumentService is what the dispatcher needs from the service layer.
type DocumentService interface {
	Save(ctx context.Context, in service.SaveInput) (string, error)
	Search(ctx context.Context, query string) ([]document.SearchResult, error)
}

// Action stays raw so a non-string action is an invalid action, not a malformed body.
type dispatchRequest struct {
	Action json.RawMessage `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type savePayload struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type searchPayload struct {
	Query *string `json:"query"`
}

// RegisterDispatchRoutes mounts the single action endpoint on /api.
func RegisterDispatchRoutes(r gin.IRouter, svc DocumentService) {
	h := &dispatcher{svc: svc}
	r.POST("/api", h.dispatch)
	r.OPTIONS("/api", func(c *gin.Context) { c.Status(http.StatusOK) })
}

type dispatcher struct {
	svc DocumentService
}

func (h *dispatcher) dispatch(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "unknown", http.StatusInternalServerError, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	switch actionName(req.Action) {
	case ActionSave:
		h.save(c, req.Data)
	case ActionSearch:
		h.search(c, req.Data)
	default:
		h.fail(c, "unknown", http.StatusBadRequest, "Invalid action")
	}
}

func (h *dispatcher) save(c *gin.Context, data json.RawMessage) {
	var p savePayload
	if err := decodePayload(data, &p); err != nil {
		h.fail(c, ActionSave, http.StatusInternalServerError, err.Error())
		return
	}
	tags, err := h.svc.Save(c.Request.Context(), service.SaveInput{URL: p.URL, Title: p.Title, Content: p.Content})
	if err != nil {
		h.fail(c, ActionSave, http.StatusInternalServerError, errorMessage(err))
		return
	}
	h.ok(c, ActionSave, gin.H{"tags": tags})
}

func (h *dispatcher) search(c *gin.Context, data json.RawMessage) {
	var p searchPayload
	if err := decodePayload(data, &p); err != nil {
		h.fail(c, ActionSearch, http.StatusInternalServerError, err.Error())
		return
	}
	if p.Query == nil {
		h.fail(c, ActionSearch, http.StatusInternalServerError, fmt.Sprintf("%v: query", service.ErrMissingField))
		return
	}
	results, err := h.svc.Search(c.Request.Context(), *p.Query)
	if err != nil {
		h.fail(c, ActionSearch, http.StatusInternalServerError, errorMessage(err))
		return
	}
	h.ok(c, ActionSearch, gin.H{"results": results})
}

// actionName returns "" for a missing or non-string action.
func actionName(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return ""
	}
	return name
}

// decodePayload accepts a missing or null data field as an empty object.
func decodePayload(data json.RawMessage, v interface{}) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid data payload: %v", err)
	}
	return nil
}

// errorMessage surfaces the extraction service's own message and the wrapped chain otherwise.
func errorMessage(err error) string {
	var extErr *keywords.ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Message
	}
	return err.Error()
}

func (h *dispatcher) ok(c *gin.Context, action string, fields gin.H) {
	body := gin.H{"status": "success"}
	for k, v := range fields {
		body[k] = v
	}
	metrics.DispatchTotal.WithLabelValues(action, "success").Inc()
	c.JSON(http.StatusOK, body)
}

func (h *dispatcher) fail(c *gin.Context, action string, code int, msg string) {
	metrics.DispatchTotal.WithLabelValues(action, "error").Inc()
	if code >= http.StatusInternalServerError {
		logger.Errorf("%s failed: %s", action, msg)
	} else {
		logger.Warnf("%s rejected: %s", action, msg)
	}
	c.JSON(code, gin.H{"status": "error", "message": msg})
}
