package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundprediction/stix-qa/pkg/pipeline"
	"github.com/soundprediction/stix-qa/pkg/server/dto"
	"github.com/soundprediction/stix-qa/pkg/types"
)

// Header names used by the ask endpoint.
const (
	HeaderSessionID = "X-Session-ID"
	HeaderAPIKey    = "X-API-Key"
)

// AskHandler runs the question pipeline on behalf of the browser UI.
type AskHandler struct {
	sessions *SessionStore
	allowed  map[string]struct{}
}

// NewAskHandler creates a new ask handler. A client-supplied endpoint must be
// one of allowedEndpoints; an omitted endpoint uses the orchestrator default.
func NewAskHandler(sessions *SessionStore, allowedEndpoints []string) *AskHandler {
	allowed := make(map[string]struct{}, len(allowedEndpoints))
	for _, endpoint := range allowedEndpoints {
		allowed[canonicalEndpoint(endpoint)] = struct{}{}
	}
	return &AskHandler{sessions: sessions, allowed: allowed}
}

// Ask handles POST /api/ask
func (h *AskHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	if req.Endpoint != "" {
		if u, err := url.Parse(req.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "invalid_request",
				Message: "endpoint must be an absolute http(s) URL",
			})
			return
		}
		if _, ok := h.allowed[canonicalEndpoint(req.Endpoint)]; !ok {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "endpoint_not_allowed",
				Message: "endpoint is not one of the server's configured query endpoints",
			})
			return
		}
	}

	sessionID := c.GetHeader(HeaderSessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	c.Header(HeaderSessionID, sessionID)

	credential := req.APIKey
	if credential == "" {
		credential = c.GetHeader(HeaderAPIKey)
	}

	ctx := context.WithValue(c.Request.Context(), types.ContextKeySessionID, sessionID)
	ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "api")

	state, err := h.sessions.Get(sessionID).Submit(ctx, pipeline.Submission{
		Question:   req.Question,
		Credential: credential,
		Endpoint:   req.Endpoint,
	})

	if errors.Is(err, pipeline.ErrSubmissionInFlight) {
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "submission_in_flight",
			Message: err.Error(),
		})
		return
	}

	c.JSON(statusFor(err), dto.AskResponse{
		State:              string(state.Phase),
		Answer:             state.Answer,
		Query:              state.Query,
		Error:              state.Error,
		CredentialRequired: state.CredentialPromptOpen,
		SessionID:          sessionID,
	})
}

// canonicalEndpoint lowercases scheme and host and drops a trailing slash.
func canonicalEndpoint(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
