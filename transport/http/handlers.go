package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/authtoken/core"
	"github.com/layer-3/authtoken/service"
	"github.com/layer-3/authtoken/telemetry"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TokenView is the JSON representation of a token
type TokenView struct {
	Owner                string    `json:"owner"`
	Value                string    `json:"value"`
	CreatedAt            time.Time `json:"createdAt"`
	Valid                bool      `json:"valid"`
	BasicAuthHeaderValue string    `json:"basicAuthHeaderValue"`
}

// IssueResponse is returned to JSON clients after issuance
type IssueResponse struct {
	TokenView
	RedirectURL    string `json:"redirectUrl,omitempty"`
	AuthHeaderName string `json:"authHeaderName,omitempty"`
}

type issueRequest struct {
	Owner          *string `form:"owner" json:"owner"`
	RedirectURL    string  `form:"redirectUrl" json:"redirectUrl"`
	AuthHeaderName string  `form:"authHeaderName" json:"authHeaderName"`
}

type indexView struct {
	Token          *TokenView
	RedirectURL    string
	AuthHeaderName string
}

// TokenHandlers contains HTTP handlers for token endpoints
type TokenHandlers struct {
	tokenService *service.TokenService
	metrics      *telemetry.Metrics
	tracer       trace.Tracer
}

// NewTokenHandlers creates new token handlers
func NewTokenHandlers(tokenService *service.TokenService, metrics *telemetry.Metrics, tracer trace.Tracer) *TokenHandlers {
	return &TokenHandlers{
		tokenService: tokenService,
		metrics:      metrics,
		tracer:       tracer,
	}
}

// Index renders the issuance form
func (h *TokenHandlers) Index(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplateName, indexView{
		RedirectURL:    c.Query("redirectUrl"),
		AuthHeaderName: c.Query("authHeaderName"),
	})
}

// Issue handles the token issuance request
func (h *TokenHandlers) Issue(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBind(&req); err != nil || req.Owner == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "generateToken",
		trace.WithAttributes(attribute.String("owner", *req.Owner)))
	token, err := h.tokenService.Issue(ctx, *req.Owner)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "issuance failed")
		span.End()

		log.WithError(err).Error("failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	span.End()

	h.metrics.TokensIssued.Inc()
	view := h.view(token)

	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
	case gin.MIMEHTML:
		c.HTML(http.StatusOK, indexTemplateName, indexView{
			Token:          &view,
			RedirectURL:    req.RedirectURL,
			AuthHeaderName: req.AuthHeaderName,
		})
	default:
		c.JSON(http.StatusCreated, IssueResponse{
			TokenView:      view,
			RedirectURL:    req.RedirectURL,
			AuthHeaderName: req.AuthHeaderName,
		})
	}
}

// Get returns the token stored under the value path parameter
func (h *TokenHandlers) Get(c *gin.Context) {
	value := c.Param("value")

	ctx, span := h.tracer.Start(c.Request.Context(), "getToken",
		trace.WithAttributes(attribute.String("tokenValue", value)))
	token, found, err := h.tokenService.Lookup(ctx, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
	}
	span.End()

	switch {
	case err != nil:
		h.metrics.TokenLookups.WithLabelValues(telemetry.LookupError).Inc()
		log.WithError(err).Error("failed to look up token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up token"})
	case !found:
		h.metrics.TokenLookups.WithLabelValues(telemetry.LookupMiss).Inc()
		c.Status(http.StatusNotFound)
	default:
		h.metrics.TokenLookups.WithLabelValues(telemetry.LookupHit).Inc()
		c.JSON(http.StatusOK, h.view(token))
	}
}

// Authorize confirms that the request carries a valid token
func (h *TokenHandlers) Authorize(c *gin.Context) {
	// If the request reached this handler, the auth middleware
	// has already validated the token
	owner, exists := c.Get(OwnerKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Owner not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"owner":      owner,
	})
}

func (h *TokenHandlers) view(token core.Token) TokenView {
	return TokenView{
		Owner:                token.Owner,
		Value:                token.Value,
		CreatedAt:            token.CreatedAt,
		Valid:                h.tokenService.IsValid(token),
		BasicAuthHeaderValue: h.tokenService.BasicAuthHeaderValue(token),
	}
}
