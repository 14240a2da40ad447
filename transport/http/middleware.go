package http

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/authtoken/core"
	"github.com/layer-3/authtoken/service"
	"github.com/layer-3/authtoken/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// AuthHeaderToken carries a raw token value
	AuthHeaderToken = "X-Auth-Token"

	// OwnerKey is the context key holding the owner of an authenticated token
	OwnerKey = "tokenOwner"

	unmatchedRoute = "unmatched"
)

// AuthMiddleware creates middleware that validates tokens presented in
// the X-Auth-Token header or as Basic credentials
func AuthMiddleware(tokenService *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, value, err := credentials(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		token, err := tokenService.Authenticate(c.Request.Context(), value)
		switch {
		case errors.Is(err, core.ErrTokenExpired):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token expired"})
			return
		case errors.Is(err, core.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		case err != nil:
			log.WithError(err).Error("failed to authenticate token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
			return
		}

		// Basic credentials must name the owner the token was issued to
		if owner != nil && *owner != token.Owner {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(OwnerKey, token.Owner)

		c.Next()
	}
}

// credentials extracts the token value and, for Basic credentials, the claimed owner
func credentials(r *http.Request) (*string, string, error) {
	if value := r.Header.Get(AuthHeaderToken); value != "" {
		return nil, value, nil
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return nil, "", core.ErrInvalidToken
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return nil, "", core.ErrInvalidToken
	}

	// Values never contain a colon, owners may
	i := strings.LastIndexByte(string(decoded), ':')
	if i < 0 || i == len(decoded)-1 {
		return nil, "", core.ErrInvalidToken
	}

	owner := string(decoded[:i])
	return &owner, string(decoded[i+1:]), nil
}

// TracingMiddleware starts a server span for every request, continuing the
// trace carried by the request headers
func TracingMiddleware(tracer trace.Tracer, propagator propagation.TextMapPropagator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route(c),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route(c)),
			))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// LoggingMiddleware logs rejected and failed requests
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		var (
			code  = c.Writer.Status()
			entry = log.WithFields(log.Fields{
				"method":     c.Request.Method,
				"path":       route(c),
				"code":       code,
				"address":    c.ClientIP(),
				"user_agent": c.Request.UserAgent(),
			})
		)

		switch {
		case code >= http.StatusInternalServerError:
			entry.Error("request failed")
		case code >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request handled")
		}
	}
}

// MetricsMiddleware counts requests and observes their duration
func MetricsMiddleware(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := route(c)
		timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues(c.Request.Method, path))

		c.Next()

		timer.ObserveDuration()
		metrics.RequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// route returns the matched route pattern so labels stay bounded
func route(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedRoute
}
