package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// SessionTokenExtractor pulls the session token from the request. The cookie
// is the primary carrier; a Bearer header is accepted for non-browser clients.
func SessionTokenExtractor(cookieName string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		if cookieName != "" {
			if token, err := c.Cookie(cookieName); err == nil && token != "" {
				return token
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			return ""
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
}

// EdgeGuard is the outermost enforcement boundary. Unauthenticated browser
// navigation is redirected to the login page; API clients get a 401. It never
// authorizes anything by itself, it only filters the obviously anonymous.
func EdgeGuard(guard *usecase.Guard, extract func(*gin.Context) string, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extract(c)
		if token != "" {
			if _, err := guard.RequireSubject(c.Request.Context(), token); err == nil {
				c.Next()
				return
			}
		}

		if wantsHTML(c) && loginURL != "" {
			// Preserve the original destination so login can return here.
			target := loginURL + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized,
			newErrorResponse(c, "authentication required"))
	}
}

// RequireSession verifies the session and stores the subject on the context.
// It carries no permission requirement; ownership-gated endpoints use it.
func RequireSession(guard *usecase.Guard, extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extract(c)

		decision, identity := guard.Authorize(c.Request.Context(), token)
		if decision.Outcome == domain.DecisionUnauthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}
		if decision.Reason == domain.DenyDirectoryUnavailable {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				newErrorResponse(c, "permission directory unavailable"))
			return
		}

		storeDecision(c, identity.SubjectID, decision.Granted)
		c.Next()
	}
}

// RequirePermission verifies the session and demands at least one of the
// listed permission codes. The decision is evaluated fresh on each request.
func RequirePermission(guard *usecase.Guard, extract func(*gin.Context) string, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extract(c)

		decision, identity := guard.Authorize(c.Request.Context(), token, codes...)
		switch {
		case decision.Outcome == domain.DecisionUnauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		case decision.Reason == domain.DenyDirectoryUnavailable:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				newErrorResponse(c, "permission directory unavailable"))
			return
		case !decision.Allowed():
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "insufficient permissions"))
			return
		}

		storeDecision(c, identity.SubjectID, decision.Granted)
		c.Next()
	}
}

func storeDecision(c *gin.Context, subjectID string, granted []string) {
	c.Set(SubjectIDKey, subjectID)
	c.Set(GrantedCodesKey, granted)

	if reqCtx := GetRequestContext(c); reqCtx != nil {
		reqCtx.SubjectID = subjectID
	}
}

func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

// GetSubjectID retrieves the authenticated subject ID from context (helper for handlers)
func GetSubjectID(c *gin.Context) (string, bool) {
	subjectID, exists := c.Get(SubjectIDKey)
	if !exists {
		return "", false
	}

	if id, ok := subjectID.(string); ok {
		return id, true
	}

	return "", false
}

// GetGrantedCodes retrieves the resolved permission codes from context
func GetGrantedCodes(c *gin.Context) []string {
	if codes, exists := c.Get(GrantedCodesKey); exists {
		if granted, ok := codes.([]string); ok {
			return granted
		}
	}
	return nil
}
