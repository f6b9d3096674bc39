package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"controlling_motor/internal/service"
)

const (
	errMissingAuth  = "missing Authorization header"
	errAuthFormat   = "invalid Authorization header format"
	errInvalidToken = "invalid or expired token"
	errInvalidLogin = "invalid credentials"
	ctxUserID       = "userId"
	schemeBearer    = "Bearer"
	schemeBasic     = "Basic"
)

// commandAuthMiddleware accepts a bearer token or HTTP Basic credentials.
// Every refusal is recorded as an auth warning and nothing else happens.
func (h *Handler) commandAuthMiddleware(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		h.refuse(c, service.CredentialsMissing, errMissingAuth)
		return
	}

	scheme, value, _ := strings.Cut(header, " ")
	value = strings.TrimSpace(value)
	if value == "" {
		h.refuse(c, service.CredentialsInvalid, errAuthFormat)
		return
	}

	switch {
	case strings.EqualFold(scheme, schemeBearer):
		userID, err := h.services.ParseToken(value)
		if err != nil {
			h.refuse(c, service.CredentialsInvalid, errInvalidToken)
			return
		}
		c.Set(ctxUserID, userID)
	case strings.EqualFold(scheme, schemeBasic):
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			h.refuse(c, service.CredentialsInvalid, errAuthFormat)
			return
		}
		userID, err := h.services.VerifyCredentials(c.Request.Context(), username, password)
		if err != nil {
			if h.log != nil {
				h.log.Infow("basic_auth_failed", "username", username, "err", err)
			}
			h.refuse(c, service.CredentialsInvalid, errInvalidLogin)
			return
		}
		c.Set(ctxUserID, userID)
	default:
		h.refuse(c, service.CredentialsInvalid, errAuthFormat)
		return
	}

	c.Next()
}

func (h *Handler) refuse(c *gin.Context, reason service.AuthFailure, msg string) {
	if h.services.Audit != nil {
		h.services.AuthFailure(c.Request.Context(), reason)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
