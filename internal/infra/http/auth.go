package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"accessd/internal/domain"

	"github.com/gin-gonic/gin"
)

// sessionFrom builds the caller's session from the request. Order:
// X-Admin-Key bootstrap header, then a Bearer JWT, then anonymous. The
// authorization decision itself lives in the usecase layer; this only
// establishes identity.
func (s *Server) sessionFrom(c *gin.Context) domain.Session {
	if key := strings.TrimSpace(c.GetHeader("X-Admin-Key")); key != "" && s.cfg.AdminAPIKey != "" {
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.AdminAPIKey)) == 1 {
			return domain.Session{Subject: "admin-key", Role: domain.RoleAdmin}
		}
	}
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token != "" && s.sessions != nil {
		if session, err := s.sessions.Verify(token); err == nil {
			return session
		}
	}
	return domain.AnonymousSession()
}

func extractBearerToken(value string) string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}

type loginRequest struct {
	Role     string `json:"role"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// handleLogin exchanges a role password for a session token. Passwords
// come from deployment config; there is no user table in this system.
func (s *Server) handleLogin(c *gin.Context) {
	if s.sessions == nil {
		writeErrorCode(c, http.StatusInternalServerError, "AUTH_DISABLED", "session issuing is not configured")
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	var expected string
	role := domain.Role(req.Role)
	switch role {
	case domain.RoleAdmin:
		expected = s.cfg.AdminPassword
	case domain.RoleGuard:
		expected = s.cfg.GuardPassword
	default:
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "role must be admin or guard")
		return
	}
	if expected == "" || subtle.ConstantTimeCompare([]byte(req.Password), []byte(expected)) != 1 {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}
	token, err := s.sessions.Issue(domain.Session{Subject: string(role), Role: role})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, Role: string(role)})
}
