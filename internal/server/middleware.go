package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const orgContextKey = "org_id"

// OrgRequired resolves the acting organization from the X-Org-ID header,
// falling back to the configured default for single-tenant installs.
func (s *Server) OrgRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-Org-ID"))
		if raw == "" {
			if s.cfg.DefaultOrgID == 0 {
				AbortWithError(c, newValidationError("org_id", "missing_org", "X-Org-ID header is required"))
				return
			}
			c.Set(orgContextKey, s.cfg.DefaultOrgID)
			c.Next()
			return
		}

		orgID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || orgID <= 0 {
			AbortWithError(c, newValidationError("org_id", "invalid_org", "X-Org-ID must be a positive integer"))
			return
		}
		c.Set(orgContextKey, orgID)
		c.Next()
	}
}

func orgID(c *gin.Context) int64 {
	return c.GetInt64(orgContextKey)
}
