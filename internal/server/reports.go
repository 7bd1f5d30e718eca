package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// parseReportWindow reads the from/to query params. Dates without a time
// component are accepted and "to" is treated as exclusive, so from=2026-03-14
// and to=2026-03-15 covers exactly one day.
func parseReportWindow(c *gin.Context) (time.Time, time.Time, bool) {
	from, ok := parseReportTime(c.Query("from"))
	if !ok {
		AbortWithError(c, newValidationError("from", "invalid_report_range", "invalid from timestamp"))
		return time.Time{}, time.Time{}, false
	}
	to, ok := parseReportTime(c.Query("to"))
	if !ok {
		AbortWithError(c, newValidationError("to", "invalid_report_range", "invalid to timestamp"))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseReportTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *Server) SalesSummaryReport(c *gin.Context) {
	from, to, ok := parseReportWindow(c)
	if !ok {
		return
	}

	resp, err := s.reportingSvc.SalesSummary(c.Request.Context(), snowflake.ID(orgID(c)), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) TaxBreakdownReport(c *gin.Context) {
	from, to, ok := parseReportWindow(c)
	if !ok {
		return
	}

	resp, err := s.reportingSvc.TaxBreakdown(c.Request.Context(), snowflake.ID(orgID(c)), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
