package server

import (
	"net/http"
	"strings"

	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createTaxGroupRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Rate        string `json:"rate"`
	SplitType   string `json:"split_type"`
	IsInclusive bool   `json:"is_inclusive"`
}

func (s *Server) CreateTaxGroup(c *gin.Context) {
	var req createTaxGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(req.Rate))
	if err != nil {
		AbortWithError(c, newValidationError("rate", "invalid_tax_rate", "invalid tax rate"))
		return
	}

	resp, err := s.taxGroupSvc.Create(c.Request.Context(), orgID(c), taxgroupdomain.CreateRequest{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Rate:        rate,
		SplitType:   taxgroupdomain.SplitType(strings.ToUpper(strings.TrimSpace(req.SplitType))),
		IsInclusive: req.IsInclusive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListTaxGroups(c *gin.Context) {
	var query struct {
		Code   string `form:"code"`
		Active string `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.taxGroupSvc.List(c.Request.Context(), orgID(c), taxgroupdomain.ListRequest{
		Code:     strings.TrimSpace(query.Code),
		IsActive: active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateTaxGroupRequest struct {
	Name        *string `json:"name"`
	Rate        *string `json:"rate"`
	SplitType   *string `json:"split_type"`
	IsInclusive *bool   `json:"is_inclusive"`
	IsActive    *bool   `json:"is_active"`
}

func (s *Server) UpdateTaxGroup(c *gin.Context) {
	var req updateTaxGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := taxgroupdomain.UpdateRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Name:        req.Name,
		IsInclusive: req.IsInclusive,
		IsActive:    req.IsActive,
	}
	if req.Rate != nil {
		rate, err := decimal.NewFromString(strings.TrimSpace(*req.Rate))
		if err != nil {
			AbortWithError(c, newValidationError("rate", "invalid_tax_rate", "invalid tax rate"))
			return
		}
		update.Rate = &rate
	}
	if req.SplitType != nil {
		splitType := taxgroupdomain.SplitType(strings.ToUpper(strings.TrimSpace(*req.SplitType)))
		update.SplitType = &splitType
	}

	resp, err := s.taxGroupSvc.Update(c.Request.Context(), orgID(c), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateTaxGroup(c *gin.Context) {
	resp, err := s.taxGroupSvc.Deactivate(c.Request.Context(), orgID(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
