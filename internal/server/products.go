package server

import (
	"net/http"
	"strings"

	productdomain "github.com/dinebilllabs/dinebill/internal/product/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createProductRequest struct {
	Name         string `json:"name"`
	SellingPrice string `json:"selling_price"`
	TaxGroupID   string `json:"tax_group_id"`
	CategoryName string `json:"category_name"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.SellingPrice))
	if err != nil {
		AbortWithError(c, newValidationError("selling_price", "invalid_product_price", "invalid selling price"))
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), orgID(c), productdomain.CreateRequest{
		Name:         strings.TrimSpace(req.Name),
		SellingPrice: price,
		TaxGroupID:   strings.TrimSpace(req.TaxGroupID),
		CategoryName: strings.TrimSpace(req.CategoryName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Name     string `form:"name"`
		Category string `form:"category"`
		Active   string `form:"active"`
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

	resp, err := s.productSvc.List(c.Request.Context(), orgID(c), productdomain.ListRequest{
		Name:     strings.TrimSpace(query.Name),
		Category: strings.TrimSpace(query.Category),
		IsActive: active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateProductRequest struct {
	Name         *string `json:"name"`
	SellingPrice *string `json:"selling_price"`
	TaxGroupID   *string `json:"tax_group_id"`
	CategoryName *string `json:"category_name"`
	IsActive     *bool   `json:"is_active"`
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := productdomain.UpdateRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		Name:         req.Name,
		TaxGroupID:   req.TaxGroupID,
		CategoryName: req.CategoryName,
		IsActive:     req.IsActive,
	}
	if req.SellingPrice != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*req.SellingPrice))
		if err != nil {
			AbortWithError(c, newValidationError("selling_price", "invalid_product_price", "invalid selling price"))
			return
		}
		update.SellingPrice = &price
	}

	resp, err := s.productSvc.Update(c.Request.Context(), orgID(c), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateProduct(c *gin.Context) {
	resp, err := s.productSvc.Deactivate(c.Request.Context(), orgID(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
