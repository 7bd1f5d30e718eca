package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	billingrepo "github.com/dinebilllabs/dinebill/internal/billing/repository"
	billingservice "github.com/dinebilllabs/dinebill/internal/billing/service"
	"github.com/dinebilllabs/dinebill/internal/cache"
	"github.com/dinebilllabs/dinebill/internal/config"
	"github.com/dinebilllabs/dinebill/internal/migration"
	productdomain "github.com/dinebilllabs/dinebill/internal/product/domain"
	productrepo "github.com/dinebilllabs/dinebill/internal/product/repository"
	productservice "github.com/dinebilllabs/dinebill/internal/product/service"
	"github.com/dinebilllabs/dinebill/internal/reporting"
	"github.com/dinebilllabs/dinebill/internal/seed"
	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	taxgrouprepo "github.com/dinebilllabs/dinebill/internal/taxgroup/repository"
	taxgroupservice "github.com/dinebilllabs/dinebill/internal/taxgroup/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return value
}

type testEnv struct {
	server  *Server
	orgID   int64
	product *productdomain.Response
}

func setupServer(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	orgID := int64(node.Generate())
	require.NoError(t, seed.EnsureDefaults(conn, node, orgID))

	log := zap.NewNop()
	store := cache.New(config.Config{}, log)
	holder := config.NewStaticBillingConfigHolder(config.DefaultBillingConfig())

	taxGroupRepo := taxgrouprepo.NewRepository(conn, store)
	productRepo := productrepo.NewRepository(conn, store)

	taxGroupSvc := taxgroupservice.New(taxgroupservice.Params{
		Log: log, GenID: node, Repo: taxGroupRepo,
	})
	productSvc := productservice.New(productservice.Params{
		Log: log, GenID: node, Repo: productRepo, TaxGroups: taxGroupRepo,
	})
	billingSvc := billingservice.New(billingservice.Params{
		Log:        log,
		GenID:      node,
		Repo:       billingrepo.NewRepository(conn),
		Products:   productRepo,
		TaxGroups:  taxGroupRepo,
		BillingCfg: holder,
	})
	reportingSvc := reporting.New(reporting.Params{
		Log: log, DB: conn, BillingCfg: holder,
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:          engine,
		Cfg:          config.Config{DefaultOrgID: orgID},
		BillingSvc:   billingSvc,
		ProductSvc:   productSvc,
		TaxGroupSvc:  taxGroupSvc,
		ReportingSvc: reportingSvc,
	})

	groups, err := taxGroupSvc.List(context.Background(), orgID, taxgroupdomain.ListRequest{Code: "GST_5"})
	require.NoError(t, err)
	require.Len(t, groups, 1)

	prod, err := productSvc.Create(context.Background(), orgID, productdomain.CreateRequest{
		Name:         "Masala Dosa",
		SellingPrice: mustDecimal(t, "100.00"),
		TaxGroupID:   groups[0].ID,
		CategoryName: "South Indian",
	})
	require.NoError(t, err)

	return testEnv{server: srv, orgID: orgID, product: prod}
}

func doJSON(t *testing.T, env testEnv, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.server.Engine().ServeHTTP(rec, req)
	return rec
}

func TestCreateBillEndpoint(t *testing.T) {
	env := setupServer(t)

	rec := doJSON(t, env, http.MethodPost, "/api/bills", gin.H{
		"items":          []gin.H{{"product_id": env.product.ID, "quantity": 2}},
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			BillNumber  string `json:"bill_number"`
			Subtotal    string `json:"subtotal"`
			TaxAmount   string `json:"tax_amount"`
			TotalAmount string `json:"total_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BILL-000001", resp.Data.BillNumber)
	assert.Equal(t, "200", resp.Data.Subtotal)
	assert.Equal(t, "10", resp.Data.TaxAmount)
	assert.Equal(t, "210", resp.Data.TotalAmount)
}

func TestCreateBillEmptyOrderReturns400(t *testing.T) {
	env := setupServer(t)

	rec := doJSON(t, env, http.MethodPost, "/api/bills", gin.H{
		"items":          []gin.H{},
		"payment_method": "CASH",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Code string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.NotEmpty(t, resp.Error.Errors)
	assert.Equal(t, "empty_order", resp.Error.Errors[0].Code)
}

func TestCreateBillUnknownProductMessageNamesID(t *testing.T) {
	env := setupServer(t)

	const missingID = "123456789012345678"
	rec := doJSON(t, env, http.MethodPost, "/api/bills", gin.H{
		"items": []gin.H{
			{"product_id": env.product.ID, "quantity": 1},
			{"product_id": missingID, "quantity": 1},
		},
		"payment_method": "CASH",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Field   string `json:"field"`
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.NotEmpty(t, resp.Error.Errors)
	assert.Equal(t, "product_id", resp.Error.Errors[0].Field)
	assert.Equal(t, "product_not_found", resp.Error.Errors[0].Code)
	// a multi-item order must name the product that failed
	assert.Contains(t, resp.Error.Errors[0].Message, missingID)
}

func TestGetBillNotFoundReturns404(t *testing.T) {
	env := setupServer(t)

	rec := doJSON(t, env, http.MethodGet, "/api/bills/123456789", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestInvalidOrgHeaderReturns400(t *testing.T) {
	env := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	req.Header.Set("X-Org-ID", "not-a-number")
	rec := httptest.NewRecorder()
	env.server.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestIdempotencyKeyHeader(t *testing.T) {
	env := setupServer(t)

	body := gin.H{
		"items":          []gin.H{{"product_id": env.product.ID, "quantity": 1}},
		"payment_method": "UPI",
	}

	send := func() string {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/api/bills", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "pos-terminal-1-42")
		rec := httptest.NewRecorder()
		env.server.Engine().ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Data struct {
				BillNumber string `json:"bill_number"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Data.BillNumber
	}

	first := send()
	second := send()
	assert.Equal(t, first, second)
}

func TestSalesSummaryReportEndpoint(t *testing.T) {
	env := setupServer(t)

	rec := doJSON(t, env, http.MethodPost, "/api/bills", gin.H{
		"items":          []gin.H{{"product_id": env.product.ID, "quantity": 2}},
		"payment_method": "CARD",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, env, http.MethodGet, "/api/reports/sales_summary?from=2000-01-01T00:00:00Z&to=2000-12-31T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, env, http.MethodGet, "/api/reports/sales_summary?from=bogus&to=2000-12-31", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestCreateProductEndpoint(t *testing.T) {
	env := setupServer(t)

	groupsRec := doJSON(t, env, http.MethodGet, "/api/tax_groups?code=GST_5", nil)
	require.Equal(t, http.StatusOK, groupsRec.Code, groupsRec.Body.String())

	var groups struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(groupsRec.Body.Bytes(), &groups))
	require.Len(t, groups.Data, 1)

	rec := doJSON(t, env, http.MethodPost, "/api/products", gin.H{
		"name":          "Filter Coffee",
		"selling_price": "40.00",
		"tax_group_id":  groups.Data[0].ID,
		"category_name": "Beverages",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, env, http.MethodPost, "/api/products", gin.H{
		"name":          "No Group",
		"selling_price": "40.00",
		"tax_group_id":  fmt.Sprintf("%d", 42),
		"category_name": "Beverages",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
