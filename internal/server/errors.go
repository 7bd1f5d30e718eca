package server

import (
	"errors"
	"net/http"
	"strings"

	billingdomain "github.com/dinebilllabs/dinebill/internal/billing/domain"
	obscontext "github.com/dinebilllabs/dinebill/internal/observability/context"
	productdomain "github.com/dinebilllabs/dinebill/internal/product/domain"
	"github.com/dinebilllabs/dinebill/internal/reporting"
	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		if status >= http.StatusInternalServerError {
			payload.RequestID = obscontext.RequestIDFromContext(c.Request.Context())
		}
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(err, code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, taxgroupdomain.ErrCodeTaken),
		errors.Is(err, billingdomain.ErrBillNumberConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, billingdomain.ErrPersistenceFailed):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isBillingValidationError(err),
		isTaxGroupValidationError(err),
		isProductValidationError(err),
		isReportValidationError(err):
		return true
	default:
		return false
	}
}

func isBillingValidationError(err error) bool {
	switch {
	case errors.Is(err, billingdomain.ErrInvalidOrganization),
		errors.Is(err, billingdomain.ErrEmptyOrder),
		errors.Is(err, billingdomain.ErrProductNotFound),
		errors.Is(err, billingdomain.ErrInvalidTaxGroup),
		errors.Is(err, billingdomain.ErrInvalidQuantity),
		errors.Is(err, billingdomain.ErrInvalidPaymentMethod),
		errors.Is(err, billingdomain.ErrInvalidServiceCharge),
		errors.Is(err, billingdomain.ErrServiceChargeGroupMissing),
		errors.Is(err, billingdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isTaxGroupValidationError(err error) bool {
	switch {
	case errors.Is(err, taxgroupdomain.ErrInvalidOrganization),
		errors.Is(err, taxgroupdomain.ErrInvalidID),
		errors.Is(err, taxgroupdomain.ErrInvalidCode),
		errors.Is(err, taxgroupdomain.ErrInvalidName),
		errors.Is(err, taxgroupdomain.ErrInvalidRate),
		errors.Is(err, taxgroupdomain.ErrInvalidSplitType),
		errors.Is(err, taxgroupdomain.ErrServiceChargeInclusive):
		return true
	default:
		return false
	}
}

func isProductValidationError(err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrInvalidOrganization),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidPrice),
		errors.Is(err, productdomain.ErrInvalidTaxGroup):
		return true
	default:
		return false
	}
}

func isReportValidationError(err error) bool {
	return errors.Is(err, reporting.ErrInvalidRange) || errors.Is(err, reporting.ErrRangeTooWide)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, billingdomain.ErrBillNotFound),
		errors.Is(err, taxgroupdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	// sentinel errors are their own codes; unwrap to the root sentinel
	root := err
	for {
		unwrapped := errors.Unwrap(root)
		if unwrapped == nil {
			break
		}
		root = unwrapped
	}
	return root.Error()
}

// validationErrorMessage humanizes the sentinel code and keeps any wrapped
// detail, so a multi-item order failure still names the offending id.
func validationErrorMessage(err error, code string) string {
	message := strings.ReplaceAll(code, "_", " ")
	if detail, found := strings.CutPrefix(err.Error(), code+": "); found && detail != "" {
		message += ": " + detail
	}
	return message
}

func validationErrorField(code string) string {
	switch {
	case strings.Contains(code, "quantity"):
		return "quantity"
	case strings.Contains(code, "payment"):
		return "payment_method"
	case strings.Contains(code, "service_charge"):
		return "service_charge_rate"
	case strings.Contains(code, "product"):
		return "product_id"
	case strings.Contains(code, "tax"):
		return "tax_group"
	case strings.Contains(code, "org"):
		return "org_id"
	case strings.Contains(code, "range"):
		return "range"
	default:
		return "request"
	}
}
