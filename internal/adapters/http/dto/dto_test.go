package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/artistly/internal/app"
	"github.com/jsamuelsen/artistly/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeNotFound, "artist not found")

	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Equal(t, "artist not found", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
	assert.Empty(t, resp.TraceID)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{"name": "Name is required"}

	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details).
		WithTraceID("trace-1")

	assert.Equal(t, details, resp.Error.Details)
	assert.Equal(t, "trace-1", resp.TraceID)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"error":{"code":"VALIDATION_ERROR","message":"request validation failed","details":{"name":"Name is required"}},"traceId":"trace-1"}`,
		string(data))
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{code: ErrorCodeNotFound, want: http.StatusNotFound},
		{code: ErrorCodeMethodNotAllowed, want: http.StatusMethodNotAllowed},
		{code: ErrorCodeValidation, want: http.StatusBadRequest},
		{code: ErrorCodeBadRequest, want: http.StatusBadRequest},
		{code: ErrorCodeForbidden, want: http.StatusForbidden},
		{code: ErrorCodeUnauthorized, want: http.StatusUnauthorized},
		{code: ErrorCodeUnavailable, want: http.StatusServiceUnavailable},
		{code: ErrorCodeTimeout, want: http.StatusGatewayTimeout},
		{code: ErrorCodePayloadTooLarge, want: http.StatusRequestEntityTooLarge},
		{code: ErrorCodeInternal, want: http.StatusInternalServerError},
		{code: "SOMETHING_ELSE", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name         string
		setupContext func(*gin.Context)
		want         string
	}{
		{
			name: "trace ID in context",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")
			},
			want: "context-trace-123",
		},
		{
			name: "request ID header",
			setupContext: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "header-trace-456",
		},
		{
			name: "context takes precedence over header",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "context-trace-123",
		},
		{
			name: "sanitized request id beats raw header",
			setupContext: func(c *gin.Context) {
				c.Set("request_id", "minted-789")
				c.Request.Header.Set("X-Request-ID", "raw header")
			},
			want: "minted-789",
		},
		{
			name:         "nothing set",
			setupContext: func(*gin.Context) {},
			want:         "",
		},
		{
			name: "context value of wrong type",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", 12345)
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			tt.setupContext(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "not found",
			err:         domain.NewNotFoundError("artist", "42"),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: `artist "42" not found`,
		},
		{
			name: "field errors",
			err: fmt.Errorf("validate failed: %w", domain.FieldErrors{
				"name":     "Name is required",
				"feeRange": "Fee range is required",
			}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "request validation failed",
			wantDetails: map[string]string{
				"name":     "Name is required",
				"feeRange": "Fee range is required",
			},
		},
		{
			name:        "single field validation",
			err:         domain.NewValidationError("theme", "must be dark or light"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "request validation failed",
			wantDetails: map[string]string{"theme": "must be dark or light"},
		},
		{
			name:        "unavailable hides the cause",
			err:         domain.NewUnavailableError("storage-sqlite", "database is locked"),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "storage is temporarily unavailable",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("loading dashboard: %w", context.DeadlineExceeded),
			wantStatus:  http.StatusGatewayTimeout,
			wantCode:    ErrorCodeTimeout,
			wantMessage: "request timeout exceeded",
		},
		{
			name:        "unknown error",
			err:         errors.New("unexpected"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("trace_id", "trace-"+tt.wantCode)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
			assert.Equal(t, "trace-"+tt.wantCode, resp.TraceID)
		})
	}
}

func TestAbortWithErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	AbortWithErrorCode(c, ErrorCodeForbidden, "manager role required")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "manager role required")
}

func TestValidator_Singleton(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

func TestBindAndValidate_ThemeRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		want    string
	}{
		{name: "dark", body: `{"theme":"dark"}`, want: "dark"},
		{name: "light", body: `{"theme":"light"}`, want: "light"},
		{name: "unknown theme", body: `{"theme":"sepia"}`, wantErr: ErrValidation},
		{name: "missing theme", body: `{}`, wantErr: ErrValidation},
		{name: "malformed json", body: `{theme`, wantErr: ErrBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req ThemeRequest
			err := BindAndValidate(c, &req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Theme)
		})
	}
}

func TestValidationErrors_UsesJSONNames(t *testing.T) {
	err := Validate(&ThemeRequest{Theme: "blue"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	assert.Equal(t, map[string]string{"theme": "must be dark or light"}, ValidationErrors(err))
	assert.Empty(t, ValidationErrors(errors.New("plain")))
}

func TestBindQueryAndValidate_ArtistQuery(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/artists?category=Singer&location=delhi&feeRange=%E2%82%B92000+-+%E2%82%B92500", nil)

	var q ArtistQuery
	require.NoError(t, BindQueryAndValidate(c, &q))

	assert.Equal(t, domain.ArtistFilter{
		Category: "Singer",
		Location: "delhi",
		FeeRange: "₹2000 - ₹2500",
	}, q.Filter())
}

func TestBindQueryAndValidate_TooLong(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/artists?category="+strings.Repeat("x", 65), nil)

	var q ArtistQuery
	err := BindQueryAndValidate(c, &q)

	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "must be a maximum of 64 characters in length", ValidationErrors(err)["category"])
}

func TestValidationErrors_Required(t *testing.T) {
	err := Validate(&ThemeRequest{})
	require.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, map[string]string{"theme": "is a required field"}, ValidationErrors(err))
}

func TestNewArtistResponse(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	seed := NewArtistResponse(domain.Artist{Name: "Asha Mehta"})
	assert.Nil(t, seed.SubmittedAt)
	assert.Equal(t, []string{}, seed.Categories)
	assert.Equal(t, []string{}, seed.Languages)

	submitted := NewArtistResponse(domain.Artist{Name: "Meera Joshi", SubmittedAt: at})
	require.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, at, *submitted.SubmittedAt)
}

func TestNewListArtistsResponse_EmptyIsNotNull(t *testing.T) {
	data, err := json.Marshal(NewListArtistsResponse(app.Listing{}))

	require.NoError(t, err)
	assert.JSONEq(t, `{"artists":[],"locations":[]}`, string(data))
}

func TestNewDashboardResponse(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	resp := NewDashboardResponse([]domain.Submission{
		{Kind: domain.SubmissionOnboarded, Artist: domain.Artist{Name: "Meera Joshi"}, At: at},
		{Kind: domain.SubmissionQuote, Artist: domain.Artist{Name: "Asha Mehta"}},
	})

	require.Len(t, resp.Submissions, 2)
	assert.Equal(t, "onboarded", resp.Submissions[0].Kind)
	assert.Equal(t, at, *resp.Submissions[0].Timestamp)
	assert.Equal(t, "quote", resp.Submissions[1].Kind)
	assert.Nil(t, resp.Submissions[1].Timestamp)
}

func TestOnboardArtistRequest_Submission(t *testing.T) {
	var req OnboardArtistRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Meera Joshi",
		"bio": "Fusion vocalist.",
		"categories": ["Singer"],
		"languages": ["Hindi"],
		"feeRange": "₹2500 - ₹3000",
		"location": "Other",
		"customLocation": "Pune"
	}`), &req))

	sub := req.Submission()

	assert.Equal(t, "Meera Joshi", sub.Name)
	assert.Equal(t, "Pune", sub.ResolvedLocation())
	require.NoError(t, sub.Validate())
}

func TestNewCatalogResponse(t *testing.T) {
	resp := NewCatalogResponse()

	assert.Equal(t, domain.Categories(), resp.Categories)
	assert.Equal(t, domain.FeeRanges(), resp.FeeRanges)
	assert.Contains(t, resp.Locations, domain.LocationOther)
}
