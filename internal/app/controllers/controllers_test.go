package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/export"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockPopupService struct {
	services.PopupService
	mock.Mock
}

func (m *mockPopupService) Active(ctx context.Context) (*dto.PopupResponse, error) {
	args := m.Called(ctx)
	popup, _ := args.Get(0).(*dto.PopupResponse)
	return popup, args.Error(1)
}

func (m *mockPopupService) Get(ctx context.Context, id int64) (*dto.PopupResponse, error) {
	args := m.Called(ctx, id)
	popup, _ := args.Get(0).(*dto.PopupResponse)
	return popup, args.Error(1)
}

func (m *mockPopupService) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	args := m.Called(ctx, ids, status)
	result, _ := args.Get(0).(*dto.BulkResult)
	return result, args.Error(1)
}

type mockProductService struct {
	services.ProductService
	mock.Mock
}

func (m *mockProductService) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	args := m.Called(ctx, r)
	result, _ := args.Get(0).(*dto.ImportResult)
	return result, args.Error(1)
}

func (m *mockProductService) ListPublic(ctx context.Context, query services.ProductListQuery) (*dto.PaginatedResponse, error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).(*dto.PaginatedResponse)
	return result, args.Error(1)
}

type mockEducationService struct {
	services.EducationService
	mock.Mock
}

func (m *mockEducationService) ListPublished(ctx context.Context, query services.EducationListQuery) (*dto.PaginatedResponse, error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).(*dto.PaginatedResponse)
	return result, args.Error(1)
}

type mockExportService struct {
	services.ExportService
	mock.Mock
}

func (m *mockExportService) Export(ctx context.Context, req services.ExportRequest, w io.Writer) (*services.ExportFile, error) {
	args := m.Called(ctx, req, w)
	file, _ := args.Get(0).(*services.ExportFile)
	return file, args.Error(1)
}

type mockSearchService struct {
	services.SearchService
	mock.Mock
}

func (m *mockSearchService) Search(ctx context.Context, query string) (*dto.SearchResponse, error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).(*dto.SearchResponse)
	return result, args.Error(1)
}

type mockMatchingService struct {
	services.MatchingService
	mock.Mock
}

func (m *mockMatchingService) Create(ctx context.Context, userID int64, input *dto.MatchingRequestInput) (*dto.CreateMatchingResponse, error) {
	args := m.Called(ctx, userID, input)
	resp, _ := args.Get(0).(*dto.CreateMatchingResponse)
	return resp, args.Error(1)
}

type mockChatService struct {
	services.ChatService
	mock.Mock
}

func (m *mockChatService) GetMessages(ctx context.Context, userID, chatID int64, before *time.Time, limit int) ([]*models.MatchingMessage, error) {
	args := m.Called(ctx, userID, chatID, before, limit)
	msgs, _ := args.Get(0).([]*models.MatchingMessage)
	return msgs, args.Error(1)
}

// --- helpers ---

func newTestRouter(userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID > 0 {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, userID)
			c.Next()
		})
	}
	return r
}

func doRequest(r http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

// --- tests ---

func TestPopupController_ActiveWithoutPopup(t *testing.T) {
	svc := new(mockPopupService)
	svc.On("Active", mock.Anything).Return(nil, nil)

	r := newTestRouter(0)
	r.GET("/popups/active", NewPopupController(svc, zerolog.Nop()).Active)

	w := doRequest(r, http.MethodGet, "/popups/active", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body["data"])
	svc.AssertExpectations(t)
}

func TestPopupController_GetRejectsBadID(t *testing.T) {
	svc := new(mockPopupService)

	r := newTestRouter(1)
	r.GET("/admin/popups/:id", NewPopupController(svc, zerolog.Nop()).Get)

	for _, id := range []string{"abc", "0", "-4"} {
		w := doRequest(r, http.MethodGet, "/admin/popups/"+id, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)
	}
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestPopupController_GetNotFound(t *testing.T) {
	svc := new(mockPopupService)
	svc.On("Get", mock.Anything, int64(9)).Return(nil, apperrors.NewResourceNotFoundError("popup not found"))

	r := newTestRouter(1)
	r.GET("/admin/popups/:id", NewPopupController(svc, zerolog.Nop()).Get)

	w := doRequest(r, http.MethodGet, "/admin/popups/9", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, decodeError(t, w).Error.Code)
}

func TestBulkStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mockPopupService)
		wantStatus int
	}{
		{
			name:       "empty ids",
			body:       `{"ids":[],"status":"active"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing status",
			body:       `{"ids":[1,2]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ok",
			body: `{"ids":[1,2],"status":"inactive"}`,
			setup: func(m *mockPopupService) {
				m.On("BulkUpdateStatus", mock.Anything, []int64{1, 2}, "inactive").
					Return(&dto.BulkResult{Requested: 2, Affected: 2}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid status from service",
			body: `{"ids":[3],"status":"expired"}`,
			setup: func(m *mockPopupService) {
				m.On("BulkUpdateStatus", mock.Anything, []int64{3}, "expired").
					Return(nil, fmt.Errorf("%w: invalid status", apperrors.ErrValidationFailed))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockPopupService)
			if tt.setup != nil {
				tt.setup(svc)
			}

			r := newTestRouter(1)
			r.POST("/admin/popups/bulk-status", NewPopupController(svc, zerolog.Nop()).BulkUpdateStatus)

			w := doRequest(r, http.MethodPost, "/admin/popups/bulk-status", strings.NewReader(tt.body), "application/json")
			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProductController_ImportCSV(t *testing.T) {
	svc := new(mockProductService)
	var received string
	svc.On("ImportCSV", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(1).(io.Reader))
			received = string(data)
		}).
		Return(&dto.ImportResult{Total: 1, Imported: 1}, nil)

	r := newTestRouter(1)
	r.POST("/admin/products/import", NewProductController(svc, zerolog.Nop()).ImportCSV)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "products.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("name,sku\nCourse,SKU-1\n"))
	require.NoError(t, mw.Close())

	w := doRequest(r, http.MethodPost, "/admin/products/import", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "name,sku\nCourse,SKU-1\n", received)

	var resp struct {
		Data dto.ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Imported)
}

func TestProductController_ImportCSVWithoutFile(t *testing.T) {
	svc := new(mockProductService)

	r := newTestRouter(1)
	r.POST("/admin/products/import", NewProductController(svc, zerolog.Nop()).ImportCSV)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())

	w := doRequest(r, http.MethodPost, "/admin/products/import", &buf, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file", decodeError(t, w).Error.Field)
	svc.AssertNotCalled(t, "ImportCSV", mock.Anything, mock.Anything)
}

func TestProductController_ListPublicQuery(t *testing.T) {
	svc := new(mockProductService)
	want := services.ProductListQuery{
		ListQuery: services.ListQuery{Page: 2, Size: 20, Search: "excel", Status: ""},
		Category:  "course",
	}
	svc.On("ListPublic", mock.Anything, want).Return(&dto.PaginatedResponse{}, nil)

	r := newTestRouter(0)
	r.GET("/products", NewProductController(svc, zerolog.Nop()).ListPublic)

	w := doRequest(r, http.MethodGet, "/products?page=2&size=20&search=+excel+&category=course&status=all", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestEducationController_ListPublishedFilters(t *testing.T) {
	svc := new(mockEducationService)
	svc.On("ListPublished", mock.Anything, mock.MatchedBy(func(q services.EducationListQuery) bool {
		return q.Level == "beginner" && q.IsFree != nil && *q.IsFree && q.Page == 1 && q.Size == 10
	})).Return(&dto.PaginatedResponse{}, nil)

	r := newTestRouter(0)
	r.GET("/education", NewEducationController(svc, zerolog.Nop()).ListPublished)

	w := doRequest(r, http.MethodGet, "/education?level=beginner&is_free=true", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestExportController_CSVDownload(t *testing.T) {
	svc := new(mockExportService)
	svc.On("Export", mock.Anything, mock.MatchedBy(func(req services.ExportRequest) bool {
		return req.Type == services.ExportProducts &&
			req.Format == export.FormatCSV &&
			req.IncludeHeaders &&
			assert.ObjectsAreEqual([]string{"name", "sku"}, req.Columns) &&
			req.Category == "course"
	}), mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = io.WriteString(args.Get(2).(io.Writer), "name,sku\r\nCourse,SKU-1\r\n")
		}).
		Return(&services.ExportFile{Filename: "products_2026-10-19.csv", ContentType: "text/csv; charset=utf-8", Rows: 1}, nil)

	r := newTestRouter(1)
	r.GET("/admin/export/:type", NewExportController(svc, zerolog.Nop()).Export)

	w := doRequest(r, http.MethodGet, "/admin/export/products?columns=name,sku&category=course", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="products_2026-10-19.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "1", w.Header().Get("X-Export-Rows"))
	assert.Equal(t, "name,sku\r\nCourse,SKU-1\r\n", w.Body.String())
	svc.AssertExpectations(t)
}

func TestExportController_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		svc := new(mockExportService)
		r := newTestRouter(1)
		r.GET("/admin/export/:type", NewExportController(svc, zerolog.Nop()).Export)

		w := doRequest(r, http.MethodGet, "/admin/export/products?format=pdf", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "format", decodeError(t, w).Error.Field)
		svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown type", func(t *testing.T) {
		svc := new(mockExportService)
		svc.On("Export", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: unknown export type: planets", apperrors.ErrValidationFailed))
		r := newTestRouter(1)
		r.GET("/admin/export/:type", NewExportController(svc, zerolog.Nop()).Export)

		w := doRequest(r, http.MethodGet, "/admin/export/planets?format=xlsx", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})
}

func TestSearchController_Search(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Search", mock.Anything, "").
		Return(nil, fmt.Errorf("%w: search query is required", apperrors.ErrValidationFailed))
	svc.On("Search", mock.Anything, "زعفران").Return(dto.NewSearchResponse("زعفران"), nil)

	r := newTestRouter(0)
	r.GET("/search", NewSearchController(svc, nil, zerolog.Nop()).Search)

	w := doRequest(r, http.MethodGet, "/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/search?q=%D8%B2%D8%B9%D9%81%D8%B1%D8%A7%D9%86", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestMatchingController_Create(t *testing.T) {
	body := `{"productName":"Saffron","quantity":"100","unit":"kg","destinationCountries":"UAE,Qatar","price":"1200","currency":"USD","expiresAt":"2030-01-01T00:00:00Z"}`

	t.Run("requires authentication", func(t *testing.T) {
		svc := new(mockMatchingService)
		r := newTestRouter(0)
		r.POST("/matching/requests", NewMatchingController(svc, zerolog.Nop()).Create)

		w := doRequest(r, http.MethodPost, "/matching/requests", strings.NewReader(body), "application/json")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validation", func(t *testing.T) {
		svc := new(mockMatchingService)
		r := newTestRouter(5)
		r.POST("/matching/requests", NewMatchingController(svc, zerolog.Nop()).Create)

		w := doRequest(r, http.MethodPost, "/matching/requests", strings.NewReader(`{"productName":"Saffron"}`), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		svc := new(mockMatchingService)
		svc.On("Create", mock.Anything, int64(5), mock.MatchedBy(func(in *dto.MatchingRequestInput) bool {
			return in.ProductName == "Saffron" && in.Currency == "USD"
		})).Return(&dto.CreateMatchingResponse{
			Request: dto.MatchingRequestResponse{MatchingRequest: &models.MatchingRequest{ID: 11}},
		}, nil)

		r := newTestRouter(5)
		r.POST("/matching/requests", NewMatchingController(svc, zerolog.Nop()).Create)

		w := doRequest(r, http.MethodPost, "/matching/requests", strings.NewReader(body), "application/json")
		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("not an approved supplier", func(t *testing.T) {
		svc := new(mockMatchingService)
		svc.On("Create", mock.Anything, int64(5), mock.Anything).Return(nil, apperrors.ErrNotApproved)

		r := newTestRouter(5)
		r.POST("/matching/requests", NewMatchingController(svc, zerolog.Nop()).Create)

		w := doRequest(r, http.MethodPost, "/matching/requests", strings.NewReader(body), "application/json")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestChatController_GetMessages(t *testing.T) {
	t.Run("limit is capped to default", func(t *testing.T) {
		svc := new(mockChatService)
		svc.On("GetMessages", mock.Anything, int64(3), int64(8), (*time.Time)(nil), defaultChatPageSize).
			Return([]*models.MatchingMessage{}, nil)

		r := newTestRouter(3)
		r.GET("/matching/chats/:chatId/messages", NewChatController(svc, nil, zerolog.Nop()).GetMessages)

		w := doRequest(r, http.MethodGet, "/matching/chats/8/messages?limit=500", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("before must be RFC3339", func(t *testing.T) {
		svc := new(mockChatService)
		r := newTestRouter(3)
		r.GET("/matching/chats/:chatId/messages", NewChatController(svc, nil, zerolog.Nop()).GetMessages)

		w := doRequest(r, http.MethodGet, "/matching/chats/8/messages?before=yesterday", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "before", decodeError(t, w).Error.Field)
	})

	t.Run("non participant", func(t *testing.T) {
		svc := new(mockChatService)
		svc.On("GetMessages", mock.Anything, int64(3), int64(8), mock.Anything, 20).
			Return(nil, apperrors.ErrPermissionDenied)

		r := newTestRouter(3)
		r.GET("/matching/chats/:chatId/messages", NewChatController(svc, nil, zerolog.Nop()).GetMessages)

		w := doRequest(r, http.MethodGet, "/matching/chats/8/messages?limit=20&before=2026-10-01T10:00:00Z", nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
