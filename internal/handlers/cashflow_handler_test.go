package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
	"siteledger/internal/services"
)

// --- mock cash-flow service ---

type mockCashFlowService struct {
	createEntryFn       func(userID, projectID uint, categoryID *uint, entryType models.CashFlowType, status models.CashFlowStatus, amount int64, description string, date time.Time, notes string) (*models.CashFlowEntry, error)
	getProjectEntriesFn func(userID, projectID uint, page pagination.PageRequest, filter services.CashFlowFilter) (*pagination.PageResponse[models.CashFlowEntry], error)
	getEntryByIDFn      func(userID, entryID uint) (*models.CashFlowEntry, error)
	updateEntryFn       func(userID, entryID uint, categoryID *uint, status *models.CashFlowStatus, amount *int64, description string, date *time.Time, notes *string) (*models.CashFlowEntry, error)
	deleteEntryFn       func(userID, entryID uint) error
}

func (m *mockCashFlowService) CreateEntry(userID, projectID uint, categoryID *uint, entryType models.CashFlowType, status models.CashFlowStatus, amount int64, description string, date time.Time, notes string) (*models.CashFlowEntry, error) {
	if m.createEntryFn != nil {
		return m.createEntryFn(userID, projectID, categoryID, entryType, status, amount, description, date, notes)
	}
	return &models.CashFlowEntry{}, nil
}

func (m *mockCashFlowService) GetProjectEntries(userID, projectID uint, page pagination.PageRequest, filter services.CashFlowFilter) (*pagination.PageResponse[models.CashFlowEntry], error) {
	if m.getProjectEntriesFn != nil {
		return m.getProjectEntriesFn(userID, projectID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.CashFlowEntry{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCashFlowService) GetEntryByID(userID, entryID uint) (*models.CashFlowEntry, error) {
	if m.getEntryByIDFn != nil {
		return m.getEntryByIDFn(userID, entryID)
	}
	return &models.CashFlowEntry{}, nil
}

func (m *mockCashFlowService) UpdateEntry(userID, entryID uint, categoryID *uint, status *models.CashFlowStatus, amount *int64, description string, date *time.Time, notes *string) (*models.CashFlowEntry, error) {
	if m.updateEntryFn != nil {
		return m.updateEntryFn(userID, entryID, categoryID, status, amount, description, date, notes)
	}
	return &models.CashFlowEntry{}, nil
}

func (m *mockCashFlowService) DeleteEntry(userID, entryID uint) error {
	if m.deleteEntryFn != nil {
		return m.deleteEntryFn(userID, entryID)
	}
	return nil
}

var _ services.CashFlowServicer = (*mockCashFlowService)(nil)

func setupCashFlowRouter(handler *CashFlowHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/projects/:id/cash-flow", handler.CreateEntry)
	auth.GET("/projects/:id/cash-flow", handler.GetEntries)
	auth.GET("/cash-flow/:id", handler.GetEntry)
	auth.PUT("/cash-flow/:id", handler.UpdateEntry)
	auth.DELETE("/cash-flow/:id", handler.DeleteEntry)
	return r
}

func TestCashFlowHandler_CreateEntry(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCashFlowService{
			createEntryFn: func(_, projectID uint, _ *uint, entryType models.CashFlowType, _ models.CashFlowStatus, amount int64, _ string, _ time.Time, _ string) (*models.CashFlowEntry, error) {
				return &models.CashFlowEntry{
					Base:      models.Base{ID: 1},
					ProjectID: projectID,
					Type:      entryType,
					Status:    models.CashFlowStatusPaid,
					Amount:    amount,
				}, nil
			},
		}
		handler := NewCashFlowHandler(svc, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "POST", "/projects/1/cash-flow", `{"type":"expense","amount":25000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		entry := result["entry"].(map[string]interface{})
		if entry["type"] != "expense" {
			t.Errorf("expected expense, got %v", entry["type"])
		}
		if entry["amount"].(float64) != 25000 {
			t.Errorf("expected amount 25000, got %v", entry["amount"])
		}
	})

	t.Run("returns 400 on missing type", func(t *testing.T) {
		handler := NewCashFlowHandler(&mockCashFlowService{}, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "POST", "/projects/1/cash-flow", `{"amount":25000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		handler := NewCashFlowHandler(&mockCashFlowService{}, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "POST", "/projects/1/cash-flow", `{"type":"transfer","amount":25000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		handler := NewCashFlowHandler(&mockCashFlowService{}, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "POST", "/projects/1/cash-flow", `{"type":"expense","amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on legacy type against v2 project", func(t *testing.T) {
		svc := &mockCashFlowService{
			createEntryFn: func(_, _ uint, _ *uint, _ models.CashFlowType, _ models.CashFlowStatus, _ int64, _ string, _ time.Time, _ string) (*models.CashFlowEntry, error) {
				return nil, apperrors.ErrLegacyEntryType
			},
		}
		handler := NewCashFlowHandler(svc, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "POST", "/projects/1/cash-flow", `{"type":"addition_expense","amount":25000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "LEGACY_ENTRY_TYPE")
	})
}

func TestCashFlowHandler_GetEntries(t *testing.T) {
	t.Run("returns 200 with paginated entries", func(t *testing.T) {
		svc := &mockCashFlowService{
			getProjectEntriesFn: func(_, _ uint, _ pagination.PageRequest, _ services.CashFlowFilter) (*pagination.PageResponse[models.CashFlowEntry], error) {
				resp := pagination.NewPageResponse([]models.CashFlowEntry{
					{Base: models.Base{ID: 1}, Amount: 25000},
					{Base: models.Base{ID: 2}, Amount: 40000},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewCashFlowHandler(svc, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "GET", "/projects/1/cash-flow", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 entries, got %d", len(data))
		}
	})

	t.Run("passes filter params to service", func(t *testing.T) {
		var captured services.CashFlowFilter
		svc := &mockCashFlowService{
			getProjectEntriesFn: func(_, _ uint, _ pagination.PageRequest, filter services.CashFlowFilter) (*pagination.PageResponse[models.CashFlowEntry], error) {
				captured = filter
				resp := pagination.NewPageResponse([]models.CashFlowEntry{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewCashFlowHandler(svc, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		doRequest(r, "GET", "/projects/1/cash-flow?type=expense&status=paid&category_id=3", "")

		if captured.Type == nil || *captured.Type != models.CashFlowTypeExpense {
			t.Error("expected type=expense to be passed")
		}
		if captured.Status == nil || *captured.Status != models.CashFlowStatusPaid {
			t.Error("expected status=paid to be passed")
		}
		if captured.CategoryID == nil || *captured.CategoryID != 3 {
			t.Error("expected category_id=3 to be passed")
		}
	})

	t.Run("returns 400 on invalid type filter", func(t *testing.T) {
		handler := NewCashFlowHandler(&mockCashFlowService{}, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "GET", "/projects/1/cash-flow?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid status filter", func(t *testing.T) {
		handler := NewCashFlowHandler(&mockCashFlowService{}, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "GET", "/projects/1/cash-flow?status=settled", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date filter", func(t *testing.T) {
		handler := NewCashFlowHandler(&mockCashFlowService{}, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "GET", "/projects/1/cash-flow?from=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCashFlowHandler_UpdateEntry(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockCashFlowService{
			updateEntryFn: func(_, entryID uint, _ *uint, _ *models.CashFlowStatus, amount *int64, _ string, _ *time.Time, _ *string) (*models.CashFlowEntry, error) {
				e := &models.CashFlowEntry{Base: models.Base{ID: entryID}, ProjectID: 1}
				if amount != nil {
					e.Amount = *amount
				}
				return e, nil
			},
		}
		handler := NewCashFlowHandler(svc, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "PUT", "/cash-flow/1", `{"amount":30000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		entry := result["entry"].(map[string]interface{})
		if entry["amount"].(float64) != 30000 {
			t.Errorf("expected amount 30000, got %v", entry["amount"])
		}
	})

	t.Run("returns 409 on managed entry", func(t *testing.T) {
		svc := &mockCashFlowService{
			updateEntryFn: func(_, _ uint, _ *uint, _ *models.CashFlowStatus, _ *int64, _ string, _ *time.Time, _ *string) (*models.CashFlowEntry, error) {
				return nil, apperrors.ErrEntryManaged
			},
		}
		handler := NewCashFlowHandler(svc, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "PUT", "/cash-flow/1", `{"amount":30000}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ENTRY_MANAGED")
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockCashFlowService{
			updateEntryFn: func(_, _ uint, _ *uint, _ *models.CashFlowStatus, _ *int64, _ string, _ *time.Time, _ *string) (*models.CashFlowEntry, error) {
				return nil, apperrors.ErrEntryNotFound
			},
		}
		handler := NewCashFlowHandler(svc, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "PUT", "/cash-flow/999", `{"amount":30000}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCashFlowHandler_DeleteEntry(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewCashFlowHandler(&mockCashFlowService{}, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "DELETE", "/cash-flow/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "Entry deleted successfully" {
			t.Errorf("unexpected message: %v", result["message"])
		}
	})

	t.Run("returns 409 on managed entry", func(t *testing.T) {
		svc := &mockCashFlowService{
			deleteEntryFn: func(_, _ uint) error {
				return apperrors.ErrEntryManaged
			},
		}
		handler := NewCashFlowHandler(svc, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "DELETE", "/cash-flow/1", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		handler := NewCashFlowHandler(&mockCashFlowService{}, &mockAuditService{})
		r := setupCashFlowRouter(handler)

		rec := doRequest(r, "DELETE", "/cash-flow/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
