package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
	"siteledger/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn       func(userID, projectID uint, name, description string) (*models.Category, error)
	getProjectCategoriesFn func(userID, projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	getCategoryByIDFn      func(userID, categoryID uint) (*models.Category, error)
	updateCategoryFn       func(userID, categoryID uint, name, description string) (*models.Category, error)
	deleteCategoryFn       func(userID, categoryID uint) error
}

func (m *mockCategoryService) CreateCategory(userID, projectID uint, name, description string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, projectID, name, description)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetProjectCategories(userID, projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if m.getProjectCategoriesFn != nil {
		return m.getProjectCategoriesFn(userID, projectID, page)
	}
	resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID uint, name, description string) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, name, description)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID uint) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/projects/:id/categories", handler.CreateCategory)
	auth.GET("/projects/:id/categories", handler.GetCategories)
	auth.GET("/categories/:id", handler.GetCategory)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_, projectID uint, name, description string) (*models.Category, error) {
				return &models.Category{
					Base:        models.Base{ID: 1},
					ProjectID:   projectID,
					Name:        name,
					Description: description,
				}, nil
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/projects/1/categories",
			`{"name":"Concrete","description":"Ready-mix and formwork"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		category := result["category"].(map[string]interface{})
		if category["name"] != "Concrete" {
			t.Errorf("expected Concrete, got %v", category["name"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/projects/1/categories", `{"description":"no name"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when project not found", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_, _ uint, _, _ string) (*models.Category, error) {
				return nil, apperrors.ErrProjectNotFound
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/projects/999/categories", `{"name":"Concrete"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetCategories(t *testing.T) {
	t.Run("returns 200 with paginated categories", func(t *testing.T) {
		svc := &mockCategoryService{
			getProjectCategoriesFn: func(_, _ uint, _ pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				resp := pagination.NewPageResponse([]models.Category{
					{Base: models.Base{ID: 1}, Name: "Concrete"},
					{Base: models.Base{ID: 2}, Name: "Electrical"},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/projects/1/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 categories, got %d", len(data))
		}
	})

	t.Run("passes pagination to service", func(t *testing.T) {
		var captured pagination.PageRequest
		svc := &mockCategoryService{
			getProjectCategoriesFn: func(_, _ uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				captured = page
				resp := pagination.NewPageResponse([]models.Category{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		doRequest(r, "GET", "/projects/1/categories?page=3&page_size=5", "")

		if captured.Page != 3 || captured.PageSize != 5 {
			t.Errorf("expected page 3 size 5, got %+v", captured)
		}
	})
}

func TestCategoryHandler_GetCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoryByIDFn: func(_, categoryID uint) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: categoryID}, Name: "Plumbing"}, nil
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/4", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		category := result["category"].(map[string]interface{})
		if category["name"] != "Plumbing" {
			t.Errorf("expected Plumbing, got %v", category["name"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoryByIDFn: func(_, _ uint) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, categoryID uint, name, description string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: categoryID}, Name: name, Description: description}, nil
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/1", `{"name":"Structural Steel"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		category := result["category"].(map[string]interface{})
		if category["name"] != "Structural Steel" {
			t.Errorf("expected Structural Steel, got %v", category["name"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _ uint, _, _ string) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/999", `{"name":"Missing"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "Category deleted successfully" {
			t.Errorf("unexpected message: %v", result["message"])
		}
	})

	t.Run("returns 409 when category is referenced", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ uint) error {
				return apperrors.ErrCategoryInUse
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/1", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ uint) error {
				return apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
