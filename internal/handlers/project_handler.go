package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "siteledger/internal/errors"
	"siteledger/internal/models"
	"siteledger/internal/pagination"
	"siteledger/internal/services"
)

// ProjectHandler handles project and membership requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
	auditService   services.AuditServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer, auditService services.AuditServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, auditService: auditService}
}

// CreateProjectRequest represents the request payload for creating a project.
type CreateProjectRequest struct {
	Name        string                `json:"name" binding:"required,min=1,max=200"`
	Description string                `json:"description" binding:"max=2000"`
	Address     string                `json:"address" binding:"max=500"`
	System      models.TrackingSystem `json:"system" binding:"omitempty,tracking_system"`
	Currency    string                `json:"currency" binding:"omitempty,len=3"`
}

// UpdateProjectRequest represents the request payload for updating a project.
type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"omitempty,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Address     string `json:"address" binding:"max=500"`
}

// AddMemberRequest represents the request payload for adding a member.
type AddMemberRequest struct {
	UserID uint              `json:"user_id" binding:"required"`
	Role   models.MemberRole `json:"role" binding:"omitempty,member_role"`
	Phone  string            `json:"phone" binding:"max=32"`
}

// CreateProject handles the creation of a new project.
// @Summary     Create a project
// @Description Create a new construction project with budget settings
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(userID, req.Name, req.Description, req.Address, req.System, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, project.ID, "CREATE_PROJECT", "project", project.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing the user's projects.
// @Summary     Get projects
// @Description Get a paginated list of projects the user belongs to
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Paginated projects"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.projectService.GetUserProjects(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProject handles retrieving a specific project.
// @Summary     Get project by ID
// @Description Get a specific project with settings and members
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} models.Project "Project details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(userID, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject handles updating a project's descriptive fields.
// @Summary     Update project
// @Description Update a project (owner only)
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Project ID"
// @Param       request body UpdateProjectRequest true "Updated project details"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.UpdateProject(userID, projectID, req.Name, req.Description, req.Address)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "UPDATE_PROJECT", "project", projectID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles deleting a project.
// @Summary     Delete project
// @Description Delete a project (owner only, soft delete)
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} MessageResponse "Project deleted"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.DeleteProject(userID, projectID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "DELETE_PROJECT", "project", projectID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// AddMember handles adding a user to a project.
// @Summary     Add project member
// @Description Add a user to a project with a role (owner only)
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "Project ID"
// @Param       request body AddMemberRequest true "Member details"
// @Success     201 {object} models.ProjectMember "Member added"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or user not found"
// @Failure     409 {object} ErrorResponse "Already a member"
// @Router      /projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.projectService.AddMember(userID, projectID, req.UserID, req.Role, req.Phone)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "ADD_MEMBER", "project_member", member.ID, c.ClientIP(),
		map[string]interface{}{"member_user_id": req.UserID, "role": req.Role})

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// RemoveMember handles removing a member from a project.
// @Summary     Remove project member
// @Description Remove a member from a project (owner only)
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Project ID"
// @Param       member_id path int true "Membership ID"
// @Success     200 {object} MessageResponse "Member removed"
// @Failure     400 {object} ErrorResponse "Cannot remove the owner"
// @Failure     404 {object} ErrorResponse "Project or member not found"
// @Router      /projects/{id}/members/{member_id} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "member_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.RemoveMember(userID, projectID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, projectID, "REMOVE_MEMBER", "project_member", memberID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// GetDashboard handles retrieving the project dashboard summary.
// @Summary     Get project dashboard
// @Description Get the project's money position, recomputed from current rows
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} services.ProjectDashboard "Dashboard summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/dashboard [get]
func (h *ProjectHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.projectService.GetDashboard(userID, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}
