package groups

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/identity"
	"github.com/stashd/stashd/pkg/stashd/models"
	"github.com/stashd/stashd/pkg/stashd/respond"
)

// Handler handles group-related requests
type Handler struct {
	store *Store
}

// NewHandler creates a new groups handler
func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{store: NewStore(db, log)}
}

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateGroupRequest patches a single group field per request
type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Archived    bool   `json:"archived"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func groupToResponse(group *models.Group) GroupResponse {
	return GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Archived:    group.Archived,
		CreatedAt:   group.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   group.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseGroupID(c *gin.Context) (uint, bool) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respond.Error(c, apierr.Validation("invalid group ID"))
		return 0, false
	}
	return uint(groupID), true
}

// List returns all non-archived groups owned by the current identity
// @Summary List groups
// @Description Get all non-archived groups owned by the caller
// @Tags groups
// @Produce json
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}

	groups, err := h.store.GetAll(ident)
	if err != nil {
		respond.Error(c, err)
		return
	}

	responses := make([]GroupResponse, len(groups))
	for i := range groups {
		responses[i] = groupToResponse(&groups[i])
	}
	respond.Data(c, http.StatusOK, responses)
}

// Create creates a new group owned by the current identity
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	group, err := h.store.Create(ident, req.Name, req.Description)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusCreated, groupToResponse(group))
}

// Get returns a single group
// @Summary Get a group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	group, err := h.store.GetByID(groupID, ident)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, groupToResponse(group))
}

// Update patches the group's name or description
// @Summary Update a group
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body UpdateGroupRequest true "Field to patch"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if req.Name == nil && req.Description == nil {
		respond.Error(c, apierr.Validation("nothing to update"))
		return
	}

	var group *models.Group
	var err error
	if req.Name != nil {
		group, err = h.store.UpdateName(groupID, ident, *req.Name)
		if err != nil {
			respond.Error(c, err)
			return
		}
	}
	if req.Description != nil {
		group, err = h.store.UpdateDescription(groupID, ident, *req.Description)
		if err != nil {
			respond.Error(c, err)
			return
		}
	}

	respond.Data(c, http.StatusOK, groupToResponse(group))
}

// Delete removes a group and cascades over its items and notepads
// @Summary Delete a group
// @Description Delete a group and all items belonging to it
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(groupID, ident); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, gin.H{"message": "group deleted"})
}

// RegisterRoutes registers group routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/groups", h.List)
	rg.POST("/groups", h.Create)
	rg.GET("/groups/:id", h.Get)
	rg.PATCH("/groups/:id", h.Update)
	rg.DELETE("/groups/:id", h.Delete)
}
