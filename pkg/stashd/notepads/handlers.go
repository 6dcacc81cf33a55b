package notepads

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/identity"
	"github.com/stashd/stashd/pkg/stashd/models"
	"github.com/stashd/stashd/pkg/stashd/respond"
)

// Handler handles notepad requests
type Handler struct {
	store *Store
}

// NewHandler creates a new notepads handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{store: NewStore(db)}
}

// UpdateNotepadRequest replaces the notepad content
type UpdateNotepadRequest struct {
	ID      uint   `json:"id" binding:"required"`
	Content string `json:"content"`
}

// NotepadResponse represents a notepad in API responses
type NotepadResponse struct {
	ID        uint   `json:"id"`
	GroupID   uint   `json:"group_id"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updated_at"`
}

func notepadToResponse(notepad *models.Notepad) NotepadResponse {
	return NotepadResponse{
		ID:        notepad.ID,
		GroupID:   notepad.GroupID,
		Content:   notepad.Content,
		UpdatedAt: notepad.UpdatedAt.UTC().Format(time.RFC3339),
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

// Get returns the group's notepad
// @Summary Get a group's notepad
// @Tags notepads
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/notepad [get]
func (h *Handler) Get(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	notepad, err := h.store.GetFromGroup(groupID, ident)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, notepadToResponse(notepad))
}

// Create returns the group's notepad, creating an empty one if absent
// @Summary Create a group's notepad if absent
// @Tags notepads
// @Produce json
// @Param id path int true "Group ID"
// @Success 201 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/notepad [post]
func (h *Handler) Create(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	notepad, err := h.store.CreateIfAbsent(groupID, ident)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusCreated, notepadToResponse(notepad))
}

// Update replaces the notepad content
// @Summary Update a group's notepad
// @Tags notepads
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body UpdateNotepadRequest true "Notepad content"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/notepad [put]
func (h *Handler) Update(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req UpdateNotepadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	notepad, err := h.store.Update(req.ID, groupID, ident, req.Content)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, notepadToResponse(notepad))
}

// RegisterRoutes registers notepad routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/groups/:id/notepad", h.Get)
	rg.POST("/groups/:id/notepad", h.Create)
	rg.PUT("/groups/:id/notepad", h.Update)
}
