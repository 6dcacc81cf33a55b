package items

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

// Handler handles item-related requests
type Handler struct {
	store *Store
}

// NewHandler creates a new items handler
func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{store: NewStore(db, log)}
}

// ItemRequest represents the request to create or update an item
type ItemRequest struct {
	Kind        string `json:"kind" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// ReorderRequest represents the reorder commit body
type ReorderRequest struct {
	OrderedIDs []uint `json:"ordered_ids" binding:"required"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID          uint   `json:"id"`
	GroupID     uint   `json:"group_id"`
	Kind        string `json:"kind"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Archived    bool   `json:"archived"`
	Position    int    `json:"position"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ListResponse represents the two ordering buckets of a group
type ListResponse struct {
	Active   []ItemResponse `json:"active"`
	Archived []ItemResponse `json:"archived"`
}

func itemToResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		GroupID:     item.GroupID,
		Kind:        string(item.Kind),
		Value:       item.Value,
		Description: item.Description,
		Archived:    item.Archived,
		Position:    item.Position,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func itemsToResponses(items []models.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = itemToResponse(&items[i])
	}
	return responses
}

func parseID(c *gin.Context, param, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		respond.Error(c, apierr.Validation("invalid "+what))
		return 0, false
	}
	return uint(id), true
}

// List returns the group's items as active and archived buckets
// @Summary List items in a group
// @Description Get the active and archived item buckets, each ordered by position
// @Tags items
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/items [get]
func (h *Handler) List(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseID(c, "id", "group ID")
	if !ok {
		return
	}

	buckets, err := h.store.List(groupID, ident)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.Data(c, http.StatusOK, ListResponse{
		Active:   itemsToResponses(buckets.Active),
		Archived: itemsToResponses(buckets.Archived),
	})
}

// Create appends a new item to the group's active bucket
// @Summary Create an item
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body ItemRequest true "Item details"
// @Success 201 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/items [post]
func (h *Handler) Create(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseID(c, "id", "group ID")
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	item, err := h.store.Create(groupID, ident, Input{
		Kind:        models.ItemKind(req.Kind),
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusCreated, itemToResponse(item))
}

// Get returns a single item
// @Summary Get an item
// @Tags items
// @Produce json
// @Param id path int true "Group ID"
// @Param itemId path int true "Item ID"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/items/{itemId} [get]
func (h *Handler) Get(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseID(c, "id", "group ID")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId", "item ID")
	if !ok {
		return
	}

	item, err := h.store.GetByID(itemID, groupID, ident)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, itemToResponse(item))
}

// Update replaces the item's mutable fields
// @Summary Update an item
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param itemId path int true "Item ID"
// @Param request body ItemRequest true "Updated item details"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/items/{itemId} [put]
func (h *Handler) Update(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseID(c, "id", "group ID")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId", "item ID")
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	item, err := h.store.Update(itemID, groupID, ident, Input{
		Kind:        models.ItemKind(req.Kind),
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, itemToResponse(item))
}

// ToggleArchive flips the item between the active and archived buckets
// @Summary Toggle an item's archive status
// @Tags items
// @Produce json
// @Param id path int true "Group ID"
// @Param itemId path int true "Item ID"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/items/{itemId}/archive [patch]
func (h *Handler) ToggleArchive(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseID(c, "id", "group ID")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId", "item ID")
	if !ok {
		return
	}

	item, err := h.store.ToggleArchive(itemID, groupID, ident)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, itemToResponse(item))
}

// Reorder commits a full ordered id sequence for the group
// @Summary Reorder items
// @Description Set positions from the ordered id sequence; unmatched ids are skipped
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body ReorderRequest true "Ordered item IDs"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/items/reorder [post]
func (h *Handler) Reorder(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseID(c, "id", "group ID")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	updated, err := h.store.Reorder(groupID, ident, req.OrderedIDs)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, updated)
}

// Delete removes an item permanently
// @Summary Delete an item
// @Tags items
// @Produce json
// @Param id path int true "Group ID"
// @Param itemId path int true "Item ID"
// @Success 200 {object} respond.Envelope
// @Security BearerAuth
// @Router /groups/{id}/items/{itemId} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}
	groupID, ok := parseID(c, "id", "group ID")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId", "item ID")
	if !ok {
		return
	}

	if err := h.store.Delete(itemID, groupID, ident); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Data(c, http.StatusOK, gin.H{"message": "item deleted"})
}

// RegisterRoutes registers item routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/groups/:id/items", h.List)
	rg.POST("/groups/:id/items", h.Create)
	rg.POST("/groups/:id/items/reorder", h.Reorder)
	rg.GET("/groups/:id/items/:itemId", h.Get)
	rg.PUT("/groups/:id/items/:itemId", h.Update)
	rg.PATCH("/groups/:id/items/:itemId/archive", h.ToggleArchive)
	rg.DELETE("/groups/:id/items/:itemId", h.Delete)
}
