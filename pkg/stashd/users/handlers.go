package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/identity"
	"github.com/stashd/stashd/pkg/stashd/respond"
)

// Handler handles user profile and API token requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new users handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// MeResponse represents the current user in API responses
type MeResponse struct {
	ID       uint   `json:"id"`
	OwnerKey string `json:"owner_key"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	// HasAPIToken tells the client whether a token exists without ever
	// echoing it back.
	HasAPIToken bool `json:"has_api_token"`
}

// APITokenResponse carries a freshly generated API access token.
// This is the only place the token value appears in a response.
type APITokenResponse struct {
	APIAccessToken string `json:"api_access_token"`
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} MeResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}

	user, err := identity.EnsureUser(h.db, ident.OwnerKey)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.Data(c, http.StatusOK, MeResponse{
		ID:          user.ID,
		OwnerKey:    user.OwnerKey,
		Email:       user.Email,
		Name:        user.Name,
		HasAPIToken: user.APIAccessToken != nil,
	})
}

// GenerateAPIToken (re)generates the user's API access token
// @Summary Generate an API access token
// @Description Generate a long-lived API token, replacing any prior one
// @Tags users
// @Produce json
// @Success 201 {object} APITokenResponse
// @Security BearerAuth
// @Router /users/me/api-token [post]
func (h *Handler) GenerateAPIToken(c *gin.Context) {
	ident, ok := identity.MustFromContext(c)
	if !ok {
		return
	}

	user, err := identity.EnsureUser(h.db, ident.OwnerKey)
	if err != nil {
		respond.Error(c, err)
		return
	}

	token := uuid.NewString()
	if err := h.db.Model(user).Update("api_access_token", token).Error; err != nil {
		respond.Error(c, apierr.ErrInternal)
		return
	}

	respond.Data(c, http.StatusCreated, APITokenResponse{APIAccessToken: token})
}

// RegisterRoutes registers user routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.Me)
	rg.POST("/users/me/api-token", h.GenerateAPIToken)
}
