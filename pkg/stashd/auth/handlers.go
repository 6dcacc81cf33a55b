package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/models"
	"github.com/stashd/stashd/pkg/stashd/respond"
)

// Handler handles authentication requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new auth handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID       uint   `json:"id"`
	OwnerKey string `json:"owner_key"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account and receive a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} respond.Envelope "Validation error"
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	// Check if email already exists
	var existingUser models.User
	if err := h.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		respond.Error(c, apierr.Validation("email already registered"))
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		respond.Error(c, apierr.ErrInternal)
		return
	}

	user := models.User{
		OwnerKey:     "stashd|" + uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashedPassword,
	}

	if err := h.db.Create(&user).Error; err != nil {
		respond.Error(c, apierr.ErrInternal)
		return
	}

	token, err := GenerateToken(user.OwnerKey, user.Email)
	if err != nil {
		respond.Error(c, apierr.ErrInternal)
		return
	}

	respond.Data(c, http.StatusCreated, AuthResponse{
		Token: token,
		User: UserResponse{
			ID:       user.ID,
			OwnerKey: user.OwnerKey,
			Email:    user.Email,
			Name:     user.Name,
		},
	})
}

// Login handles user login
// @Summary Login
// @Description Authenticate with email and password to receive a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} respond.Envelope "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respond.Error(c, apierr.ErrUnauthenticated)
		return
	}

	if user.PasswordHash == "" || !CheckPassword(req.Password, user.PasswordHash) {
		respond.Error(c, apierr.ErrUnauthenticated)
		return
	}

	token, err := GenerateToken(user.OwnerKey, user.Email)
	if err != nil {
		respond.Error(c, apierr.ErrInternal)
		return
	}

	respond.Data(c, http.StatusOK, AuthResponse{
		Token: token,
		User: UserResponse{
			ID:       user.ID,
			OwnerKey: user.OwnerKey,
			Email:    user.Email,
			Name:     user.Name,
		},
	})
}

// RegisterRoutes registers authentication routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}
