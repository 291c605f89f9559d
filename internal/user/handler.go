package user

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, mw *AuthMiddleware) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/users/:id/verify-email", h.VerifyEmail)

	authed := r.Group("/", mw.RequireAuth())
	authed.PUT("/users/:id/profile", h.UpdateProfile)

	elevated := authed.Group("/", mw.RequireRole(RoleManager, RoleAdmin))
	elevated.GET("/users", h.ListUsers)
	elevated.GET("/users/:id", h.GetUser)
	elevated.POST("/users/:id/professional-status", h.UpdateProfessionalStatus)

	admin := authed.Group("/", mw.RequireRole(RoleAdmin))
	admin.POST("/users", h.CreateUser)
	admin.PUT("/users/:id", h.UpdateUser)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.POST("/users/:id/unlock", h.UnlockAccount)
}

type userResponse struct {
	ID                          string     `json:"id"`
	Nickname                    string     `json:"nickname"`
	Email                       string     `json:"email"`
	Role                        string     `json:"role"`
	EmailVerified               bool       `json:"email_verified"`
	IsLocked                    bool       `json:"is_locked"`
	FirstName                   string     `json:"first_name,omitempty"`
	LastName                    string     `json:"last_name,omitempty"`
	Bio                         string     `json:"bio,omitempty"`
	ProfilePictureURL           string     `json:"profile_picture_url,omitempty"`
	LinkedInProfileURL          string     `json:"linkedin_profile_url,omitempty"`
	GitHubProfileURL            string     `json:"github_profile_url,omitempty"`
	IsProfessional              bool       `json:"is_professional"`
	ProfessionalStatusUpdatedAt *time.Time `json:"professional_status_updated_at,omitempty"`
	LastLoginAt                 *time.Time `json:"last_login_at,omitempty"`
	CreatedAt                   time.Time  `json:"created_at"`
}

func toUserResponse(u *User) userResponse {
	return userResponse{
		ID:                          u.ID,
		Nickname:                    u.Nickname,
		Email:                       u.Email,
		Role:                        u.Role.String(),
		EmailVerified:               u.EmailVerified,
		IsLocked:                    u.IsLocked,
		FirstName:                   u.FirstName,
		LastName:                    u.LastName,
		Bio:                         u.Bio,
		ProfilePictureURL:           u.ProfilePictureURL,
		LinkedInProfileURL:          u.LinkedInProfileURL,
		GitHubProfileURL:            u.GitHubProfileURL,
		IsProfessional:              u.IsProfessional,
		ProfessionalStatusUpdatedAt: u.ProfessionalStatusUpdatedAt,
		LastLoginAt:                 u.LastLoginAt,
		CreatedAt:                   u.CreatedAt,
	}
}

type registerRequest struct {
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	user, err := h.service.Register(CreateParams{
		Nickname:  req.Nickname,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("user registered", zap.String("user_id", user.ID))
	c.JSON(http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.service.GenerateToken(user)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

type createUserRequest struct {
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	user, err := h.service.Create(CreateParams{
		Nickname:  req.Nickname,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be an integer"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	users, err := h.service.List(skip, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "skip": skip, "limit": limit})
}

type updateUserRequest struct {
	Nickname           *string `json:"nickname"`
	Email              *string `json:"email"`
	Role               *string `json:"role"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	ProfilePictureURL  *string `json:"profile_picture_url"`
	LinkedInProfileURL *string `json:"linkedin_profile_url"`
	GitHubProfileURL   *string `json:"github_profile_url"`
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	user, err := h.service.Update(c.Param("id"), UpdateParams{
		Nickname:           req.Nickname,
		Email:              req.Email,
		Role:               req.Role,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Bio:                req.Bio,
		ProfilePictureURL:  req.ProfilePictureURL,
		LinkedInProfileURL: req.LinkedInProfileURL,
		GitHubProfileURL:   req.GitHubProfileURL,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	ProfilePictureURL  *string `json:"profile_picture_url"`
	LinkedInProfileURL *string `json:"linkedin_profile_url"`
	GitHubProfileURL   *string `json:"github_profile_url"`
}

// UpdateProfile lets a user edit their own profile fields; managers and
// admins may edit anyone's.
func (h *Handler) UpdateProfile(c *gin.Context) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	targetID := c.Param("id")
	if claims.UserID != targetID &&
		claims.Role != RoleAdmin.String() &&
		claims.Role != RoleManager.String() {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot edit another user's profile"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	user, err := h.service.Update(targetID, UpdateParams{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Bio:                req.Bio,
		ProfilePictureURL:  req.ProfilePictureURL,
		LinkedInProfileURL: req.LinkedInProfileURL,
		GitHubProfileURL:   req.GitHubProfileURL,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	deleted, err := h.service.Delete(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type professionalStatusRequest struct {
	Professional *bool `json:"professional"`
}

func (h *Handler) UpdateProfessionalStatus(c *gin.Context) {
	// Absent body means promotion
	professional := true
	var req professionalStatusRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Professional != nil {
		professional = *req.Professional
	}

	user, err := h.service.UpdateProfessionalStatus(c.Param("id"), professional)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) UnlockAccount(c *gin.Context) {
	unlocked, err := h.service.UnlockAccount(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !unlocked {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": true})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	verified, err := h.service.VerifyEmailWithToken(c.Param("id"), c.Query("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !verified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "nickname or email already taken"})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		h.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
