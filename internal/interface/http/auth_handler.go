package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/feedwire/feedwire/internal/application"
	"github.com/feedwire/feedwire/internal/interface/middleware"
	"github.com/feedwire/feedwire/pkg/response"
	"github.com/feedwire/feedwire/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Binding tags check shape only; the field-level rules (email format,
// minimum lengths) live in AuthService so REST and GraphQL share one
// implementation.
type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Signup PUT /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed. entered data is incorrect", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"userId": u.ID.Hex()}, "user created!")
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed. entered data is incorrect", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token":  res.Token,
		"userId": res.UserID,
	}, "login successful")
}

// GetStatus GET /auth/status
func (h *AuthHandler) GetStatus(c *gin.Context) {
	status, err := h.Svc.GetStatus(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": status}, "status fetched")
}

// UpdateStatus PATCH /auth/status
func (h *AuthHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed. entered data is incorrect", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateStatus(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": u.Status}, "status updated")
}
