package controllers

import (
	"net/http"

	"github.com/tillworks/tillpoint/app/repositories"
	"github.com/tillworks/tillpoint/app/services"
	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/bind"
	"github.com/tillworks/tillpoint/pkg/middleware"
	"github.com/tillworks/tillpoint/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"nullable,max=255"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthController exposes registration, login, and the current-user endpoint.
type AuthController struct {
	auth  *services.AuthService
	users *repositories.UserRepository
}

func NewAuthController(auth *services.AuthService, users *repositories.UserRepository) *AuthController {
	return &AuthController{auth: auth, users: users}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !bind.Body(w, r, &req) {
		return
	}

	user, err := c.auth.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !bind.Body(w, r, &req) {
		return
	}

	tokens, err := c.auth.Login(req.Username, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Success(w, tokens)
}

// Me returns the authenticated user's account record.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response.WriteError(w, r, apperr.Unauthorized(""))
		return
	}

	user, err := c.users.FindByID(principal.ID)
	if err != nil {
		response.WriteError(w, r, apperr.FromDB(err, "User", principal.ID))
		return
	}
	response.Success(w, user)
}
