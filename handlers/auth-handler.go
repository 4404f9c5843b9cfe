package handlers

import (
	"net/http"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/middleware"
	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/services"
	"github.com/Yousuf-177/TaskFlow/utils"
)

type AuthHandler struct {
	service *services.UserService
}

func NewAuthHandler(service *services.UserService) *AuthHandler {
	return &AuthHandler{service: service}
}

// authResponse is the user record with the issued token alongside.
type authResponse struct {
	*models.User
	Token string `json:"token"`
}

// caller returns the authenticated user, writing a 401 when there is none.
func caller(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, apperrors.Unauthorized("Not authorized, no token"))
	}
	return user, ok
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	res, err := h.service.Register(r.Context(), req.input())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, authResponse{User: res.User, Token: res.Token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, authResponse{User: res.User, Token: res.Token})
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), user.ID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	res, err := h.service.UpdateProfile(r.Context(), user.ID, req.patch())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, authResponse{User: res.User, Token: res.Token})
}
