package handler

import (
	"mime"
	"net/http"

	"github.com/forgo/wayfind/api/internal/model"
	"github.com/forgo/wayfind/api/internal/service"
)

// UserHandler handles user and authentication endpoints
type UserHandler struct {
	authService *service.AuthService
	uploads     Uploader
	discarder   service.FileDiscarder
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService, uploads Uploader, discarder service.FileDiscarder) *UserHandler {
	return &UserHandler{
		authService: authService,
		uploads:     uploads,
		discarder:   discarder,
	}
}

// SignupRequest represents the signup endpoint fields, from either a JSON
// body or a multipart form
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the login endpoint request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the body returned by signup and login
type AuthResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Signup handles POST /users/signup. Accepts JSON or multipart/form-data;
// the multipart form may carry an avatar image file alongside the text
// fields. A stored avatar is discarded when the signup fails, so rejected
// requests leave no orphaned files behind.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, imagePath, perr := h.parseSignupRequest(r)
	if perr != nil {
		WriteError(w, perr)
		return
	}

	if fieldErrs := validateStruct(req); fieldErrs != nil {
		discardFile(h.discarder, imagePath)
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	result, err := h.authService.Signup(r.Context(), service.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    imagePath,
	})
	if err != nil {
		discardFile(h.discarder, imagePath)
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusCreated, AuthResponse{
		UserID: result.User.ID,
		Email:  result.User.Email,
		Token:  result.Token,
	})
}

// parseSignupRequest reads the signup fields from JSON or multipart form
// data, storing an attached avatar image when present. Returns the stored
// image path so callers can clean it up on later failure.
func (h *UserHandler) parseSignupRequest(r *http.Request) (SignupRequest, string, *model.ProblemDetails) {
	var req SignupRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := DecodeJSON(r, &req); err != nil {
			return req, "", model.NewBadRequestError("invalid request body")
		}
		return req, "", nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return req, "", model.NewBadRequestError("invalid multipart form")
	}

	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")

	imagePath, perr := saveFormImage(h.uploads, r)
	return req, imagePath, perr
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrs := validateStruct(req); fieldErrs != nil {
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, AuthResponse{
		UserID: result.User.ID,
		Email:  result.User.Email,
		Token:  result.Token,
	})
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
