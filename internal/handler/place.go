package handler

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/forgo/wayfind/api/internal/middleware"
	"github.com/forgo/wayfind/api/internal/model"
	"github.com/forgo/wayfind/api/internal/service"
	"github.com/forgo/wayfind/api/internal/upload"
)

// maxUploadSize caps multipart request bodies (10 MiB)
const maxUploadSize = 10 << 20

// Uploader stores an uploaded image and returns its path
type Uploader interface {
	Save(file multipart.File, header *multipart.FileHeader) (string, error)
}

// PlaceHandler handles place endpoints
type PlaceHandler struct {
	placeService *service.PlaceService
	uploads      Uploader
	discarder    service.FileDiscarder
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(placeService *service.PlaceService, uploads Uploader, discarder service.FileDiscarder) *PlaceHandler {
	return &PlaceHandler{
		placeService: placeService,
		uploads:      uploads,
		discarder:    discarder,
	}
}

// CreatePlaceRequest represents the create endpoint fields, from either a
// JSON body or a multipart form
type CreatePlaceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
	Address     string `json:"address" validate:"required"`
}

// UpdatePlaceRequest represents the update endpoint fields, from either a
// JSON body or a multipart form
type UpdatePlaceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
}

// Get handles GET /places/{id}
func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	placeID := r.PathValue("id")

	place, err := h.placeService.GetPlace(r.Context(), placeID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"place": place})
}

// ListByUser handles GET /places/user/{uid}
func (h *PlaceHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("uid")

	places, err := h.placeService.ListPlacesByUser(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"places": places})
}

// Create handles POST /places. Accepts JSON or multipart/form-data; the
// multipart form may carry an image file alongside the text fields. A stored
// image is discarded when the create fails, so rejected requests leave no
// orphaned files behind.
func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewAuthenticationError("authentication required"))
		return
	}

	req, imagePath, perr := h.parseCreateRequest(r)
	if perr != nil {
		WriteError(w, perr)
		return
	}

	if fieldErrs := validateStruct(req); fieldErrs != nil {
		discardFile(h.discarder, imagePath)
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	place, err := h.placeService.CreatePlace(r.Context(), service.CreatePlaceRequest{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Image:       imagePath,
		Creator:     userID,
	})
	if err != nil {
		discardFile(h.discarder, imagePath)
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{"place": place})
}

// Update handles PATCH /places/{id}. Accepts JSON or multipart/form-data;
// the multipart form may carry a replacement image, in which case the
// previous image file is discarded once the update commits. A stored
// replacement is discarded when the update fails.
func (h *PlaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewAuthenticationError("authentication required"))
		return
	}

	req, imagePath, perr := h.parseUpdateRequest(r)
	if perr != nil {
		WriteError(w, perr)
		return
	}

	if fieldErrs := validateStruct(req); fieldErrs != nil {
		discardFile(h.discarder, imagePath)
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	place, err := h.placeService.UpdatePlace(r.Context(), service.UpdatePlaceRequest{
		PlaceID:     r.PathValue("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Image:       imagePath,
	})
	if err != nil {
		discardFile(h.discarder, imagePath)
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"place": place})
}

// Delete handles DELETE /places/{id}
func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewAuthenticationError("authentication required"))
		return
	}

	if err := h.placeService.DeletePlace(r.Context(), r.PathValue("id"), userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Deleted place."})
}

// parseCreateRequest reads the create fields from JSON or multipart form
// data, storing an attached image file when present. Returns the stored
// image path so callers can clean it up on later failure.
func (h *PlaceHandler) parseCreateRequest(r *http.Request) (CreatePlaceRequest, string, *model.ProblemDetails) {
	var req CreatePlaceRequest

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

	req.Title = r.FormValue("title")
	req.Description = r.FormValue("description")
	req.Address = r.FormValue("address")

	imagePath, perr := saveFormImage(h.uploads, r)
	return req, imagePath, perr
}

// parseUpdateRequest reads the update fields from JSON or multipart form
// data, storing a replacement image file when present. Returns the stored
// image path so callers can clean it up on later failure.
func (h *PlaceHandler) parseUpdateRequest(r *http.Request) (UpdatePlaceRequest, string, *model.ProblemDetails) {
	var req UpdatePlaceRequest

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

	req.Title = r.FormValue("title")
	req.Description = r.FormValue("description")

	imagePath, perr := saveFormImage(h.uploads, r)
	return req, imagePath, perr
}

// saveFormImage stores the form's image file when one is attached. A missing
// file is not an error; the returned path is empty.
func saveFormImage(uploads Uploader, r *http.Request) (string, *model.ProblemDetails) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", model.NewBadRequestError("invalid image upload")
	}
	defer file.Close()

	imagePath, err := uploads.Save(file, header)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) {
			return "", model.NewValidationError([]model.FieldError{
				{Field: "image", Message: "must be a jpg, jpeg, or png file"},
			})
		}
		return "", model.NewInternalError("storing image failed")
	}
	return imagePath, nil
}

// discardFile schedules best-effort removal of a stored image
func discardFile(d service.FileDiscarder, imagePath string) {
	if imagePath != "" && d != nil {
		d.Discard(imagePath)
	}
}
