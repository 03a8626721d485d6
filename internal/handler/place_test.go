package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/wayfind/api/internal/middleware"
	"github.com/forgo/wayfind/api/internal/model"
	"github.com/forgo/wayfind/api/internal/service"
)

type placeHandlerFixture struct {
	handler   *PlaceHandler
	users     *memUserRepo
	places    *memPlaceRepo
	geocoder  *stubGeocoder
	uploader  *stubUploader
	discarder *recordingDiscarder
	owner     *model.User
}

func newPlaceHandlerFixture(t *testing.T) *placeHandlerFixture {
	t.Helper()
	users := newMemUserRepo()
	places := newMemPlaceRepo(users)
	geocoder := &stubGeocoder{loc: model.Location{Lat: 40.7484, Lng: -73.9857}}
	discarder := &recordingDiscarder{}
	uploader := &stubUploader{path: "uploads/images/stored.jpg"}
	svc := service.NewPlaceService(places, users, geocoder, discarder)
	return &placeHandlerFixture{
		handler:   NewPlaceHandler(svc, uploader, discarder),
		users:     users,
		places:    places,
		geocoder:  geocoder,
		uploader:  uploader,
		discarder: discarder,
		owner:     seedAccount(t, users, "owner@example.com"),
	}
}

// asUser attaches an authenticated identity the way the auth middleware does
func asUser(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func (f *placeHandlerFixture) createPlace(t *testing.T) *model.Place {
	t.Helper()
	place, err := service.NewPlaceService(f.places, f.users, f.geocoder, f.discarder).
		CreatePlace(context.Background(), service.CreatePlaceRequest{
			Title:       "Seeded Place",
			Description: "A place created for tests",
			Address:     "1 Seed St",
			Image:       "uploads/images/seeded.jpg",
			Creator:     f.owner.ID,
		})
	require.NoError(t, err)
	return place
}

func withPathValue(req *http.Request, key, value string) *http.Request {
	req.SetPathValue(key, value)
	return req
}

func TestGetPlace_OK(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	place := f.createPlace(t)

	req := withPathValue(httptest.NewRequest(http.MethodGet, "/places/"+place.ID, nil), "id", place.ID)
	rec := httptest.NewRecorder()

	f.handler.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Place model.Place `json:"place"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, place.ID, resp.Place.ID)
	assert.Equal(t, 40.7484, resp.Place.Location.Lat)
}

func TestGetPlace_NotFound(t *testing.T) {
	f := newPlaceHandlerFixture(t)

	req := withPathValue(httptest.NewRequest(http.MethodGet, "/places/place:missing", nil), "id", "place:missing")
	rec := httptest.NewRecorder()

	f.handler.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListByUser_OK(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	f.createPlace(t)
	f.createPlace(t)

	req := withPathValue(httptest.NewRequest(http.MethodGet, "/places/user/"+f.owner.ID, nil), "uid", f.owner.ID)
	rec := httptest.NewRecorder()

	f.handler.ListByUser(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Places []model.Place `json:"places"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Places, 2)
}

func TestListByUser_EmptyIs404(t *testing.T) {
	f := newPlaceHandlerFixture(t)

	req := withPathValue(httptest.NewRequest(http.MethodGet, "/places/user/"+f.owner.ID, nil), "uid", f.owner.ID)
	rec := httptest.NewRecorder()

	f.handler.ListByUser(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePlace_JSON(t *testing.T) {
	f := newPlaceHandlerFixture(t)

	body := `{"title": "Empire State Building", "description": "Famous skyscraper", "address": "20 W 34th St"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/places", strings.NewReader(body)), f.owner.ID)
	rec := httptest.NewRecorder()

	f.handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Place model.Place `json:"place"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, f.owner.ID, resp.Place.Creator)
	assert.True(t, f.owner.OwnsPlace(resp.Place.ID))
}

func TestCreatePlace_Multipart(t *testing.T) {
	f := newPlaceHandlerFixture(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Empire State Building"))
	require.NoError(t, w.WriteField("description", "Famous skyscraper"))
	require.NoError(t, w.WriteField("address", "20 W 34th St"))
	part, err := w.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := asUser(httptest.NewRequest(http.MethodPost, "/places", &buf), f.owner.ID)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	f.handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Place model.Place `json:"place"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "uploads/images/stored.jpg", resp.Place.Image)
}

func TestCreatePlace_ValidationIs422(t *testing.T) {
	f := newPlaceHandlerFixture(t)

	body := `{"title": "", "description": "ok?", "address": ""}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/places", strings.NewReader(body)), f.owner.ID)
	rec := httptest.NewRecorder()

	f.handler.Create(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreatePlace_GeocodeFailureDiscardsImage(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	f.geocoder.err = service.ErrGeocodeFailed

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Somewhere"))
	require.NoError(t, w.WriteField("description", "With a bad address"))
	require.NoError(t, w.WriteField("address", "not a real address"))
	part, err := w.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := asUser(httptest.NewRequest(http.MethodPost, "/places", &buf), f.owner.ID)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	f.handler.Create(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"uploads/images/stored.jpg"}, f.discarder.discarded(),
		"stored image must be cleaned up when the create fails")
}

func TestCreatePlace_NoIdentityIs403(t *testing.T) {
	f := newPlaceHandlerFixture(t)

	body := `{"title": "T", "description": "long enough", "address": "A"}`
	req := httptest.NewRequest(http.MethodPost, "/places", strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.handler.Create(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdatePlace_OK(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	place := f.createPlace(t)

	body := `{"title": "New Title", "description": "New description"}`
	req := asUser(withPathValue(
		httptest.NewRequest(http.MethodPatch, "/places/"+place.ID, strings.NewReader(body)),
		"id", place.ID), f.owner.ID)
	rec := httptest.NewRecorder()

	f.handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Place model.Place `json:"place"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "New Title", resp.Place.Title)
	assert.Equal(t, place.Address, resp.Place.Address)
}

func TestUpdatePlace_MultipartReplacesImage(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	place := f.createPlace(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "New Title"))
	require.NoError(t, w.WriteField("description", "New description"))
	part, err := w.CreateFormFile("image", "replacement.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := asUser(withPathValue(
		httptest.NewRequest(http.MethodPatch, "/places/"+place.ID, &buf),
		"id", place.ID), f.owner.ID)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	f.handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Place model.Place `json:"place"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "uploads/images/stored.jpg", resp.Place.Image)
	assert.Equal(t, []string{"uploads/images/seeded.jpg"}, f.discarder.discarded(),
		"previous image must be cleaned up once the update commits")
}

func TestUpdatePlace_JSONKeepsImage(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	place := f.createPlace(t)

	body := `{"title": "New Title", "description": "New description"}`
	req := asUser(withPathValue(
		httptest.NewRequest(http.MethodPatch, "/places/"+place.ID, strings.NewReader(body)),
		"id", place.ID), f.owner.ID)
	rec := httptest.NewRecorder()

	f.handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Place model.Place `json:"place"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "uploads/images/seeded.jpg", resp.Place.Image)
	assert.Empty(t, f.discarder.discarded())
}

func TestUpdatePlace_NotOwnerDiscardsNewUpload(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	place := f.createPlace(t)
	intruder := seedAccount(t, f.users, "intruder@example.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Hijack"))
	require.NoError(t, w.WriteField("description", "should fail"))
	part, err := w.CreateFormFile("image", "replacement.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := asUser(withPathValue(
		httptest.NewRequest(http.MethodPatch, "/places/"+place.ID, &buf),
		"id", place.ID), intruder.ID)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	f.handler.Update(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{"uploads/images/stored.jpg"}, f.discarder.discarded(),
		"rejected update must clean up the stored replacement, not the original")

	current, _ := f.places.GetByID(context.Background(), place.ID)
	assert.Equal(t, "uploads/images/seeded.jpg", current.Image)
}

func TestUpdatePlace_NotOwnerIs401(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	place := f.createPlace(t)
	intruder := seedAccount(t, f.users, "intruder@example.com")

	body := `{"title": "Hijack", "description": "should fail"}`
	req := asUser(withPathValue(
		httptest.NewRequest(http.MethodPatch, "/places/"+place.ID, strings.NewReader(body)),
		"id", place.ID), intruder.ID)
	rec := httptest.NewRecorder()

	f.handler.Update(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeletePlace_OK(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	place := f.createPlace(t)

	req := asUser(withPathValue(
		httptest.NewRequest(http.MethodDelete, "/places/"+place.ID, nil),
		"id", place.ID), f.owner.ID)
	rec := httptest.NewRecorder()

	f.handler.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deleted place.")
	assert.False(t, f.owner.OwnsPlace(place.ID))
	assert.Contains(t, f.discarder.discarded(), "uploads/images/seeded.jpg")
}

func TestDeletePlace_MissingIs404EvenForNonOwner(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	intruder := seedAccount(t, f.users, "intruder@example.com")

	req := asUser(withPathValue(
		httptest.NewRequest(http.MethodDelete, "/places/place:missing", nil),
		"id", "place:missing"), intruder.ID)
	rec := httptest.NewRecorder()

	f.handler.Delete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePlace_NotOwnerIs401(t *testing.T) {
	f := newPlaceHandlerFixture(t)
	place := f.createPlace(t)
	intruder := seedAccount(t, f.users, "intruder@example.com")

	req := asUser(withPathValue(
		httptest.NewRequest(http.MethodDelete, "/places/"+place.ID, nil),
		"id", place.ID), intruder.ID)
	rec := httptest.NewRecorder()

	f.handler.Delete(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
