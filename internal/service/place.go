package service

import (
	"context"
	"strings"

	"github.com/forgo/wayfind/api/internal/model"
)

// PlaceRepository defines the interface for place storage
type PlaceRepository interface {
	CreateWithOwner(ctx context.Context, place *model.Place) error
	GetByID(ctx context.Context, id string) (*model.Place, error)
	ListByCreator(ctx context.Context, userID string) ([]*model.Place, error)
	Update(ctx context.Context, place *model.Place) error
	DeleteWithOwner(ctx context.Context, placeID, creatorID string) error
}

// FileDiscarder schedules best-effort removal of a stored file
type FileDiscarder interface {
	Discard(path string)
}

// PlaceService handles place operations
type PlaceService struct {
	placeRepo PlaceRepository
	userRepo  UserRepository
	geocoder  Geocoder
	discarder FileDiscarder
}

// NewPlaceService creates a new place service
func NewPlaceService(placeRepo PlaceRepository, userRepo UserRepository, geocoder Geocoder, discarder FileDiscarder) *PlaceService {
	return &PlaceService{
		placeRepo: placeRepo,
		userRepo:  userRepo,
		geocoder:  geocoder,
		discarder: discarder,
	}
}

// GetPlace retrieves a single place by id
func (s *PlaceService) GetPlace(ctx context.Context, placeID string) (*model.Place, error) {
	place, err := s.placeRepo.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, ErrPlaceNotFound
	}
	return place, nil
}

// ListPlacesByUser returns all places created by the given user.
// A user with no places yields ErrNoPlaces rather than an empty list.
func (s *PlaceService) ListPlacesByUser(ctx context.Context, userID string) ([]*model.Place, error) {
	places, err := s.placeRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, ErrNoPlaces
	}
	return places, nil
}

// CreatePlaceRequest represents a place creation request
type CreatePlaceRequest struct {
	Title       string
	Description string
	Address     string
	Image       string
	Creator     string
}

// CreatePlace geocodes the address, creates the place, and attaches it to
// the creator's place set atomically.
func (s *PlaceService) CreatePlace(ctx context.Context, req CreatePlaceRequest) (*model.Place, error) {
	creator, err := s.userRepo.GetByID(ctx, req.Creator)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, ErrUserNotFound
	}

	location, err := s.geocoder.Geocode(ctx, req.Address)
	if err != nil {
		return nil, err
	}

	place := &model.Place{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Address:     req.Address,
		Location:    location,
		Image:       req.Image,
		Creator:     creator.ID,
	}

	if err := s.placeRepo.CreateWithOwner(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// UpdatePlaceRequest represents a place update request. An empty Image keeps
// the current image.
type UpdatePlaceRequest struct {
	PlaceID     string
	UserID      string
	Title       string
	Description string
	Image       string
}

// UpdatePlace modifies a place's title, description, and optionally its
// image. Only the creator may update; a missing place is reported before the
// ownership check. When the image is replaced, the previous image file is
// discarded after the update commits.
func (s *PlaceService) UpdatePlace(ctx context.Context, req UpdatePlaceRequest) (*model.Place, error) {
	place, err := s.placeRepo.GetByID(ctx, req.PlaceID)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, ErrPlaceNotFound
	}

	if place.Creator != req.UserID {
		return nil, ErrNotPlaceOwner
	}

	previousImage := place.Image
	place.Title = strings.TrimSpace(req.Title)
	place.Description = req.Description
	if req.Image != "" {
		place.Image = req.Image
	}

	if err := s.placeRepo.Update(ctx, place); err != nil {
		return nil, err
	}

	if req.Image != "" && previousImage != "" && previousImage != place.Image && s.discarder != nil {
		s.discarder.Discard(previousImage)
	}
	return place, nil
}

// DeletePlace removes a place and detaches it from its creator's place set.
// The existence check runs before the ownership check, so deleting a missing
// place reports ErrPlaceNotFound regardless of who asks. The place's image
// file is discarded after the delete commits; file removal is best-effort
// and never fails the operation.
func (s *PlaceService) DeletePlace(ctx context.Context, placeID, userID string) error {
	place, err := s.placeRepo.GetByID(ctx, placeID)
	if err != nil {
		return err
	}
	if place == nil {
		return ErrPlaceNotFound
	}

	if place.Creator != userID {
		return ErrNotPlaceOwner
	}

	if err := s.placeRepo.DeleteWithOwner(ctx, placeID, place.Creator); err != nil {
		return err
	}

	if place.Image != "" && s.discarder != nil {
		s.discarder.Discard(place.Image)
	}
	return nil
}
