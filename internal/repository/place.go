package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/forgo/wayfind/api/internal/database"
	"github.com/forgo/wayfind/api/internal/model"
)

// PlaceRepository handles place data access
type PlaceRepository struct {
	db database.Database
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db database.Database) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// newPlaceID generates a record id for a place. Generated app-side so both
// statements of the create transaction can reference the same record.
func newPlaceID() string {
	return "place:" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateWithOwner creates a place and appends its id to the creator's places
// set in one transaction. Either both writes commit or neither does.
func (r *PlaceRepository) CreateWithOwner(ctx context.Context, place *model.Place) error {
	place.ID = newPlaceID()

	tb := database.NewTxBuilder()
	tb.Add(`
		CREATE type::record($pid) CONTENT {
			title: $title,
			description: $description,
			address: $address,
			location: { lat: $lat, lng: $lng },
			image: $image,
			creator: $creator,
			created_on: time::now(),
			updated_on: time::now()
		}
	`, map[string]interface{}{
		"pid":         place.ID,
		"title":       place.Title,
		"description": place.Description,
		"address":     place.Address,
		"lat":         place.Location.Lat,
		"lng":         place.Location.Lng,
		"image":       place.Image,
		"creator":     place.Creator,
	})
	tb.Add(`
		UPDATE type::record($uid) SET
			places += $pid,
			updated_on = time::now()
	`, map[string]interface{}{
		"uid": place.Creator,
		"pid": place.ID,
	})

	result, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		return err
	}

	if records, ok := extractQueryResults(result); ok && len(records) > 0 {
		if data, ok := records[0].(map[string]interface{}); ok {
			place.CreatedOn = getTime(data, "created_on")
			place.UpdatedOn = getTime(data, "updated_on")
		}
	}
	return nil
}

// GetByID retrieves a place by record id. Returns (nil, nil) when no place
// exists with that id.
func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*model.Place, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parsePlaceRecord(result), nil
}

// ListByCreator returns all places created by the given user
func (r *PlaceRepository) ListByCreator(ctx context.Context, userID string) ([]*model.Place, error) {
	query := `SELECT * FROM place WHERE creator = $creator ORDER BY created_on ASC`
	vars := map[string]interface{}{"creator": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records, ok := extractQueryResults(result)
	if !ok {
		return []*model.Place{}, nil
	}

	places := make([]*model.Place, 0, len(records))
	for _, rec := range records {
		if place := parsePlaceRecord(rec); place != nil {
			places = append(places, place)
		}
	}
	return places, nil
}

// Update modifies a place's title, description and image. Address, location
// and creator are immutable through this path.
func (r *PlaceRepository) Update(ctx context.Context, place *model.Place) error {
	query := `
		UPDATE type::record($id) SET
			title = $title,
			description = $description,
			image = $image,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":          place.ID,
		"title":       place.Title,
		"description": place.Description,
		"image":       place.Image,
	}

	return r.db.Execute(ctx, query, vars)
}

// DeleteWithOwner removes a place and detaches its id from the creator's
// places set in one transaction.
func (r *PlaceRepository) DeleteWithOwner(ctx context.Context, placeID, creatorID string) error {
	return database.NewAtomicBatch().
		Add(`DELETE type::record($pid)`, map[string]interface{}{
			"pid": placeID,
		}).
		Add(`
			UPDATE type::record($uid) SET
				places -= $pid,
				updated_on = time::now()
		`, map[string]interface{}{
			"uid": creatorID,
			"pid": placeID,
		}).
		Execute(ctx, r.db)
}

// parsePlaceRecord converts a raw query result to a Place, or nil when the
// record is absent or malformed
func parsePlaceRecord(result interface{}) *model.Place {
	data, ok := unwrapOne(result)
	if !ok {
		return nil
	}

	place := &model.Place{
		ID:          convertSurrealID(data["id"]),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		Address:     getString(data, "address"),
		Image:       getString(data, "image"),
		Creator:     convertSurrealID(data["creator"]),
		CreatedOn:   getTime(data, "created_on"),
		UpdatedOn:   getTime(data, "updated_on"),
	}
	if loc, ok := data["location"].(map[string]interface{}); ok {
		place.Location = model.Location{
			Lat: getFloat(loc, "lat"),
			Lng: getFloat(loc, "lng"),
		}
	}
	return place
}
