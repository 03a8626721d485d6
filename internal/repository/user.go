package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/wayfind/api/internal/database"
	"github.com/forgo/wayfind/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Returns database.ErrDuplicate when the email is
// already taken.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			name: $name,
			email: $email,
			hash: $hash,
			image: $image,
			places: [],
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	hash := ""
	if user.Hash != nil {
		hash = *user.Hash
	}

	vars := map[string]interface{}{
		"name":  user.Name,
		"email": user.Email,
		"hash":  hash,
		"image": user.Image,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	records, ok := extractQueryResults(result)
	if !ok || len(records) == 0 {
		return errors.New("no result returned from create")
	}

	data, ok := records[0].(map[string]interface{})
	if !ok {
		return errors.New("unexpected result format")
	}

	user.ID = convertSurrealID(data["id"])
	user.Places = []string{}
	user.CreatedOn = getTime(data, "created_on")
	user.UpdatedOn = getTime(data, "updated_on")
	return nil
}

// GetByID retrieves a user by record id. Returns (nil, nil) when no user
// exists with that id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user := parseUserRecord(result)
	return user, nil
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when no user
// exists with that email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user := parseUserRecord(result)
	return user, nil
}

// List returns all users, without password hashes
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT * FROM user ORDER BY created_on ASC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	records, ok := extractQueryResults(result)
	if !ok {
		return []*model.User{}, nil
	}

	users := make([]*model.User, 0, len(records))
	for _, rec := range records {
		if user := parseUserRecord(rec); user != nil {
			user.Hash = nil
			users = append(users, user)
		}
	}
	return users, nil
}

// parseUserRecord converts a raw query result to a User, or nil when the
// record is absent or malformed
func parseUserRecord(result interface{}) *model.User {
	data, ok := unwrapOne(result)
	if !ok {
		return nil
	}

	user := &model.User{
		ID:        convertSurrealID(data["id"]),
		Name:      getString(data, "name"),
		Email:     getString(data, "email"),
		Hash:      getStringPtr(data, "hash"),
		Image:     getString(data, "image"),
		Places:    getStringSlice(data, "places"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
	if user.Places == nil {
		user.Places = []string{}
	}
	return user
}
