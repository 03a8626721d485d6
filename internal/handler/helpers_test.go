package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/wayfind/api/internal/model"
)

// In-memory repositories backing real services in handler tests.

type memUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = fmt.Sprintf("user:%d", m.nextID)
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) List(_ context.Context) ([]*model.User, error) {
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

type memPlaceRepo struct {
	places map[string]*model.Place
	owners *memUserRepo
	nextID int
}

func newMemPlaceRepo(owners *memUserRepo) *memPlaceRepo {
	return &memPlaceRepo{places: make(map[string]*model.Place), owners: owners}
}

func (m *memPlaceRepo) CreateWithOwner(_ context.Context, place *model.Place) error {
	m.nextID++
	place.ID = fmt.Sprintf("place:%d", m.nextID)
	m.places[place.ID] = place
	owner := m.owners.users[place.Creator]
	owner.Places = append(owner.Places, place.ID)
	return nil
}

func (m *memPlaceRepo) GetByID(_ context.Context, id string) (*model.Place, error) {
	return m.places[id], nil
}

func (m *memPlaceRepo) ListByCreator(_ context.Context, userID string) ([]*model.Place, error) {
	out := []*model.Place{}
	for _, p := range m.places {
		if p.Creator == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPlaceRepo) Update(_ context.Context, place *model.Place) error {
	m.places[place.ID] = place
	return nil
}

func (m *memPlaceRepo) DeleteWithOwner(_ context.Context, placeID, creatorID string) error {
	delete(m.places, placeID)
	owner := m.owners.users[creatorID]
	kept := owner.Places[:0]
	for _, id := range owner.Places {
		if id != placeID {
			kept = append(kept, id)
		}
	}
	owner.Places = kept
	return nil
}

// stubGeocoder returns fixed coordinates
type stubGeocoder struct {
	loc model.Location
	err error
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (model.Location, error) {
	if s.err != nil {
		return model.Location{}, s.err
	}
	return s.loc, nil
}

// recordingDiscarder records discarded paths
type recordingDiscarder struct {
	mu    sync.Mutex
	paths []string
}

func (d *recordingDiscarder) Discard(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paths = append(d.paths, path)
}

func (d *recordingDiscarder) discarded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.paths...)
}

// stubUploader returns a fixed path without touching disk
type stubUploader struct {
	path string
	err  error
}

func (s *stubUploader) Save(_ multipart.File, _ *multipart.FileHeader) (string, error) {
	return s.path, s.err
}

// stubSigner issues predictable tokens
type stubSigner struct{}

func (stubSigner) Sign(userID, _ string) (string, error) {
	return "token-for-" + userID, nil
}

func seedAccount(t *testing.T, repo *memUserRepo, email string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	user := &model.User{Name: "Seeded", Email: email, Hash: &h, Places: []string{}}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}
