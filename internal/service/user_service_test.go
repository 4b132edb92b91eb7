package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ameyabis/projet-7-api-rest/internal/cache"
	apperrors "github.com/ameyabis/projet-7-api-rest/internal/errors"
	"github.com/ameyabis/projet-7-api-rest/internal/hateoas"
	"github.com/ameyabis/projet-7-api-rest/internal/model"
)

// memStore is an in-memory cache.Store so service tests exercise the real
// tagged cache without redis.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	sets map[string]map[string]bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, sets: map[string]map[string]bool{}}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
		delete(s.sets, key)
	}
	return nil
}

func (s *memStore) AddToSet(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sets[key] == nil {
		s.sets[key] = map[string]bool{}
	}
	for _, m := range members {
		s.sets[key][m] = true
	}
	return nil
}

func (s *memStore) RemoveFromSet(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		delete(s.sets[key], m)
	}
	return nil
}

func (s *memStore) SetMembers(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := make([]string, 0, len(s.sets[key]))
	for m := range s.sets[key] {
		members = append(members, m)
	}
	return members, nil
}

// stubUserRepo implements the UserRepository contract over a slice: scoped
// reads, id-ascending order, offset/limit window and the pagination guard.
type stubUserRepo struct {
	mu        sync.Mutex
	users     []model.User
	customers map[uint]model.Customer
	nextID    uint
	listCalls int
}

func newStubUserRepo(customers ...model.Customer) *stubUserRepo {
	byID := map[uint]model.Customer{}
	for _, c := range customers {
		byID[c.ID] = c
	}
	return &stubUserRepo{customers: byID, nextID: 1}
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.Customer = r.customers[user.CustomerID]
	r.users = append(r.users, *user)
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByIDForCustomer(_ context.Context, id, customerID uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id && u.CustomerID == customerID {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ListForCustomer(_ context.Context, customerID uint, page, limit int) ([]model.User, error) {
	if page < 1 || limit < 1 {
		return nil, apperrors.ErrInvalidPagination
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	var scoped []model.User
	for _, u := range r.users {
		if u.CustomerID == customerID {
			scoped = append(scoped, u)
		}
	}
	sort.Slice(scoped, func(i, j int) bool { return scoped[i].ID < scoped[j].ID })

	offset := (page - 1) * limit
	if offset >= len(scoped) {
		return []model.User{}, nil
	}
	end := offset + limit
	if end > len(scoped) {
		end = len(scoped)
	}
	return scoped[offset:end], nil
}

func (r *stubUserRepo) Delete(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == user.ID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// stubCustomerRepo serves the same customer set as the user repo it is
// derived from.
type stubCustomerRepo struct {
	customers map[uint]model.Customer
}

func (r *stubUserRepo) customerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: r.customers}
}

func (r *stubCustomerRepo) Create(_ context.Context, customer *model.Customer) error {
	r.customers[customer.ID] = *customer
	return nil
}

func (r *stubCustomerRepo) Update(_ context.Context, customer *model.Customer) error {
	r.customers[customer.ID] = *customer
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uint) (*model.Customer, error) {
	if c, ok := r.customers[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) FindByName(_ context.Context, name string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.Name == name {
			customer := c
			return &customer, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func testSerializer() *hateoas.Serializer {
	return hateoas.NewSerializer(hateoas.NewRegistry(
		hateoas.Route{Name: model.RouteAllUsers, Method: http.MethodGet, Path: "/api/user"},
		hateoas.Route{Name: model.RouteOneUser, Method: http.MethodGet, Path: "/api/user/:id"},
		hateoas.Route{Name: model.RouteDeleteUser, Method: http.MethodDelete, Path: "/api/user/:id"},
		hateoas.Route{Name: model.RouteAllProducts, Method: http.MethodGet, Path: "/api/product"},
		hateoas.Route{Name: model.RouteOneProduct, Method: http.MethodGet, Path: "/api/product/:id"},
	))
}

func seedUsers(t *testing.T, repo *stubUserRepo, customerID uint, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		err := repo.Create(context.Background(), &model.User{
			Username:   username,
			Password:   "hash",
			Firstname:  "First",
			Lastname:   "Last",
			Email:      username + "@example.com",
			CustomerID: customerID,
		})
		require.NoError(t, err)
	}
}

func decodeList(t *testing.T, body []byte) []map[string]any {
	t.Helper()
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(body, &docs))
	return docs
}

func TestUserService_ListUsers_PaginationWindow(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	seedUsers(t, repo, 1, "u1", "u2", "u3")

	body, err := svc.ListUsers(context.Background(), 1, 2, 2)
	require.NoError(t, err)

	docs := decodeList(t, body)
	require.Len(t, docs, 1, "page 2 with limit 2 over 3 users holds exactly the 3rd")
	assert.Equal(t, float64(3), docs[0]["id"])
}

func TestUserService_ListUsers_RejectsInvalidPagination(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	for _, params := range [][2]int{{0, 3}, {1, 0}, {-1, 3}, {1, -5}} {
		_, err := svc.ListUsers(context.Background(), 1, params[0], params[1])
		assert.ErrorIs(t, err, apperrors.ErrInvalidPagination, "page=%d limit=%d", params[0], params[1])
	}
}

func TestUserService_ListUsers_TenantIsolation(t *testing.T) {
	repo := newStubUserRepo(
		model.Customer{ID: 1, Name: "ORANGE"},
		model.Customer{ID: 2, Name: "SFR"},
	)
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	seedUsers(t, repo, 1, "orange_1", "orange_2")
	seedUsers(t, repo, 2, "sfr_1")

	body, err := svc.ListUsers(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	docs := decodeList(t, body)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		customer, _ := doc["customer"].(map[string]any)
		assert.Equal(t, "ORANGE", customer["name"])
	}

	// The other tenant's listing is served from its own key, never ORANGE's.
	body, err = svc.ListUsers(context.Background(), 2, 1, 10)
	require.NoError(t, err)
	docs = decodeList(t, body)
	require.Len(t, docs, 1)
	assert.Equal(t, "sfr_1@example.com", docs[0]["email"])
}

func TestUserService_ListUsers_SecondReadHitsCache(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	seedUsers(t, repo, 1, "u1", "u2")

	first, err := svc.ListUsers(context.Background(), 1, 1, 3)
	require.NoError(t, err)
	second, err := svc.ListUsers(context.Background(), 1, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "second identical read must not query")
}

func TestUserService_GetUser_OtherTenantLooksMissing(t *testing.T) {
	repo := newStubUserRepo(
		model.Customer{ID: 1, Name: "ORANGE"},
		model.Customer{ID: 2, Name: "SFR"},
	)
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	seedUsers(t, repo, 1, "orange_1")

	_, err := svc.GetUser(context.Background(), 2, 1)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	body, err := svc.GetUser(context.Background(), 1, 1)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, float64(1), doc["id"])
}

func TestUserService_CreateUser(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	body, id, err := svc.CreateUser(context.Background(), 1, CreateUserInput{
		Username:  "orange_9",
		Password:  "s3cret-pass",
		Firstname: "Nina",
		Lastname:  "Faure",
		Email:     "nina.faure@orange.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "nina.faure@orange.example.com", doc["email"])
	assert.NotContains(t, doc, "password")

	stored, err := repo.FindByUsername(context.Background(), "orange_9")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.Password, "password must be hashed before persistence")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
	assert.Equal(t, uint(1), stored.CustomerID)
}

func TestUserService_CreateUser_UsernameTaken(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	seedUsers(t, repo, 1, "orange_1")

	_, _, err := svc.CreateUser(context.Background(), 1, CreateUserInput{
		Username: "orange_1", Password: "whatever", Firstname: "A", Lastname: "B", Email: "a@b.example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestUserService_CreateUser_UnknownCustomer(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	_, _, err := svc.CreateUser(context.Background(), 9, CreateUserInput{
		Username: "ghost_1", Password: "whatever", Firstname: "A", Lastname: "B", Email: "a@b.example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
}

// racingUserRepo simulates a concurrent create landing between the
// uniqueness pre-check and the insert: the pre-check sees nothing, the
// unique index still fires.
type racingUserRepo struct {
	*stubUserRepo
}

func (r *racingUserRepo) FindByUsername(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestUserService_CreateUser_ConcurrentDuplicateIsAConflict(t *testing.T) {
	inner := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	seedUsers(t, inner, 1, "orange_1")
	svc := NewUserService(&racingUserRepo{stubUserRepo: inner}, inner.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	_, _, err := svc.CreateUser(context.Background(), 1, CreateUserInput{
		Username: "orange_1", Password: "whatever", Firstname: "A", Lastname: "B", Email: "a@b.example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken,
		"losing the insert race must surface as a conflict, not an internal error")
}

func TestUserService_CreateUser_InvalidatesWarmListCache(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	seedUsers(t, repo, 1, "u1")
	_, err := svc.ListUsers(context.Background(), 1, 1, 10)
	require.NoError(t, err)

	_, _, err = svc.CreateUser(context.Background(), 1, CreateUserInput{
		Username: "u2", Password: "password", Firstname: "A", Lastname: "B", Email: "u2@example.com",
	})
	require.NoError(t, err)

	body, err := svc.ListUsers(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Len(t, decodeList(t, body), 2, "listing after create must see the new user")
}

func TestUserService_DeleteUser_InvalidatesWarmListCache(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	seedUsers(t, repo, 1, "u1", "u2")
	_, err := svc.ListUsers(context.Background(), 1, 1, 10)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), 1, 1))

	body, err := svc.ListUsers(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	docs := decodeList(t, body)
	require.Len(t, docs, 1)
	assert.Equal(t, float64(2), docs[0]["id"])
}

func TestUserService_DeleteUser_StaleListWhenInvalidationDisabled(t *testing.T) {
	repo := newStubUserRepo(model.Customer{ID: 1, Name: "ORANGE"})
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), false)

	seedUsers(t, repo, 1, "u1", "u2")
	warmed, err := svc.ListUsers(context.Background(), 1, 1, 10)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), 1, 1))

	// Compatibility mode: the warmed page is served unchanged.
	body, err := svc.ListUsers(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, warmed, body)
}

func TestUserService_DeleteUser_NotFoundAndCrossTenant(t *testing.T) {
	repo := newStubUserRepo(
		model.Customer{ID: 1, Name: "ORANGE"},
		model.Customer{ID: 2, Name: "SFR"},
	)
	svc := NewUserService(repo, repo.customerRepo(), cache.NewTagged(newMemStore(), 0), testSerializer(), true)

	seedUsers(t, repo, 1, "orange_1")

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 1, 99), apperrors.ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 2, 1), apperrors.ErrUserNotFound,
		"another tenant's user must behave like a missing record")
}
