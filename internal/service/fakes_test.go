package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/geocode"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

// In-memory fakes mirroring the repository contracts, including sentinel
// errors and upsert semantics.

type fakeRoleStore struct {
	mu    sync.Mutex
	roles map[string]authz.Role
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{roles: make(map[string]authz.Role)}
}

func (s *fakeRoleStore) GetByUserID(_ context.Context, userID string) (models.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roles[userID]
	if !ok {
		return models.Permission{}, repository.ErrPermissionNotFound
	}
	return models.Permission{UserID: userID, Role: role}, nil
}

func (s *fakeRoleStore) Upsert(_ context.Context, _ string, userID string, role authz.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[userID] = role
	return nil
}

func (s *fakeRoleStore) FindOwnerUserID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, role := range s.roles {
		if role == authz.RoleOwner {
			return userID, nil
		}
	}
	return "", repository.ErrPermissionNotFound
}

type fakeUserGetter struct {
	users map[string]models.User
}

func newFakeUserGetter(users ...models.User) *fakeUserGetter {
	m := make(map[string]models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserGetter{users: m}
}

func (s *fakeUserGetter) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[string]models.PrivateNote
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[string]models.PrivateNote)}
}

func (s *fakeNoteStore) Create(_ context.Context, note models.PrivateNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.ID] = note
	return nil
}

func (s *fakeNoteStore) GetByID(_ context.Context, id string) (models.PrivateNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok {
		return models.PrivateNote{}, repository.ErrNoteNotFound
	}
	return note, nil
}

func (s *fakeNoteStore) List(_ context.Context) ([]models.PrivateNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PrivateNote, 0, len(s.notes))
	for _, note := range s.notes {
		out = append(out, note)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeNoteStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return repository.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

type fakeLocationStore struct {
	mu      sync.Mutex
	records []models.LocationRecord
}

func (s *fakeLocationStore) Create(_ context.Context, record models.LocationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *fakeLocationStore) ListByUser(_ context.Context, userID string) ([]models.LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LocationRecord
	for _, record := range s.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InsertedAt.After(out[j].InsertedAt) })
	return out, nil
}

type fakeSettingsStore struct {
	mu       sync.Mutex
	byUserID map[string]models.WebsiteSettings
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{byUserID: make(map[string]models.WebsiteSettings)}
}

func (s *fakeSettingsStore) GetByUserID(_ context.Context, userID string) (models.WebsiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.byUserID[userID]
	if !ok {
		return models.WebsiteSettings{}, repository.ErrSettingsNotFound
	}
	return settings, nil
}

// Upsert mirrors the COALESCE patch semantics of the real repository.
func (s *fakeSettingsStore) Upsert(_ context.Context, id string, userID string, patch repository.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.byUserID[userID]
	if !ok {
		settings = models.WebsiteSettings{ID: id, UserID: userID}
	}
	if patch.SteamAPIKey != nil {
		settings.SteamAPIKey = patch.SteamAPIKey
	}
	if patch.SteamID != nil {
		settings.SteamID = patch.SteamID
	}
	if patch.SpotifyRefreshToken != nil {
		settings.SpotifyRefreshToken = patch.SpotifyRefreshToken
	}
	if patch.LocationPasswordHash != nil {
		settings.LocationPasswordHash = patch.LocationPasswordHash
	}
	s.byUserID[userID] = settings
	return nil
}

type fakeGeocoder struct {
	place geocode.Place
	err   error
	calls int
}

func (g *fakeGeocoder) Reverse(_ context.Context, _, _ float64) (geocode.Place, error) {
	g.calls++
	if g.err != nil {
		return geocode.Place{}, g.err
	}
	return g.place, nil
}

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[string]models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]models.Task)}
}

func (s *fakeTaskStore) Create(_ context.Context, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return nil
}

func (s *fakeTaskStore) ListByUser(_ context.Context, userID string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, task := range s.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeTaskStore) SetCompleted(_ context.Context, id string, userID string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return repository.ErrTaskNotFound
	}
	task.Completed = completed
	s.tasks[id] = task
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

type fakeDemoStore struct {
	mu    sync.Mutex
	demos map[string]models.Demo
}

func newFakeDemoStore() *fakeDemoStore {
	return &fakeDemoStore{demos: make(map[string]models.Demo)}
}

func (s *fakeDemoStore) Upsert(_ context.Context, demo models.Demo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demos[demo.ShareCode] = demo
	return nil
}

func (s *fakeDemoStore) GetByShareCode(_ context.Context, shareCode string) (models.Demo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	demo, ok := s.demos[shareCode]
	if !ok {
		return models.Demo{}, repository.ErrDemoNotFound
	}
	return demo, nil
}

func (s *fakeDemoStore) List(_ context.Context) ([]models.Demo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Demo, 0, len(s.demos))
	for _, demo := range s.demos {
		out = append(out, demo)
	}
	return out, nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Put(_ context.Context, bucket string, key string, reader io.Reader, _ int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = data
	return nil
}

func (s *fakeBlobStore) Get(_ context.Context, bucket string, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, repository.ErrDemoNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStore) DemoBucket() string { return "demos-test" }
