package handlers

import (
	"context"
	"sync"

	"github.com/benvon/autoartisan/internal/database"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/queue"
	"github.com/google/uuid"
)

type mockCarRepo struct {
	mu      sync.Mutex
	cars    map[uuid.UUID]*models.Car
	filters []models.CarFilter
	err     error
}

func newMockCarRepo(cars ...*models.Car) *mockCarRepo {
	m := &mockCarRepo{cars: make(map[uuid.UUID]*models.Car)}
	for _, c := range cars {
		m.cars[c.ID] = c
	}
	return m
}

func (m *mockCarRepo) List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.filters = append(m.filters, filter)
	out := []*models.Car{}
	for _, c := range m.cars {
		if filter.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCarRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.cars[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return c, nil
}

func (m *mockCarRepo) Create(ctx context.Context, car *models.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	car.ID = uuid.New()
	m.cars[car.ID] = car
	return nil
}

func (m *mockCarRepo) Update(ctx context.Context, car *models.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.cars[car.ID]; !ok {
		return database.ErrNotFound
	}
	m.cars[car.ID] = car
	return nil
}

func (m *mockCarRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.cars[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.cars, id)
	return nil
}

func (m *mockCarRepo) Brands(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{"Prestige Motors", "Velocity Inc."}, nil
}

type mockSettingsRepo struct {
	store  *models.StoreSettings
	footer *models.FooterConfig
	chat   *models.ChatWidgetSettings
	err    error
}

func (m *mockSettingsRepo) GetStore(ctx context.Context) (*models.StoreSettings, error) {
	if m.store == nil {
		s := models.DefaultStoreSettings()
		return &s, m.err
	}
	return m.store, m.err
}

func (m *mockSettingsRepo) SaveStore(ctx context.Context, s *models.StoreSettings) error {
	m.store = s
	return m.err
}

func (m *mockSettingsRepo) GetFooter(ctx context.Context) (*models.FooterConfig, error) {
	return m.footer, m.err
}

func (m *mockSettingsRepo) SaveFooter(ctx context.Context, f *models.FooterConfig) error {
	m.footer = f
	return m.err
}

func (m *mockSettingsRepo) GetChatWidget(ctx context.Context) (*models.ChatWidgetSettings, error) {
	if m.chat == nil {
		c := models.DefaultChatWidgetSettings()
		return &c, m.err
	}
	return m.chat, m.err
}

func (m *mockSettingsRepo) SaveChatWidget(ctx context.Context, c *models.ChatWidgetSettings) error {
	m.chat = c
	return m.err
}

type mockEnqueuer struct {
	mu   sync.Mutex
	jobs []*queue.Job
	err  error
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, job *queue.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

var (
	_ database.CarRepositoryInterface      = (*mockCarRepo)(nil)
	_ database.SettingsRepositoryInterface = (*mockSettingsRepo)(nil)
	_ queue.Enqueuer                       = (*mockEnqueuer)(nil)
)
