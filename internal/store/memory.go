package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"housechat/internal/domain"
)

// Memory is an in-process Store used in tests and local development.
type Memory struct {
	mu        sync.RWMutex
	residents map[int64]*domain.Resident
	buildings map[string]domain.Building
	clock     func() time.Time
	seq       time.Duration
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		residents: make(map[int64]*domain.Resident),
		buildings: make(map[string]domain.Building),
		clock:     time.Now,
	}
}

// now returns a strictly increasing timestamp so that registration order
// is stable even when the wall clock does not advance between calls.
func (m *Memory) now() time.Time {
	m.seq += time.Nanosecond
	return m.clock().Add(m.seq)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func (m *Memory) UpsertBasic(_ context.Context, userID int64, username, firstName, lastName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.residents[userID]; ok {
		r.Username = strPtr(username)
		r.FirstName = firstName
		r.LastName = strPtr(lastName)
		return nil
	}
	m.residents[userID] = &domain.Resident{
		UserID:           userID,
		Username:         strPtr(username),
		FirstName:        firstName,
		LastName:         strPtr(lastName),
		RegistrationTime: m.now(),
	}
	return nil
}

func (m *Memory) SetBuilding(_ context.Context, userID int64, building string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.residents[userID]; ok {
		r.Building = strPtr(building)
	}
	return nil
}

func (m *Memory) Complete(_ context.Context, userID int64, apartment, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.residents[userID]
	if !ok {
		return nil
	}
	r.Apartment = strPtr(apartment)
	r.Phone = strPtr(phone)
	r.Registered = true
	r.RegistrationTime = m.now()
	return nil
}

func (m *Memory) IsRegistered(_ context.Context, userID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.residents[userID]
	return ok && r.Registered, nil
}

func (m *Memory) ListResidents(_ context.Context, building, apartment string) ([]domain.Resident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Resident
	for _, r := range m.residents {
		if !r.Registered || r.Building == nil || r.Apartment == nil {
			continue
		}
		if *r.Building == building && *r.Apartment == apartment {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegistrationTime.Before(out[j].RegistrationTime)
	})
	return out, nil
}

func (m *Memory) CountResidents(ctx context.Context, building, apartment string) (int, error) {
	residents, err := m.ListResidents(ctx, building, apartment)
	if err != nil {
		return 0, err
	}
	return len(residents), nil
}

func (m *Memory) ListBuildings(_ context.Context) ([]domain.Building, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Building, 0, len(m.buildings))
	for _, b := range m.buildings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) AddBuilding(_ context.Context, name string, addedBy int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.buildings[name]; exists {
		return ErrBuildingExists
	}
	m.buildings[name] = domain.Building{Name: name, AddedBy: addedBy, AddedTime: m.now()}
	return nil
}

func (m *Memory) SeedDefaults(_ context.Context, names []string, addedBy int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range names {
		if _, exists := m.buildings[name]; exists {
			continue
		}
		m.buildings[name] = domain.Building{Name: name, AddedBy: addedBy, AddedTime: m.now()}
	}
	return nil
}
