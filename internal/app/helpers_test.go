package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"fogseason/api/internal/adminauth"
	"fogseason/api/internal/config"
	"fogseason/api/internal/store"
)

// memStore is an in-memory dataStore for tests. Lists sort the way the
// Postgres queries do: sort order first, then creation time.
type memStore struct {
	config        store.SiteConfig
	configCreated bool
	configCreates int

	projects   []store.Project
	services   []store.Service
	experience []store.Experience
	gallery    []store.GalleryItem

	pingErr error
}

func (m *memStore) Ping(_ context.Context) error { return m.pingErr }

func (m *memStore) EnsureSiteConfig(_ context.Context) (store.SiteConfig, error) {
	if !m.configCreated {
		m.config = store.DefaultSiteConfig()
		m.configCreated = true
		m.configCreates++
	}
	return m.config, nil
}

func (m *memStore) SaveConfigSection(_ context.Context, column string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	switch column {
	case "hero":
		return json.Unmarshal(data, &m.config.Hero)
	case "about":
		return json.Unmarshal(data, &m.config.About)
	case "what_we_do":
		return json.Unmarshal(data, &m.config.WhatWeDo)
	case "contact":
		return json.Unmarshal(data, &m.config.Contact)
	}
	return sql.ErrNoRows
}

func (m *memStore) ListProjects(_ context.Context) ([]store.Project, error) {
	out := append([]store.Project(nil), m.projects...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) ReplaceProjects(_ context.Context, items []store.Project) error {
	m.projects = append([]store.Project(nil), items...)
	return nil
}

func (m *memStore) InsertProject(_ context.Context, item store.Project) (store.Project, error) {
	item.Order = 0
	for _, existing := range m.projects {
		if existing.Order >= item.Order {
			item.Order = existing.Order + 1
		}
	}
	m.projects = append(m.projects, item)
	return item, nil
}

func (m *memStore) UpdateProject(_ context.Context, item store.Project) (store.Project, error) {
	for i := range m.projects {
		if m.projects[i].ID == item.ID {
			item.Order = m.projects[i].Order
			item.CreatedAt = m.projects[i].CreatedAt
			m.projects[i] = item
			return item, nil
		}
	}
	return store.Project{}, sql.ErrNoRows
}

func (m *memStore) DeleteProject(_ context.Context, id string) error {
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) ListServices(_ context.Context) ([]store.Service, error) {
	out := append([]store.Service(nil), m.services...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) ReplaceServices(_ context.Context, items []store.Service) error {
	m.services = append([]store.Service(nil), items...)
	return nil
}

func (m *memStore) InsertService(_ context.Context, item store.Service) (store.Service, error) {
	item.Order = 0
	for _, existing := range m.services {
		if existing.Order >= item.Order {
			item.Order = existing.Order + 1
		}
	}
	m.services = append(m.services, item)
	return item, nil
}

func (m *memStore) UpdateService(_ context.Context, item store.Service) (store.Service, error) {
	for i := range m.services {
		if m.services[i].ID == item.ID {
			item.Order = m.services[i].Order
			item.CreatedAt = m.services[i].CreatedAt
			m.services[i] = item
			return item, nil
		}
	}
	return store.Service{}, sql.ErrNoRows
}

func (m *memStore) DeleteService(_ context.Context, id string) error {
	for i := range m.services {
		if m.services[i].ID == id {
			m.services = append(m.services[:i], m.services[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) ListExperience(_ context.Context) ([]store.Experience, error) {
	out := append([]store.Experience(nil), m.experience...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) ReplaceExperience(_ context.Context, items []store.Experience) error {
	m.experience = append([]store.Experience(nil), items...)
	return nil
}

func (m *memStore) InsertExperience(_ context.Context, item store.Experience) (store.Experience, error) {
	item.Order = 0
	for _, existing := range m.experience {
		if existing.Order >= item.Order {
			item.Order = existing.Order + 1
		}
	}
	m.experience = append(m.experience, item)
	return item, nil
}

func (m *memStore) UpdateExperience(_ context.Context, item store.Experience) (store.Experience, error) {
	for i := range m.experience {
		if m.experience[i].ID == item.ID {
			item.Order = m.experience[i].Order
			item.CreatedAt = m.experience[i].CreatedAt
			m.experience[i] = item
			return item, nil
		}
	}
	return store.Experience{}, sql.ErrNoRows
}

func (m *memStore) DeleteExperience(_ context.Context, id string) error {
	for i := range m.experience {
		if m.experience[i].ID == id {
			m.experience = append(m.experience[:i], m.experience[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) ListGallery(_ context.Context) ([]store.GalleryItem, error) {
	out := append([]store.GalleryItem(nil), m.gallery...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) ReplaceGallery(_ context.Context, items []store.GalleryItem) error {
	m.gallery = append([]store.GalleryItem(nil), items...)
	return nil
}

func (m *memStore) InsertGalleryItem(_ context.Context, item store.GalleryItem) (store.GalleryItem, error) {
	item.Order = 0
	for _, existing := range m.gallery {
		if existing.Order >= item.Order {
			item.Order = existing.Order + 1
		}
	}
	m.gallery = append(m.gallery, item)
	return item, nil
}

func (m *memStore) UpdateGalleryItem(_ context.Context, item store.GalleryItem) (store.GalleryItem, error) {
	for i := range m.gallery {
		if m.gallery[i].ID == item.ID {
			item.Order = m.gallery[i].Order
			item.CreatedAt = m.gallery[i].CreatedAt
			m.gallery[i] = item
			return item, nil
		}
	}
	return store.GalleryItem{}, sql.ErrNoRows
}

func (m *memStore) DeleteGalleryItem(_ context.Context, id string) error {
	for i := range m.gallery {
		if m.gallery[i].ID == id {
			m.gallery = append(m.gallery[:i], m.gallery[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// memSessions is an in-memory sessionStore. It ignores the inactivity
// window; the redis and postgres stores own that behavior.
type memSessions struct {
	entries map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{entries: map[string]string{}}
}

func (m *memSessions) SaveSession(_ context.Context, tokenHash, username string, _ time.Duration) error {
	m.entries[tokenHash] = username
	return nil
}

func (m *memSessions) TouchSession(_ context.Context, tokenHash string, _ time.Duration) (string, error) {
	username, ok := m.entries[tokenHash]
	if !ok {
		return "", sql.ErrNoRows
	}
	return username, nil
}

func (m *memSessions) RevokeSession(_ context.Context, tokenHash string) error {
	delete(m.entries, tokenHash)
	return nil
}

// memUsers backs adminauth in tests.
type memUsers struct {
	users map[string]store.AdminUser
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]store.AdminUser{}}
}

func (m *memUsers) GetAdminUser(_ context.Context, username string) (store.AdminUser, error) {
	user, ok := m.users[username]
	if !ok {
		return store.AdminUser{}, sql.ErrNoRows
	}
	return user, nil
}

func (m *memUsers) CreateAdminUser(_ context.Context, username, passwordHash string) error {
	if _, ok := m.users[username]; ok {
		return nil
	}
	m.users[username] = store.AdminUser{Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return nil
}

func (m *memUsers) UpdateAdminPassword(_ context.Context, username, passwordHash string) error {
	user, ok := m.users[username]
	if !ok {
		return sql.ErrNoRows
	}
	user.PasswordHash = passwordHash
	m.users[username] = user
	return nil
}

func newTestService(ms *memStore) *Service {
	cfg := config.Config{
		TokenSecret:   "test-secret",
		TokenTTL:      time.Hour,
		SessionIdle:   20 * time.Minute,
		AdminUsername: "admin",
		AdminPassword: "correct-horse",
	}
	return &Service{
		cfg:      cfg,
		store:    ms,
		sessions: newMemSessions(),
		admin:    adminauth.NewService(newMemUsers()),
	}
}
