package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"fogseason/api/internal/adminauth"
	"fogseason/api/internal/assets"
	"fogseason/api/internal/auth"
	"fogseason/api/internal/config"
	"fogseason/api/internal/email"
	"fogseason/api/internal/store"
	"fogseason/api/internal/util"
)

// dataStore is the persistence surface the service depends on. PostgresStore
// satisfies it; tests swap in a fake.
type dataStore interface {
	Ping(ctx context.Context) error

	EnsureSiteConfig(ctx context.Context) (store.SiteConfig, error)
	SaveConfigSection(ctx context.Context, column string, value any) error

	ListProjects(ctx context.Context) ([]store.Project, error)
	ReplaceProjects(ctx context.Context, items []store.Project) error
	InsertProject(ctx context.Context, item store.Project) (store.Project, error)
	UpdateProject(ctx context.Context, item store.Project) (store.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListServices(ctx context.Context) ([]store.Service, error)
	ReplaceServices(ctx context.Context, items []store.Service) error
	InsertService(ctx context.Context, item store.Service) (store.Service, error)
	UpdateService(ctx context.Context, item store.Service) (store.Service, error)
	DeleteService(ctx context.Context, id string) error

	ListExperience(ctx context.Context) ([]store.Experience, error)
	ReplaceExperience(ctx context.Context, items []store.Experience) error
	InsertExperience(ctx context.Context, item store.Experience) (store.Experience, error)
	UpdateExperience(ctx context.Context, item store.Experience) (store.Experience, error)
	DeleteExperience(ctx context.Context, id string) error

	ListGallery(ctx context.Context) ([]store.GalleryItem, error)
	ReplaceGallery(ctx context.Context, items []store.GalleryItem) error
	InsertGalleryItem(ctx context.Context, item store.GalleryItem) (store.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, item store.GalleryItem) (store.GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id string) error
}

// sessionStore tracks admin session liveness. The token hash is the key;
// TouchSession slides the inactivity window and reports the owner.
type sessionStore interface {
	SaveSession(ctx context.Context, tokenHash, username string, ttl time.Duration) error
	TouchSession(ctx context.Context, tokenHash string, ttl time.Duration) (string, error)
	RevokeSession(ctx context.Context, tokenHash string) error
}

// Session is an authenticated admin context attached to a request.
type Session struct {
	Token     string
	Username  string
	JTI       string
	ExpiresAt time.Time
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions sessionStore
	admin    *adminauth.Service
	assets   assets.Provider
	mailer   *email.Service
}

// New wires the service against Postgres for both content and sessions.
func New(cfg config.Config, st *store.PostgresStore, admin *adminauth.Service, provider assets.Provider, mailer *email.Service) *Service {
	return &Service{cfg: cfg, store: st, sessions: st, admin: admin, assets: provider, mailer: mailer}
}

// NewWithSessionStore keeps content in Postgres but hands session liveness
// to a separate store, typically Redis.
func NewWithSessionStore(cfg config.Config, st *store.PostgresStore, sessions sessionStore, admin *adminauth.Service, provider assets.Provider, mailer *email.Service) *Service {
	return &Service{cfg: cfg, store: st, sessions: sessions, admin: admin, assets: provider, mailer: mailer}
}

// Bootstrap brings the database to a servable state: the site-config
// singleton exists and the configured operator account can log in.
func (s *Service) Bootstrap(ctx context.Context) error {
	if _, err := s.store.EnsureSiteConfig(ctx); err != nil {
		return err
	}
	return s.admin.EnsureOperator(ctx, s.cfg.AdminUsername, s.cfg.AdminPassword)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// PublicSnapshot assembles the full site payload the storefront renders
// from. Reading creates the config singleton if it does not exist yet.
func (s *Service) PublicSnapshot(ctx context.Context) (map[string]any, error) {
	cfg, err := s.store.EnsureSiteConfig(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	experience, err := s.store.ListExperience(ctx)
	if err != nil {
		return nil, err
	}
	gallery, err := s.store.ListGallery(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"hero":       cfg.Hero,
		"about":      cfg.About,
		"whatWeDo":   cfg.WhatWeDo,
		"contact":    cfg.Contact,
		"projects":   projects,
		"services":   services,
		"experience": experience,
		"gallery":    gallery,
	}, nil
}

// ReplaceSection overwrites one named section with the supplied payload.
func (s *Service) ReplaceSection(ctx context.Context, section string, payload json.RawMessage) (any, error) {
	handler, ok := sectionHandlers[section]
	if !ok {
		return nil, domainError(http.StatusBadRequest, "INVALID_SECTION", "Invalid section", nil)
	}
	return handler(ctx, s, payload)
}

func (s *Service) AddItem(ctx context.Context, collection string, payload json.RawMessage) (any, error) {
	handler, ok := collectionHandlers[collection]
	if !ok {
		return nil, domainError(http.StatusBadRequest, "INVALID_COLLECTION", "Invalid collection", nil)
	}
	return handler.add(ctx, s, payload)
}

func (s *Service) UpdateItem(ctx context.Context, collection, id string, payload json.RawMessage) (any, error) {
	handler, ok := collectionHandlers[collection]
	if !ok {
		return nil, domainError(http.StatusBadRequest, "INVALID_COLLECTION", "Invalid collection", nil)
	}
	return handler.update(ctx, s, id, payload)
}

func (s *Service) DeleteItem(ctx context.Context, collection, id string) error {
	handler, ok := collectionHandlers[collection]
	if !ok {
		return domainError(http.StatusBadRequest, "INVALID_COLLECTION", "Invalid collection", nil)
	}
	return handler.remove(ctx, s, id)
}

// Login verifies credentials, mints a bearer token, and opens a session
// with the sliding inactivity window.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.admin.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, adminauth.ErrInvalidCredentials) {
			return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		}
		return Session{}, err
	}
	expiresAt := time.Now().Add(s.cfg.TokenTTL)
	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Username: user.Username,
		JTI:      util.NewID("jti"),
		Exp:      expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.SaveSession(ctx, auth.HashToken(token), user.Username, s.cfg.SessionIdle); err != nil {
		return Session{}, err
	}
	return Session{Token: token, Username: user.Username, ExpiresAt: expiresAt}, nil
}

// SessionFromToken validates a bearer token and slides its inactivity
// window. A token that is cryptographically valid but whose session has
// idled out is treated as expired.
func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}
	username, err := s.sessions.TouchSession(ctx, auth.HashToken(token), s.cfg.SessionIdle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, auth.ErrExpiredToken
		}
		return Session{}, err
	}
	return Session{
		Token:     token,
		Username:  username,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.RevokeSession(ctx, auth.HashToken(token))
}

func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	err := s.admin.ChangePassword(ctx, username, currentPassword, newPassword)
	if errors.Is(err, adminauth.ErrInvalidCredentials) {
		return domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Current password is incorrect", nil)
	}
	return err
}

// UploadAuth hands the admin UI short-lived credentials for a direct
// browser upload, from whichever provider is configured.
func (s *Service) UploadAuth(ctx context.Context, filename string) (assets.UploadCredentials, error) {
	if s.assets == nil {
		return assets.UploadCredentials{}, domainError(http.StatusServiceUnavailable, "UPLOADS_UNAVAILABLE", "No upload provider is configured", nil)
	}
	return s.assets.UploadCredentials(ctx, filename)
}

// ContactMessage validates and forwards a storefront contact submission.
// Delivery failure is logged, not surfaced: the visitor already did their
// part.
func (s *Service) ContactMessage(ctx context.Context, name, replyTo, message string) error {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)
	if name == "" || message == "" {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name and message are required", nil)
	}
	if s.mailer == nil || !s.mailer.IsConfigured() {
		log.Printf("contact message from %q dropped: notifications not configured", name)
		return nil
	}
	if err := s.mailer.SendContactNotification(name, strings.TrimSpace(replyTo), message); err != nil {
		log.Printf("contact notification failed: %v", err)
	}
	return nil
}
