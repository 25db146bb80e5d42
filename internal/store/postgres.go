package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ── Site config singleton ──

// configRowID pins the singleton to a fixed primary key so concurrent lazy
// creation collapses into one row via ON CONFLICT DO NOTHING.
const configRowID = "main"

var configColumns = map[string]bool{
	"hero":       true,
	"about":      true,
	"what_we_do": true,
	"contact":    true,
}

// EnsureSiteConfig returns the singleton site config, creating it with
// default content when missing. An empty whatWeDo list is re-seeded with the
// defaults, matching the lazy-creation contract of the public snapshot.
func (s *PostgresStore) EnsureSiteConfig(ctx context.Context) (SiteConfig, error) {
	cfg, err := s.getSiteConfig(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.insertDefaultConfig(ctx); err != nil {
			return SiteConfig{}, err
		}
		return s.getSiteConfig(ctx)
	}
	if err != nil {
		return SiteConfig{}, err
	}
	if len(cfg.WhatWeDo) == 0 {
		cfg.WhatWeDo = DefaultWhatWeDo()
		if err := s.SaveConfigSection(ctx, "what_we_do", cfg.WhatWeDo); err != nil {
			return SiteConfig{}, err
		}
	}
	return cfg, nil
}

func (s *PostgresStore) getSiteConfig(ctx context.Context) (SiteConfig, error) {
	var hero, about, whatWeDo, contact []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT hero, about, what_we_do, contact FROM site_config WHERE id=$1
	`, configRowID).Scan(&hero, &about, &whatWeDo, &contact)
	if err != nil {
		return SiteConfig{}, err
	}

	var cfg SiteConfig
	for _, field := range []struct {
		raw    []byte
		target any
	}{
		{hero, &cfg.Hero},
		{about, &cfg.About},
		{whatWeDo, &cfg.WhatWeDo},
		{contact, &cfg.Contact},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.target); err != nil {
			return SiteConfig{}, fmt.Errorf("decode site config: %w", err)
		}
	}
	return cfg, nil
}

func (s *PostgresStore) insertDefaultConfig(ctx context.Context) error {
	seed := DefaultSiteConfig()
	hero, _ := json.Marshal(seed.Hero)
	about, _ := json.Marshal(seed.About)
	whatWeDo, _ := json.Marshal(seed.WhatWeDo)
	contact, _ := json.Marshal(seed.Contact)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_config (id, hero, about, what_we_do, contact)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, configRowID, hero, about, whatWeDo, contact)
	if err != nil {
		return fmt.Errorf("insert default site config: %w", err)
	}
	return nil
}

// SaveConfigSection overwrites one JSONB column of the singleton wholesale.
func (s *PostgresStore) SaveConfigSection(ctx context.Context, column string, value any) error {
	if !configColumns[column] {
		return fmt.Errorf("unknown config column %q", column)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode config section %s: %w", column, err)
	}
	query := fmt.Sprintf(`UPDATE site_config SET %s=$2, updated_at=NOW() WHERE id=$1`, column)
	result, err := s.db.ExecContext(ctx, query, configRowID, raw)
	if err != nil {
		return fmt.Errorf("save config section %s: %w", column, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// Singleton not created yet; seed it, then retry once.
		if err := s.insertDefaultConfig(ctx); err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, query, configRowID, raw); err != nil {
			return fmt.Errorf("save config section %s: %w", column, err)
		}
	}
	return nil
}

// ── Projects ──

func (s *PostgresStore) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, image, images, tags, github, demo, category, sort_order, created_at
		FROM projects
		ORDER BY sort_order ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := make([]Project, 0)
	for rows.Next() {
		var item Project
		var images, tags []byte
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &images, &tags,
			&item.Github, &item.Demo, &item.Category, &item.Order, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if err := decodeStrings(images, &item.Images); err != nil {
			return nil, fmt.Errorf("decode project images: %w", err)
		}
		if err := decodeStrings(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("decode project tags: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ReplaceProjects(ctx context.Context, items []Project) error {
	return s.inTx(ctx, "replace projects", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
			return err
		}
		for _, item := range items {
			if err := insertProject(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertProject appends: the new row takes the next sort_order, and the
// returned record carries the position the store actually assigned.
func (s *PostgresStore) InsertProject(ctx context.Context, item Project) (Project, error) {
	images, _ := json.Marshal(nonNilStrings(item.Images))
	tags, _ := json.Marshal(nonNilStrings(item.Tags))
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, title, description, image, images, tags, github, demo, category, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, (SELECT COALESCE(MAX(sort_order)+1, 0) FROM projects), $10)
		RETURNING sort_order
	`, item.ID, item.Title, item.Description, item.Image, images, tags,
		item.Github, item.Demo, item.Category, item.CreatedAt).Scan(&item.Order)
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	return item, nil
}

func insertProject(ctx context.Context, q queryer, item Project) error {
	images, _ := json.Marshal(nonNilStrings(item.Images))
	tags, _ := json.Marshal(nonNilStrings(item.Tags))
	_, err := q.ExecContext(ctx, `
		INSERT INTO projects (id, title, description, image, images, tags, github, demo, category, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, item.ID, item.Title, item.Description, item.Image, images, tags,
		item.Github, item.Demo, item.Category, item.Order, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// UpdateProject leaves sort_order and created_at alone: editing an item
// never moves it. The returned record echoes both stored values.
func (s *PostgresStore) UpdateProject(ctx context.Context, item Project) (Project, error) {
	images, _ := json.Marshal(nonNilStrings(item.Images))
	tags, _ := json.Marshal(nonNilStrings(item.Tags))
	err := s.db.QueryRowContext(ctx, `
		UPDATE projects
		SET title=$2, description=$3, image=$4, images=$5, tags=$6, github=$7, demo=$8, category=$9
		WHERE id=$1
		RETURNING sort_order, created_at
	`, item.ID, item.Title, item.Description, item.Image, images, tags,
		item.Github, item.Demo, item.Category).Scan(&item.Order, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, sql.ErrNoRows
	}
	if err != nil {
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "projects", id)
}

// ── Services ──

func (s *PostgresStore) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, icon, description, sort_order, created_at
		FROM services
		ORDER BY sort_order ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	items := make([]Service, 0)
	for rows.Next() {
		var item Service
		if err := rows.Scan(&item.ID, &item.Title, &item.Icon, &item.Description, &item.Order, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ReplaceServices(ctx context.Context, items []Service) error {
	return s.inTx(ctx, "replace services", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM services`); err != nil {
			return err
		}
		for _, item := range items {
			if err := insertService(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) InsertService(ctx context.Context, item Service) (Service, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO services (id, title, icon, description, sort_order, created_at)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(sort_order)+1, 0) FROM services), $5)
		RETURNING sort_order
	`, item.ID, item.Title, item.Icon, item.Description, item.CreatedAt).Scan(&item.Order)
	if err != nil {
		return Service{}, fmt.Errorf("insert service: %w", err)
	}
	return item, nil
}

func insertService(ctx context.Context, q queryer, item Service) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO services (id, title, icon, description, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, item.Title, item.Icon, item.Description, item.Order, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateService(ctx context.Context, item Service) (Service, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE services SET title=$2, icon=$3, description=$4 WHERE id=$1
		RETURNING sort_order, created_at
	`, item.ID, item.Title, item.Icon, item.Description).Scan(&item.Order, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Service{}, sql.ErrNoRows
	}
	if err != nil {
		return Service{}, fmt.Errorf("update service: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) DeleteService(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "services", id)
}

// ── Experience ──

func (s *PostgresStore) ListExperience(ctx context.Context) ([]Experience, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, company, period, description, sort_order, created_at
		FROM experience
		ORDER BY sort_order ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	defer rows.Close()

	items := make([]Experience, 0)
	for rows.Next() {
		var item Experience
		if err := rows.Scan(&item.ID, &item.Role, &item.Company, &item.Period, &item.Description, &item.Order, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experience: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ReplaceExperience(ctx context.Context, items []Experience) error {
	return s.inTx(ctx, "replace experience", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM experience`); err != nil {
			return err
		}
		for _, item := range items {
			if err := insertExperience(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) InsertExperience(ctx context.Context, item Experience) (Experience, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO experience (id, role, company, period, description, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, (SELECT COALESCE(MAX(sort_order)+1, 0) FROM experience), $6)
		RETURNING sort_order
	`, item.ID, item.Role, item.Company, item.Period, item.Description, item.CreatedAt).Scan(&item.Order)
	if err != nil {
		return Experience{}, fmt.Errorf("insert experience: %w", err)
	}
	return item, nil
}

func insertExperience(ctx context.Context, q queryer, item Experience) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO experience (id, role, company, period, description, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, item.ID, item.Role, item.Company, item.Period, item.Description, item.Order, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert experience: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateExperience(ctx context.Context, item Experience) (Experience, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE experience SET role=$2, company=$3, period=$4, description=$5 WHERE id=$1
		RETURNING sort_order, created_at
	`, item.ID, item.Role, item.Company, item.Period, item.Description).Scan(&item.Order, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Experience{}, sql.ErrNoRows
	}
	if err != nil {
		return Experience{}, fmt.Errorf("update experience: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) DeleteExperience(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "experience", id)
}

// ── Gallery ──

func (s *PostgresStore) ListGallery(ctx context.Context) ([]GalleryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, caption, sort_order, created_at
		FROM gallery
		ORDER BY sort_order ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	items := make([]GalleryItem, 0)
	for rows.Next() {
		var item GalleryItem
		if err := rows.Scan(&item.ID, &item.URL, &item.Caption, &item.Order, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan gallery item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gallery: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ReplaceGallery(ctx context.Context, items []GalleryItem) error {
	return s.inTx(ctx, "replace gallery", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM gallery`); err != nil {
			return err
		}
		for _, item := range items {
			if err := insertGalleryItem(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) InsertGalleryItem(ctx context.Context, item GalleryItem) (GalleryItem, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO gallery (id, url, caption, sort_order, created_at)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(sort_order)+1, 0) FROM gallery), $4)
		RETURNING sort_order
	`, item.ID, item.URL, item.Caption, item.CreatedAt).Scan(&item.Order)
	if err != nil {
		return GalleryItem{}, fmt.Errorf("insert gallery item: %w", err)
	}
	return item, nil
}

func insertGalleryItem(ctx context.Context, q queryer, item GalleryItem) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO gallery (id, url, caption, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID, item.URL, item.Caption, item.Order, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert gallery item: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateGalleryItem(ctx context.Context, item GalleryItem) (GalleryItem, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE gallery SET url=$2, caption=$3 WHERE id=$1
		RETURNING sort_order, created_at
	`, item.ID, item.URL, item.Caption).Scan(&item.Order, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GalleryItem{}, sql.ErrNoRows
	}
	if err != nil {
		return GalleryItem{}, fmt.Errorf("update gallery item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) DeleteGalleryItem(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "gallery", id)
}

// ── Admin users ──

func (s *PostgresStore) GetAdminUser(ctx context.Context, username string) (AdminUser, error) {
	var user AdminUser
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password_hash, created_at FROM admin_users WHERE username=$1
	`, username).Scan(&user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return AdminUser{}, err
	}
	return user, nil
}

// CreateAdminUser provisions the operator account if it does not exist yet.
func (s *PostgresStore) CreateAdminUser(ctx context.Context, username, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, username, passwordHash)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE admin_users SET password_hash=$2 WHERE username=$1
	`, username, passwordHash)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return requireRow(result)
}

// ── Admin sessions (Postgres fallback when Redis is not configured) ──

func (s *PostgresStore) SaveSession(ctx context.Context, tokenHash, username string, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (token_hash, username, expires_at)
		VALUES ($1, $2, NOW() + $3::interval)
		ON CONFLICT (token_hash) DO UPDATE SET username=EXCLUDED.username, expires_at=EXCLUDED.expires_at
	`, tokenHash, username, intervalString(ttl))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// TouchSession returns the session's username and slides its expiry forward.
// Expired or unknown sessions yield sql.ErrNoRows.
func (s *PostgresStore) TouchSession(ctx context.Context, tokenHash string, ttl time.Duration) (string, error) {
	var username string
	err := s.db.QueryRowContext(ctx, `
		UPDATE admin_sessions
		SET expires_at = NOW() + $2::interval
		WHERE token_hash=$1 AND expires_at > NOW()
		RETURNING username
	`, tokenHash, intervalString(ttl)).Scan(&username)
	if err != nil {
		return "", err
	}
	return username, nil
}

func (s *PostgresStore) RevokeSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// ── helpers ──

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) inTx(ctx context.Context, label string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", label, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", label, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", label, err)
	}
	return nil
}

func (s *PostgresStore) deleteByID(ctx context.Context, table, id string) error {
	result, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func decodeStrings(raw []byte, target *[]string) error {
	*target = []string{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func intervalString(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int(d.Seconds()))
}
