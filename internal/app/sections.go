package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fogseason/api/internal/store"
	"fogseason/api/internal/util"
)

// Section names dispatch to exactly one of two behaviours: overwriting a
// field of the site-config singleton, or bulk-replacing a collection. The
// table below is the single source of truth for that mapping; anything not
// listed is rejected before any store access.
var sectionHandlers = map[string]func(ctx context.Context, s *Service, payload json.RawMessage) (any, error){
	"hero":       replaceHero,
	"about":      replaceAbout,
	"contact":    replaceContact,
	"whatWeDo":   replaceWhatWeDo,
	"projects":   replaceProjects,
	"services":   replaceServices,
	"experience": replaceExperience,
	"gallery":    replaceGallery,
}

// collectionHandler covers the single-item CRUD surface of one collection.
type collectionHandler struct {
	add    func(ctx context.Context, s *Service, payload json.RawMessage) (any, error)
	update func(ctx context.Context, s *Service, id string, payload json.RawMessage) (any, error)
	remove func(ctx context.Context, s *Service, id string) error
}

var collectionHandlers = map[string]collectionHandler{
	"projects": {
		add:    addProject,
		update: updateProject,
		remove: func(ctx context.Context, s *Service, id string) error { return s.store.DeleteProject(ctx, id) },
	},
	"services": {
		add:    addService,
		update: updateService,
		remove: func(ctx context.Context, s *Service, id string) error { return s.store.DeleteService(ctx, id) },
	},
	"experience": {
		add:    addExperience,
		update: updateExperience,
		remove: func(ctx context.Context, s *Service, id string) error { return s.store.DeleteExperience(ctx, id) },
	},
	"gallery": {
		add:    addGalleryItem,
		update: updateGalleryItem,
		remove: func(ctx context.Context, s *Service, id string) error { return s.store.DeleteGalleryItem(ctx, id) },
	},
}

// ── Config section replacers ──

func replaceHero(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var block store.HeroBlock
	if err := decodeSection(payload, &block); err != nil {
		return nil, err
	}
	if err := s.store.SaveConfigSection(ctx, "hero", block); err != nil {
		return nil, err
	}
	return block, nil
}

func replaceAbout(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var block store.AboutBlock
	if err := decodeSection(payload, &block); err != nil {
		return nil, err
	}
	if err := s.store.SaveConfigSection(ctx, "about", block); err != nil {
		return nil, err
	}
	return block, nil
}

func replaceContact(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var block store.ContactBlock
	if err := decodeSection(payload, &block); err != nil {
		return nil, err
	}
	if err := s.store.SaveConfigSection(ctx, "contact", block); err != nil {
		return nil, err
	}
	return block, nil
}

func replaceWhatWeDo(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var items []store.WhatWeDoItem
	if err := decodeSection(payload, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []store.WhatWeDoItem{}
	}
	if err := s.store.SaveConfigSection(ctx, "what_we_do", items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Collection bulk replacers ──
//
// The payload is the complete desired state: every prior record is dropped
// and the payload is inserted with fresh identities. Array position is
// authoritative for ordering; any incoming order value is discarded.

func replaceProjects(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var items []store.Project
	if err := decodeSection(payload, &items); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range items {
		if err := normalizeProject(&items[i]); err != nil {
			return nil, itemError("projects", i, err)
		}
		items[i].ID = util.NewID("prj")
		items[i].Order = i
		items[i].CreatedAt = now
	}
	if err := s.store.ReplaceProjects(ctx, items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []store.Project{}
	}
	return items, nil
}

func replaceServices(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var items []store.Service
	if err := decodeSection(payload, &items); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range items {
		if err := normalizeService(&items[i]); err != nil {
			return nil, itemError("services", i, err)
		}
		items[i].ID = util.NewID("svc")
		items[i].Order = i
		items[i].CreatedAt = now
	}
	if err := s.store.ReplaceServices(ctx, items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []store.Service{}
	}
	return items, nil
}

func replaceExperience(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var items []store.Experience
	if err := decodeSection(payload, &items); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range items {
		if err := normalizeExperience(&items[i]); err != nil {
			return nil, itemError("experience", i, err)
		}
		items[i].ID = util.NewID("exp")
		items[i].Order = i
		items[i].CreatedAt = now
	}
	if err := s.store.ReplaceExperience(ctx, items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []store.Experience{}
	}
	return items, nil
}

func replaceGallery(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var items []store.GalleryItem
	if err := decodeSection(payload, &items); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range items {
		if err := normalizeGalleryItem(&items[i]); err != nil {
			return nil, itemError("gallery", i, err)
		}
		items[i].ID = util.NewID("gal")
		items[i].Order = i
		items[i].CreatedAt = now
	}
	if err := s.store.ReplaceGallery(ctx, items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []store.GalleryItem{}
	}
	return items, nil
}

// ── Single-item operations ──

func addProject(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var item store.Project
	if err := decodeSection(payload, &item); err != nil {
		return nil, err
	}
	if err := normalizeProject(&item); err != nil {
		return nil, validationError(err)
	}
	item.ID = util.NewID("prj")
	item.CreatedAt = time.Now().UTC()
	stored, err := s.store.InsertProject(ctx, item)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func updateProject(ctx context.Context, s *Service, id string, payload json.RawMessage) (any, error) {
	var item store.Project
	if err := decodeSection(payload, &item); err != nil {
		return nil, err
	}
	if err := normalizeProject(&item); err != nil {
		return nil, validationError(err)
	}
	item.ID = id
	stored, err := s.store.UpdateProject(ctx, item)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func addService(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var item store.Service
	if err := decodeSection(payload, &item); err != nil {
		return nil, err
	}
	if err := normalizeService(&item); err != nil {
		return nil, validationError(err)
	}
	item.ID = util.NewID("svc")
	item.CreatedAt = time.Now().UTC()
	stored, err := s.store.InsertService(ctx, item)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func updateService(ctx context.Context, s *Service, id string, payload json.RawMessage) (any, error) {
	var item store.Service
	if err := decodeSection(payload, &item); err != nil {
		return nil, err
	}
	if err := normalizeService(&item); err != nil {
		return nil, validationError(err)
	}
	item.ID = id
	stored, err := s.store.UpdateService(ctx, item)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func addExperience(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var item store.Experience
	if err := decodeSection(payload, &item); err != nil {
		return nil, err
	}
	if err := normalizeExperience(&item); err != nil {
		return nil, validationError(err)
	}
	item.ID = util.NewID("exp")
	item.CreatedAt = time.Now().UTC()
	stored, err := s.store.InsertExperience(ctx, item)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func updateExperience(ctx context.Context, s *Service, id string, payload json.RawMessage) (any, error) {
	var item store.Experience
	if err := decodeSection(payload, &item); err != nil {
		return nil, err
	}
	if err := normalizeExperience(&item); err != nil {
		return nil, validationError(err)
	}
	item.ID = id
	stored, err := s.store.UpdateExperience(ctx, item)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func addGalleryItem(ctx context.Context, s *Service, payload json.RawMessage) (any, error) {
	var item store.GalleryItem
	if err := decodeSection(payload, &item); err != nil {
		return nil, err
	}
	if err := normalizeGalleryItem(&item); err != nil {
		return nil, validationError(err)
	}
	item.ID = util.NewID("gal")
	item.CreatedAt = time.Now().UTC()
	stored, err := s.store.InsertGalleryItem(ctx, item)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func updateGalleryItem(ctx context.Context, s *Service, id string, payload json.RawMessage) (any, error) {
	var item store.GalleryItem
	if err := decodeSection(payload, &item); err != nil {
		return nil, err
	}
	if err := normalizeGalleryItem(&item); err != nil {
		return nil, validationError(err)
	}
	item.ID = id
	stored, err := s.store.UpdateGalleryItem(ctx, item)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ── Normalization ──

// normalizeProject enforces the cover-image rule: image mirrors images[0]
// when the list is non-empty; an empty list with a standalone image
// back-fills images=[image].
func normalizeProject(item *store.Project) error {
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return fmt.Errorf("title is required")
	}
	cleaned := make([]string, 0, len(item.Images))
	for _, url := range item.Images {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	item.Images = cleaned
	item.Image = strings.TrimSpace(item.Image)
	if len(item.Images) > 0 {
		item.Image = item.Images[0]
	} else if item.Image != "" {
		item.Images = []string{item.Image}
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return nil
}

func normalizeService(item *store.Service) error {
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return fmt.Errorf("title is required")
	}
	item.Icon = strings.TrimSpace(item.Icon)
	if item.Icon == "" {
		return fmt.Errorf("icon is required")
	}
	return nil
}

func normalizeExperience(item *store.Experience) error {
	item.Role = strings.TrimSpace(item.Role)
	if item.Role == "" {
		return fmt.Errorf("role is required")
	}
	item.Company = strings.TrimSpace(item.Company)
	if item.Company == "" {
		return fmt.Errorf("company is required")
	}
	return nil
}

func normalizeGalleryItem(item *store.GalleryItem) error {
	item.URL = strings.TrimSpace(item.URL)
	if item.URL == "" {
		return fmt.Errorf("url is required")
	}
	return nil
}

// ── helpers ──

func decodeSection(payload json.RawMessage, target any) error {
	if len(payload) == 0 {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "request body is required", nil)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "payload does not match the section shape", nil)
	}
	return nil
}

func validationError(err error) error {
	return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
}

func itemError(section string, index int, err error) error {
	return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
		fmt.Sprintf("%s[%d]: %s", section, index, err.Error()), nil)
}
