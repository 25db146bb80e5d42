package contentcache

import (
	"context"
	"encoding/json"
	"sync"
)

// Cache mirrors the server's content snapshot. Section writes apply
// locally first so the UI reflects the edit immediately; the server
// response then confirms or corrects.
type Cache struct {
	mu       sync.RWMutex
	backend  Backend
	sections map[string]json.RawMessage
	nextSub  int
	subs     map[int]func(section string, payload json.RawMessage)
}

func New(backend Backend) *Cache {
	return &Cache{
		backend:  backend,
		sections: map[string]json.RawMessage{},
		subs:     map[int]func(section string, payload json.RawMessage){},
	}
}

// Refresh replaces the whole mirror with the server snapshot.
func (c *Cache) Refresh(ctx context.Context) error {
	snapshot, err := c.backend.FetchSnapshot(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sections = snapshot
	c.mu.Unlock()
	for section, payload := range snapshot {
		c.notify(section, payload)
	}
	return nil
}

// Section returns the cached payload for one section, or nil when the
// section has never been fetched.
func (c *Cache) Section(section string) json.RawMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sections[section]
}

// Subscribe registers a listener for section changes. The returned func
// removes it.
func (c *Cache) Subscribe(fn func(section string, payload json.RawMessage)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Cache) notify(section string, payload json.RawMessage) {
	c.mu.RLock()
	listeners := make([]func(string, json.RawMessage), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(section, payload)
	}
}

func (c *Cache) set(section string, payload json.RawMessage) {
	c.mu.Lock()
	c.sections[section] = payload
	c.mu.Unlock()
	c.notify(section, payload)
}

// UpdateSection applies the payload locally, then pushes it. On push
// failure the mirror is refetched so readers see server truth again.
// A concurrent reader between the local apply and a failed push can
// observe the rolled-back value; the refetch converges it.
func (c *Cache) UpdateSection(ctx context.Context, section string, payload json.RawMessage) error {
	c.set(section, payload)
	updated, err := c.backend.ReplaceSection(ctx, section, payload)
	if err != nil {
		if refreshErr := c.Refresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return err
	}
	c.set(section, updated)
	return nil
}

// AddItem is server-first: the created item carries a server-assigned
// identity, so there is nothing sensible to show until the server answers.
func (c *Cache) AddItem(ctx context.Context, collection string, payload json.RawMessage) (json.RawMessage, error) {
	created, err := c.backend.AddItem(ctx, collection, payload)
	if err != nil {
		return nil, err
	}
	items := c.items(collection)
	items = append(items, created)
	c.setItems(collection, items)
	return created, nil
}

// UpdateItem swaps the matching item locally, then pushes.
func (c *Cache) UpdateItem(ctx context.Context, collection, id string, payload json.RawMessage) error {
	items := c.items(collection)
	for i, item := range items {
		if itemID(item) == id {
			items[i] = payload
			break
		}
	}
	c.setItems(collection, items)

	updated, err := c.backend.UpdateItem(ctx, collection, id, payload)
	if err != nil {
		if refreshErr := c.Refresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return err
	}
	items = c.items(collection)
	for i, item := range items {
		if itemID(item) == id || itemID(item) == itemID(updated) {
			items[i] = updated
			break
		}
	}
	c.setItems(collection, items)
	return nil
}

// DeleteItem drops the matching item locally, then pushes.
func (c *Cache) DeleteItem(ctx context.Context, collection, id string) error {
	items := c.items(collection)
	kept := items[:0]
	for _, item := range items {
		if itemID(item) != id {
			kept = append(kept, item)
		}
	}
	c.setItems(collection, kept)

	if err := c.backend.DeleteItem(ctx, collection, id); err != nil {
		if refreshErr := c.Refresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return err
	}
	return nil
}

func (c *Cache) items(collection string) []json.RawMessage {
	c.mu.RLock()
	raw := c.sections[collection]
	c.mu.RUnlock()
	if raw == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func (c *Cache) setItems(collection string, items []json.RawMessage) {
	if items == nil {
		items = []json.RawMessage{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.set(collection, data)
}

// itemID reads the item identity, accepting either key the API has used.
func itemID(item json.RawMessage) string {
	var probe struct {
		ID  string `json:"id"`
		Alt string `json:"_id"`
	}
	if err := json.Unmarshal(item, &probe); err != nil {
		return ""
	}
	if probe.ID != "" {
		return probe.ID
	}
	return probe.Alt
}
