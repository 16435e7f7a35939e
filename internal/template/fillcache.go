package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	portsession "github.com/komi0929/myprompt/internal/port/session"
)

// maxCachedPrompts caps the fill-value cache per user. Eviction is by
// insertion order of the prompt key, oldest first. This is not true LRU:
// re-filling an already cached prompt does not move it to the back.
const maxCachedPrompts = 50

// FillCache remembers the values a user typed for each (prompt, variable)
// pair, in the session cache rather than the prompt row: fills are personal
// and never sent with the prompt itself.
type FillCache struct {
	cache  portsession.Cache
	userID uuid.UUID
}

type fillDoc struct {
	Order  []string                     `json:"order"`
	Values map[string]map[string]string `json:"values"`
}

func NewFillCache(cache portsession.Cache, userID uuid.UUID) *FillCache {
	return &FillCache{cache: cache, userID: userID}
}

func (c *FillCache) key() string {
	return "fill_values:" + c.userID.String()
}

// Values returns the cached fills for one prompt; missing prompts yield an
// empty map.
func (c *FillCache) Values(ctx context.Context, promptID uuid.UUID) (map[string]string, error) {
	doc, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	values, ok := doc.Values[promptID.String()]
	if !ok {
		return map[string]string{}, nil
	}
	return values, nil
}

// Put stores one variable's fill value, evicting the oldest-inserted prompt
// entries beyond the cap.
func (c *FillCache) Put(ctx context.Context, promptID uuid.UUID, name, value string) error {
	doc, err := c.load(ctx)
	if err != nil {
		return err
	}

	key := promptID.String()
	if _, ok := doc.Values[key]; !ok {
		doc.Order = append(doc.Order, key)
		doc.Values[key] = make(map[string]string)
	}
	doc.Values[key][name] = value

	for len(doc.Order) > maxCachedPrompts {
		oldest := doc.Order[0]
		doc.Order = doc.Order[1:]
		delete(doc.Values, oldest)
	}

	return c.save(ctx, doc)
}

// Forget drops a prompt's cached fills, e.g. when the prompt is deleted.
func (c *FillCache) Forget(ctx context.Context, promptID uuid.UUID) error {
	doc, err := c.load(ctx)
	if err != nil {
		return err
	}
	key := promptID.String()
	if _, ok := doc.Values[key]; !ok {
		return nil
	}
	delete(doc.Values, key)
	for i, k := range doc.Order {
		if k == key {
			doc.Order = append(doc.Order[:i], doc.Order[i+1:]...)
			break
		}
	}
	return c.save(ctx, doc)
}

func (c *FillCache) load(ctx context.Context) (fillDoc, error) {
	doc := fillDoc{Values: make(map[string]map[string]string)}
	raw, err := c.cache.Get(ctx, c.key())
	if errors.Is(err, portsession.ErrNotFound) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("loading fill cache: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decoding fill cache: %w", err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]map[string]string)
	}
	return doc, nil
}

func (c *FillCache) save(ctx context.Context, doc fillDoc) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding fill cache: %w", err)
	}
	if err := c.cache.Set(ctx, c.key(), raw, 0); err != nil {
		return fmt.Errorf("saving fill cache: %w", err)
	}
	return nil
}
