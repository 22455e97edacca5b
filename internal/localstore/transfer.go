package localstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

type collection struct {
	name     string
	key      string
	defaults func(s *Store) any
	validate func(raw []byte) error
}

// collections lists every exportable collection. The session slot is never exported.
var collections = []collection{
	{name: "USERS", key: KeyUsers, defaults: func(*Store) any { return seedUsers() }, validate: decodes[models.User]},
	{name: "ANNOUNCEMENTS", key: KeyAnnouncements, defaults: func(*Store) any { return seedAnnouncements() }, validate: decodes[models.Announcement]},
	{name: "GALLERY", key: KeyGallery, defaults: func(*Store) any { return seedGallery() }, validate: decodes[models.GalleryImage]},
	{name: "LOCATIONS", key: KeyLocations, defaults: func(*Store) any { return seedLocations() }, validate: decodes[models.ChurchLocation]},
	{name: "SUBSCRIBERS", key: KeySubscribers, defaults: func(*Store) any { return seedSubscribers() }, validate: decodes[models.Subscriber]},
	{name: "CAMPAIGNS", key: KeyCampaigns, defaults: func(*Store) any { return seedCampaigns() }, validate: decodes[models.NewsletterCampaign]},
	{name: "CHATS", key: KeyChats, defaults: func(s *Store) any { return s.seedChats() }, validate: decodes[models.ChatMessage]},
	{name: "DEPARTMENTS", key: KeyDepartments, defaults: func(*Store) any { return seedDepartments() }, validate: decodes[models.Department]},
}

// CollectionNames returns the document keys used by Export and Import.
func CollectionNames() []string {
	names := make([]string, 0, len(collections))
	for _, c := range collections {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

func decodes[T any](raw []byte) error {
	var items []T
	return json.Unmarshal(raw, &items)
}

// Export serializes the whole store as one JSON object keyed by collection name. Each value is the
// collection's serialized form as a string. Collections never written export their defaults so the
// document round-trips through Import.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make(map[string]string, len(collections))
	for _, c := range collections {
		raw, err := s.backend.Get(ctx, c.key)
		switch {
		case err == nil:
			doc[c.name] = string(raw)
		case errors.Is(err, appErrors.ErrKeyNotFound):
			encoded, mErr := json.Marshal(c.defaults(s))
			if mErr != nil {
				return nil, fmt.Errorf("marshal defaults for %s: %w", c.name, mErr)
			}
			doc[c.name] = string(encoded)
		default:
			return nil, fmt.Errorf("export %s: %w", c.name, err)
		}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return out, nil
}

// Import writes every recognised collection present in payload and returns how many were written.
// Values may be the serialized collection as a string or the collection itself. Unknown keys, nulls
// and empty strings are ignored. The whole document is validated before anything is written, so a
// malformed payload leaves the store untouched. Callers must reload state afterwards.
func (s *Store) Import(ctx context.Context, payload []byte) (int, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil || doc == nil {
		return 0, appErrors.Wrap(err, appErrors.ErrMalformedImport.Code, appErrors.ErrMalformedImport.Status, "import payload is not a JSON object")
	}

	type pending struct {
		key string
		raw []byte
	}
	writes := make([]pending, 0, len(collections))
	for _, c := range collections {
		value, ok := doc[c.name]
		if !ok {
			continue
		}
		raw, present, err := unwrapValue(value)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrMalformedImport.Code, appErrors.ErrMalformedImport.Status, fmt.Sprintf("%s is not a valid collection", c.name))
		}
		if !present {
			continue
		}
		if err := c.validate(raw); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrMalformedImport.Code, appErrors.ErrMalformedImport.Status, fmt.Sprintf("%s is not a valid collection", c.name))
		}
		writes = append(writes, pending{key: c.key, raw: raw})
	}
	if len(writes) == 0 {
		return 0, appErrors.Clone(appErrors.ErrMalformedImport, "import payload contains no recognised collections")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range writes {
		if err := s.backend.Set(ctx, w.key, w.raw); err != nil {
			return 0, fmt.Errorf("import %s: %w", w.key, err)
		}
	}
	s.logger.Info("local store imported", zap.Int("collections", len(writes)))
	return len(writes), nil
}

// unwrapValue resolves a document value to the raw collection bytes.
func unwrapValue(value json.RawMessage) ([]byte, bool, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false, nil
	}
	if trimmed[0] != '"' {
		return trimmed, true, nil
	}
	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return nil, false, err
	}
	if inner == "" {
		return nil, false, nil
	}
	return []byte(inner), true, nil
}
