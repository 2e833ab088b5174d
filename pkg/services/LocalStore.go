package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/goccy/go-json"
)

type localDocument struct {
	Albums   []models.Album             `json:"albums"`
	Settings *models.SiteSettings       `json:"settings,omitempty"`
	Contacts []models.ContactSubmission `json:"contacts"`
}

type LocalStoreConfig struct {
	Path string
	Seed bool
}

/*
LocalStore keeps every record in a single JSON document on disk. It is meant
for demos and offline work where running a database is overkill. The whole
document is rewritten after each change.
*/
type LocalStore struct {
	mu   *sync.Mutex
	path string
	doc  *localDocument
}

/*
NewLocalStore loads the document at config.Path. When the file does not
exist yet it is created, with demo albums when config.Seed is set.
*/
func NewLocalStore(config LocalStoreConfig) (LocalStore, error) {
	var (
		err error
		b   []byte
	)

	store := LocalStore{
		mu:   &sync.Mutex{},
		path: config.Path,
		doc:  &localDocument{},
	}

	b, err = os.ReadFile(config.Path)

	if errors.Is(err, fs.ErrNotExist) {
		if config.Seed {
			store.doc.Albums = SeedAlbums()
		}

		slog.Info("creating local data file", "path", config.Path, "seeded", config.Seed)
		return store, store.save()
	}

	if err != nil {
		return store, fmt.Errorf("error reading local data file '%s': %w", config.Path, err)
	}

	if err = json.Unmarshal(b, store.doc); err != nil {
		return store, fmt.Errorf("error decoding local data file '%s': %w", config.Path, err)
	}

	return store, nil
}

func (s LocalStore) view(fn func(doc *localDocument)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.doc)
}

/*
change applies fn and persists the result. If fn fails nothing is written
and the in-memory document is restored.
*/
func (s LocalStore) change(fn func(doc *localDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := localDocument{
		Albums:   slices.Clone(s.doc.Albums),
		Settings: s.doc.Settings,
		Contacts: slices.Clone(s.doc.Contacts),
	}

	if err := fn(s.doc); err != nil {
		*s.doc = backup
		return err
	}

	if err := s.save(); err != nil {
		*s.doc = backup
		return err
	}

	return nil
}

func (s LocalStore) save() error {
	var (
		err error
		b   []byte
	)

	if b, err = json.MarshalIndent(s.doc, "", "  "); err != nil {
		return fmt.Errorf("error encoding local data: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("error creating local data directory: %w", err)
	}

	tmp := s.path + ".tmp"

	if err = os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("error writing local data file '%s': %w", tmp, err)
	}

	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error replacing local data file '%s': %w", s.path, err)
	}

	return nil
}

/*
SeedAlbums is the demo content a fresh local store starts with.
*/
func SeedAlbums() []models.Album {
	return []models.Album{
		{
			ID:               "seed-sarah-mike-wedding",
			Title:            "Sarah & Mike's Wedding",
			Slug:             "sarah-mike-wedding",
			CoverImageURL:    "https://images.unsplash.com/photo-1519741497674-611481863552?w=1200",
			ExternalAlbumURL: "https://photos.google.com/share/sarah-mike",
			Description:      "A golden hour ceremony at the vineyard followed by a candlelit reception.",
			EventDate:        models.NewDate(2024, 6, 15),
			CreatedAt:        models.NewDate(2024, 6, 20),
			Location:         "Napa Valley, CA",
			Tags:             models.Tags{"wedding", "outdoor"},
			Featured:         true,
			Visibility:       models.VisibilityPublic,
			ViewCount:        245,
			ClickCount:       89,
		},
		{
			ID:               "seed-johnson-family",
			Title:            "The Johnson Family",
			Slug:             "johnson-family",
			CoverImageURL:    "https://images.unsplash.com/photo-1511895426328-dc8714191300?w=1200",
			ExternalAlbumURL: "https://photos.google.com/share/johnson-family",
			Description:      "An autumn afternoon in the park with three generations.",
			EventDate:        models.NewDate(2024, 10, 5),
			CreatedAt:        models.NewDate(2024, 10, 8),
			Location:         "Central Park, NY",
			Tags:             models.Tags{"family", "outdoor"},
			Featured:         true,
			Visibility:       models.VisibilityPublic,
			ViewCount:        132,
			ClickCount:       41,
		},
		{
			ID:               "seed-acme-summit",
			Title:            "Acme Leadership Summit",
			Slug:             "acme-leadership-summit",
			CoverImageURL:    "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=1200",
			ExternalAlbumURL: "https://photos.google.com/share/acme-summit",
			Description:      "Keynotes, panels and candid moments from a two day conference.",
			EventDate:        models.NewDate(2023, 11, 12),
			CreatedAt:        models.NewDate(2023, 11, 20),
			Location:         "Austin, TX",
			Tags:             models.Tags{"corporate", "event"},
			Featured:         false,
			Visibility:       models.VisibilityPublic,
			ViewCount:        87,
			ClickCount:       23,
		},
		{
			ID:               "seed-emma-portraits",
			Title:            "Emma's Senior Portraits",
			Slug:             "emma-senior-portraits",
			CoverImageURL:    "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=1200",
			ExternalAlbumURL: "https://photos.google.com/share/emma-portraits",
			Description:      "Downtown portraits for a graduating senior.",
			EventDate:        models.NewDate(2024, 4, 22),
			CreatedAt:        models.NewDate(2024, 4, 25),
			Location:         "Portland, OR",
			Tags:             models.Tags{"portrait"},
			Featured:         false,
			Visibility:       models.VisibilityUnlisted,
			ViewCount:        12,
			ClickCount:       4,
		},
	}
}
