package project

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/pkg/util"
)

// Library is the saved-project list, stored as a JSON document keyed by
// storage key so several lists can share one file
type Library struct {
	mu     sync.Mutex
	logger zerolog.Logger
	path   string
	key    string
}

// OpenLibrary binds a library to a file; the file is created on first save
func OpenLibrary(logger zerolog.Logger, path, key string) *Library {
	return &Library{
		logger: logger.With().Str("component", "library").Logger(),
		path:   path,
		key:    key,
	}
}

func (l *Library) load() (map[string]json.RawMessage, []Project, error) {
	doc := make(map[string]json.RawMessage)
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read library: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse library: %w", err)
		}
	}

	var projects []Project
	if raw, ok := doc[l.key]; ok {
		if err := json.Unmarshal(raw, &projects); err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", l.key, err)
		}
	}
	return doc, projects, nil
}

func (l *Library) store(doc map[string]json.RawMessage, projects []Project) error {
	if projects == nil {
		projects = []Project{}
	}
	raw, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}
	doc[l.key] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	return util.WriteFileAtomic(l.path, data)
}

// List returns every saved project in save order
func (l *Library) List() ([]Project, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, projects, err := l.load()
	return projects, err
}

// Get finds a project by id
func (l *Library) Get(id string) (Project, error) {
	projects, err := l.List()
	if err != nil {
		return Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

// Upsert replaces the project with the same id or appends it
func (l *Library) Upsert(p Project) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, projects, err := l.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range projects {
		if projects[i].ID == p.ID {
			projects[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append(projects, p)
	}

	if err := l.store(doc, projects); err != nil {
		return err
	}
	l.logger.Info().Str("id", p.ID).Str("title", p.Title).Bool("replaced", replaced).Msg("project saved")
	return nil
}

// Delete removes a project by id
func (l *Library) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, projects, err := l.load()
	if err != nil {
		return err
	}

	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return ErrNotFound
	}

	if err := l.store(doc, kept); err != nil {
		return err
	}
	l.logger.Info().Str("id", id).Msg("project deleted")
	return nil
}
