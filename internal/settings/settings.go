package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"ttscore/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	KeySeasonID        = "currentSeasonId"
	KeyClubID          = "currentClubId"
	KeyTeamID          = "currentTeamId"
	KeySeasonsImported = "seasonsImported"
	KeyClubsImported   = "clubsImported"
)

// Store is the device level key-value settings store. Missing keys read as
// zero values.
type Store interface {
	Bool(key string) bool
	Int(key string) int
	String(key string) string
	SetBool(key string, value bool) error
	SetInt(key string, value int) error
	SetString(key string, value string) error
	Remove(key string) error
}

type values struct {
	mu   sync.RWMutex
	data map[string]any
}

func (v *values) get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.data[key]
	return value, ok
}

func (v *values) Bool(key string) bool {
	value, _ := v.get(key)
	switch b := value.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	default:
		return false
	}
}

func (v *values) Int(key string) int {
	value, _ := v.get(key)
	switch n := value.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		parsed, _ := strconv.Atoi(n)
		return parsed
	default:
		return 0
	}
}

func (v *values) String(key string) string {
	value, _ := v.get(key)
	switch s := value.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// MemoryStore keeps settings for the lifetime of the process only.
type MemoryStore struct {
	values
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: values{data: map[string]any{}}}
}

func (s *MemoryStore) set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) SetBool(key string, value bool) error     { return s.set(key, value) }
func (s *MemoryStore) SetInt(key string, value int) error       { return s.set(key, value) }
func (s *MemoryStore) SetString(key string, value string) error { return s.set(key, value) }

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// FileStore persists settings as a YAML map. Every write rewrites the file.
type FileStore struct {
	values
	path   string
	logger zerolog.Logger
}

var _ Store = (*FileStore)(nil)

func NewFileStore(cfg *config.Config, logger zerolog.Logger) (*FileStore, error) {
	return OpenFileStore(cfg.SettingsPath, logger)
}

func OpenFileStore(path string, logger zerolog.Logger) (*FileStore, error) {
	s := &FileStore{
		values: values{data: map[string]any{}},
		path:   path,
		logger: logger.With().Str("component", "settings").Logger(),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug().Str("path", path).Msg("settings file not found, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.data == nil {
		s.data = map[string]any{}
	}
	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, had := s.data[key]
	s.data[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.data[key] = previous
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) SetBool(key string, value bool) error     { return s.set(key, value) }
func (s *FileStore) SetInt(key string, value int) error       { return s.set(key, value) }
func (s *FileStore) SetString(key string, value string) error { return s.set(key, value) }

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, had := s.data[key]
	if !had {
		return nil
	}
	delete(s.data, key)
	if err := s.flush(); err != nil {
		s.data[key] = previous
		return err
	}
	return nil
}

// flush writes through a temp file so a crash never leaves half a file.
// Callers hold the write lock.
func (s *FileStore) flush() error {
	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Selection is the season, club and team the user is currently looking at.
// Zero values mean nothing is selected.
type Selection struct {
	SeasonID int
	ClubID   string
	TeamID   string
}

func LoadSelection(s Store) Selection {
	return Selection{
		SeasonID: s.Int(KeySeasonID),
		ClubID:   s.String(KeyClubID),
		TeamID:   s.String(KeyTeamID),
	}
}

// SaveSelection stores every field; empty fields clear the key.
func SaveSelection(s Store, sel Selection) error {
	if sel.SeasonID != 0 {
		if err := s.SetInt(KeySeasonID, sel.SeasonID); err != nil {
			return err
		}
	} else if err := s.Remove(KeySeasonID); err != nil {
		return err
	}

	if sel.ClubID != "" {
		if err := s.SetString(KeyClubID, sel.ClubID); err != nil {
			return err
		}
	} else if err := s.Remove(KeyClubID); err != nil {
		return err
	}

	if sel.TeamID != "" {
		return s.SetString(KeyTeamID, sel.TeamID)
	}
	return s.Remove(KeyTeamID)
}
