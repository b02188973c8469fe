package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"gopkg.in/yaml.v3"
)

var (
	// ErrProfileExists is returned when creating a profile whose name is taken.
	ErrProfileExists = errors.New("import profile already exists")
	// ErrProfileNotFound is returned by Get for unknown names.
	ErrProfileNotFound = errors.New("import profile not found")
)

// profilesFile is the on-disk layout of the profiles YAML file.
type profilesFile struct {
	Profiles []models.ImportProfile `yaml:"profiles"`
}

// ProfileStore manages named import configurations in a YAML file.
type ProfileStore struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
}

// NewProfileStore creates a store backed by the file at path. The file is
// created on first write.
func NewProfileStore(path string, logger logging.Logger) *ProfileStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ProfileStore{path: path, logger: logger}
}

// List returns every profile sorted by name. A missing file is an empty list.
func (s *ProfileStore) List() ([]models.ImportProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// Get returns the profile with the given name.
func (s *ProfileStore) Get(name string) (models.ImportProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return models.ImportProfile{}, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return models.ImportProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// Create validates and stores a new profile. Names are unique; a duplicate
// yields ErrProfileExists. Any account id on the configuration is dropped.
func (s *ProfileStore) Create(p models.ImportProfile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return &parsererror.ConfigError{Problems: []string{"profile name is required"}}
	}
	p.Config.BankAccountID = ""
	if err := p.Config.ValidateProfile(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range profiles {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
		}
	}

	profiles = append(profiles, p)
	if err := s.save(profiles); err != nil {
		return err
	}
	s.logger.Info("Saved import profile",
		logging.Field{Key: logging.FieldProfile, Value: p.Name},
		logging.Field{Key: logging.FieldFile, Value: s.path})
	return nil
}

func (s *ProfileStore) load() ([]models.ImportProfile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Profiles file not found", logging.Field{Key: logging.FieldFile, Value: s.path})
			return []models.ImportProfile{}, nil
		}
		return nil, fmt.Errorf("error reading profiles file: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing profiles file: %w", err)
	}
	if file.Profiles == nil {
		file.Profiles = []models.ImportProfile{}
	}
	return file.Profiles, nil
}

func (s *ProfileStore) save(profiles []models.ImportProfile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(profilesFile{Profiles: profiles})
	if err != nil {
		return fmt.Errorf("error marshaling profiles: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing profiles: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error writing profiles: %w", err)
	}
	return nil
}
