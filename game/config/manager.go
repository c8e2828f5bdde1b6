package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrConfigNotFound = errors.New("tuning profile not found")
	ErrInvalidConfig  = errors.New("invalid tuning profile")
)

// Manager handles tuning profile loading and caching
type Manager struct {
	configDir     string
	defaultTuning *Tuning
	profiles      map[string]*Tuning
	mu            sync.RWMutex
}

// NewManager creates a new tuning profile manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		profiles:  make(map[string]*Tuning),
	}

	if err := m.loadDefaultTuning(); err != nil {
		return nil, fmt.Errorf("failed to load default tuning: %w", err)
	}

	return m, nil
}

// Load loads a tuning profile by name
func (m *Manager) Load(name string) (*Tuning, error) {
	m.mu.RLock()
	if tuning, exists := m.profiles[name]; exists {
		m.mu.RUnlock()
		return tuning, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if tuning, exists := m.profiles[name]; exists {
		return tuning, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}
	profilePath := filepath.Join(m.configDir, filename)

	data, err := os.ReadFile(profilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read tuning profile: %w", err)
	}

	var tuning Tuning
	if err := json.Unmarshal(data, &tuning); err != nil {
		return nil, fmt.Errorf("failed to parse tuning profile: %w", err)
	}

	if err := Validate(&tuning); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.profiles[name] = &tuning
	return &tuning, nil
}

// List returns the names of every loadable profile in the directory
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		if _, err := m.Load(name); err != nil {
			// Skip unparsable profiles
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// GetDefault returns the default tuning profile
func (m *Manager) GetDefault() *Tuning {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultTuning
}

// SetDefault sets the default tuning profile by name
func (m *Manager) SetDefault(name string) error {
	tuning, err := m.Load(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultTuning = tuning
	return nil
}

// RefreshCache reloads all cached profiles from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.profiles = make(map[string]*Tuning)
	m.mu.Unlock()

	return m.loadDefaultTuning()
}

// Save writes a tuning profile to disk and caches it
func (m *Manager) Save(name string, tuning *Tuning) error {
	if err := Validate(tuning); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}
	profilePath := filepath.Join(m.configDir, filename)

	data, err := json.MarshalIndent(tuning, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tuning profile: %w", err)
	}
	if err := os.WriteFile(profilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write tuning profile: %w", err)
	}

	m.mu.Lock()
	m.profiles[name] = tuning
	m.mu.Unlock()
	return nil
}

// loadDefaultTuning picks the default profile: "default" when present, then
// the first loadable profile, then the built-in values.
func (m *Manager) loadDefaultTuning() error {
	tuning, err := m.Load("default")
	if err != nil {
		names, listErr := m.List()
		if listErr != nil || len(names) == 0 {
			m.mu.Lock()
			m.defaultTuning = DefaultTuning()
			m.mu.Unlock()
			return nil
		}
		tuning, err = m.Load(names[0])
		if err != nil {
			m.mu.Lock()
			m.defaultTuning = DefaultTuning()
			m.mu.Unlock()
			return nil
		}
	}

	m.mu.Lock()
	m.defaultTuning = tuning
	m.mu.Unlock()
	return nil
}
