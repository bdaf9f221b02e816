// Package repository persists tournaments as a single JSON file holding
// a list of records, upserted by a normalized "name" key.
package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const storeFileName = "tournaments.json"

// Repository is a JSON-file-backed store of tournament records. All
// mutating operations rewrite the whole file, matching the source
// system's single-file persistence contract.
type Repository struct {
	dirPath  string
	filePath string

	mu      sync.RWMutex
	records []map[string]interface{}
}

// New opens (creating if absent) the JSON store under dirPath. An
// empty dirPath defaults to "data/tournaments".
func New(dirPath string) (*Repository, error) {
	if dirPath == "" {
		dirPath = filepath.Join("data", "tournaments")
	}
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return nil, fmt.Errorf("create tournament store directory: %w", err)
	}

	r := &Repository{dirPath: dirPath, filePath: filepath.Join(dirPath, storeFileName)}
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		if err := r.persist(nil); err != nil {
			return nil, err
		}
	}

	records, err := r.loadRaw()
	if err != nil {
		return nil, err
	}
	r.records = records
	return r, nil
}

func (r *Repository) loadRaw() ([]map[string]interface{}, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("read tournament store: %w", err)
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		// A corrupt or empty store degrades to empty, mirroring a fresh
		// install rather than failing every subsequent operation.
		return []map[string]interface{}{}, nil
	}
	return records, nil
}

func (r *Repository) persist(records []map[string]interface{}) error {
	if records == nil {
		records = []map[string]interface{}{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tournament store: %w", err)
	}
	if err := os.WriteFile(r.filePath, data, 0o644); err != nil {
		return fmt.Errorf("write tournament store: %w", err)
	}
	return nil
}

// LoadAll returns a shallow copy of every stored tournament record.
func (r *Repository) LoadAll() []map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]map[string]interface{}, len(r.records))
	copy(out, r.records)
	return out
}

func recordKey(t map[string]interface{}) string {
	name, _ := t["name"].(string)
	return strings.ToLower(strings.TrimSpace(name))
}

// SaveTournament upserts tournament by its normalized "name" key,
// rewriting the store file. A record with no name is appended.
func (r *Repository) SaveTournament(tournament map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey(tournament)
	if key != "" {
		for i, existing := range r.records {
			if recordKey(existing) == key {
				r.records[i] = tournament
				return r.persist(r.records)
			}
		}
	}
	r.records = append(r.records, tournament)
	return r.persist(r.records)
}

// AddTournament is an alias for SaveTournament, matching the source
// system's separate "add" entry point over the same upsert behavior.
func (r *Repository) AddTournament(tournament map[string]interface{}) error {
	return r.SaveTournament(tournament)
}

// GetByName retrieves a tournament record by case-insensitive,
// trimmed name match, returning a shallow copy.
func (r *Repository) GetByName(name string) (map[string]interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	for _, t := range r.records {
		if recordKey(t) == key {
			cp := make(map[string]interface{}, len(t))
			for k, v := range t {
				cp[k] = v
			}
			return cp, true
		}
	}
	return nil, false
}

// ExistingNames returns every stored record's "name" field, for use by
// NextName's collision scan.
func (r *Repository) ExistingNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.records))
	for _, t := range r.records {
		if name, _ := t["name"].(string); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// NextName derives the next available "tournament_{n}_{slug}_{date}"
// name for a tournament located at location.
func (r *Repository) NextName(location string) string {
	return generateTournamentName(location, r.ExistingNames())
}
