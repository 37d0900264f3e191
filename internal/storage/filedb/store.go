// Package filedb provides file-based JSON persistence for holdings and
// transaction logs. One file per user per concern, written atomically.
package filedb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Manager implements interfaces.StorageManager over a directory tree:
//
//	<basePath>/holdings/<username>.json
//	<basePath>/transactions/<username>.json
type Manager struct {
	basePath string
	logger   *common.Logger

	// mu serializes writes per process. Save is read-modify-write for the
	// transaction log, so concurrent appends need the lock to stay lossless.
	mu sync.Mutex
}

var subdirectories = []string{"holdings", "transactions"}

// NewManager creates a Manager and ensures the directory layout exists.
func NewManager(logger *common.Logger, basePath string) (*Manager, error) {
	if basePath == "" {
		basePath = "data"
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	m := &Manager{
		basePath: basePath,
		logger:   logger,
	}

	for _, sub := range subdirectories {
		dir := filepath.Join(basePath, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger.Debug().Str("path", basePath).Msg("File storage opened")
	return m, nil
}

func (m *Manager) HoldingStore() interfaces.HoldingStore         { return m }
func (m *Manager) TransactionStore() interfaces.TransactionStore { return m }

func (m *Manager) Close() error { return nil }

// sanitizeKey makes a username safe for use as a filename. Replaces path
// separators and collapses ".." to prevent traversal.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func (m *Manager) filePath(subdir, username string) string {
	return filepath.Join(m.basePath, subdir, sanitizeKey(username)+".json")
}

// readJSON reads and unmarshals a JSON file. Returns os.ErrNotExist
// untouched so callers can map it to an empty value.
func (m *Manager) readJSON(subdir, username string, dest interface{}) error {
	path := m.filePath(subdir, username)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON marshals data to indented JSON and writes it atomically: temp
// file in the same directory, then rename.
func (m *Manager) writeJSON(subdir, username string, data interface{}) error {
	target := m.filePath(subdir, username)
	dir := filepath.Dir(target)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// LoadHoldings returns the user's holding set, empty for unknown users.
func (m *Manager) LoadHoldings(_ context.Context, username string) (*models.HoldingSet, error) {
	var holdings []models.Holding
	if err := m.readJSON("holdings", username, &holdings); err != nil {
		if os.IsNotExist(err) {
			return models.NewHoldingSet(), nil
		}
		return nil, fmt.Errorf("failed to load holdings for %s: %w", username, err)
	}
	return models.NewHoldingSetFrom(holdings), nil
}

// SaveHoldings replaces the user's holding set on disk.
func (m *Manager) SaveHoldings(_ context.Context, username string, set *models.HoldingSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writeJSON("holdings", username, set.Holdings()); err != nil {
		return fmt.Errorf("failed to save holdings for %s: %w", username, err)
	}
	return nil
}

// AppendTransaction appends one record to the user's log file.
func (m *Manager) AppendTransaction(_ context.Context, record *models.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []models.TransactionRecord
	if err := m.readJSON("transactions", record.Username, &records); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load transaction log for %s: %w", record.Username, err)
	}

	records = append(records, *record)
	if err := m.writeJSON("transactions", record.Username, records); err != nil {
		return fmt.Errorf("failed to save transaction log for %s: %w", record.Username, err)
	}
	return nil
}

// LoadTransactions returns the user's log, newest first.
func (m *Manager) LoadTransactions(_ context.Context, username string) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord
	if err := m.readJSON("transactions", username, &records); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load transaction log for %s: %w", username, err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// Compile-time checks
var (
	_ interfaces.StorageManager   = (*Manager)(nil)
	_ interfaces.HoldingStore     = (*Manager)(nil)
	_ interfaces.TransactionStore = (*Manager)(nil)
)
