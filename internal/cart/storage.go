package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Storage is the durable mirror of the cart: one blob under one key.
type Storage interface {
	// Load reads the persisted lines. A storage that has never been
	// written returns (nil, nil).
	Load() ([]LineItem, error)
	// Save replaces the blob with the given lines.
	Save(items []LineItem) error
}

// FileStorage keeps the cart as a single JSON file, the local-storage
// analog for a process on disk.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() ([]LineItem, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return items, nil
}

// Save writes to a temp file and renames it over the blob, so an
// interrupted write can never leave a half-written file for Load.
func (f *FileStorage) Save(items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// MemoryStorage is an in-memory Storage for tests. SaveErr, when set, is
// returned from Save to exercise persistence-failure paths; SaveCalls
// counts attempts either way.
type MemoryStorage struct {
	mu        sync.Mutex
	items     []LineItem
	SaveErr   error
	SaveCalls int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() ([]LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LineItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryStorage) Save(items []LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.items = make([]LineItem, len(items))
	copy(m.items, items)
	return nil
}
