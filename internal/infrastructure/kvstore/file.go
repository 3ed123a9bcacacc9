package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FileStore keeps every key in one JSON document. Writes go to a temp file that
// is renamed over the document, so a crash never leaves half a session behind.
type FileStore struct {
	mu   sync.Mutex
	fs   billy.Filesystem
	name string
}

// NewFileStore stores the document under dir on the local disk
func NewFileStore(dir, name string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("kvstore: create dir %q: %w", dir, err)
	}
	return NewFileStoreFS(osfs.New(dir), name), nil
}

// NewMemoryStore is a FileStore over an in-memory filesystem
func NewMemoryStore() *FileStore {
	return NewFileStoreFS(memfs.New(), "session.json")
}

// NewFileStoreFS stores the document in an arbitrary billy filesystem
func NewFileStoreFS(fs billy.Filesystem, name string) *FileStore {
	return &FileStore{fs: fs, name: name}
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := doc[key]
	return value, ok, nil
}

func (s *FileStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		doc[k] = v
	}
	return s.write(doc)
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	changed := false
	for _, k := range keys {
		if _, ok := doc[k]; ok {
			delete(doc, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.write(doc)
}

// read loads the document. A missing file is an empty store; a corrupt one is
// treated the same way so a bad write can never lock the user out.
func (s *FileStore) read() (map[string]string, error) {
	data, err := util.ReadFile(s.fs, s.name)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("kvstore: read %q: %w", s.name, err)
	}

	doc := map[string]string{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return map[string]string{}, nil
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("kvstore: encode: %w", err)
	}

	tmp := path.Join(path.Dir(s.name), "."+path.Base(s.name)+".tmp")
	if err := util.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("kvstore: write %q: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.name); err != nil {
		return fmt.Errorf("kvstore: rename %q: %w", tmp, err)
	}
	return nil
}
