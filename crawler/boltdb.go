package crawler

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gocolly/colly/v2/storage"
	bolt "go.etcd.io/bbolt"
)

var (
	visitsBucket  = []byte("visits")
	cookiesBucket = []byte("cookies")
)

// SessionStorage persists the fetch session's request and cookie state in
// a local bbolt file, so cookies handed out by the site survive between
// incremental runs.
type SessionStorage struct {
	DBPath string
	db     *bolt.DB
	mu     sync.RWMutex
}

// Init opens the database file, creating parent directories and buckets
// as needed. Must be called before the session is built.
func (s *SessionStorage) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.DBPath), 0755); err != nil {
		return fmt.Errorf("session storage: create dir: %w", err)
	}

	db, err := bolt.Open(s.DBPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("session storage: open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(visitsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(cookiesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("session storage: create buckets: %w", err)
	}

	s.db = db
	return nil
}

func (s *SessionStorage) Visited(requestID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(visitsBucket).Put(requestKey(requestID), []byte("1"))
	})
}

func (s *SessionStorage) IsVisited(requestID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var visited bool
	err := s.db.View(func(tx *bolt.Tx) error {
		visited = tx.Bucket(visitsBucket).Get(requestKey(requestID)) != nil
		return nil
	})
	return visited, err
}

func (s *SessionStorage) Cookies(u *url.URL) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cookies string
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(cookiesBucket).Get([]byte(u.Host)); v != nil {
			cookies = string(v)
		}
		return nil
	})
	return cookies
}

func (s *SessionStorage) SetCookies(u *url.URL, cookies string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cookiesBucket).Put([]byte(u.Host), []byte(cookies))
	})
}

// Close releases the database file at the end of the crawl run.
func (s *SessionStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func requestKey(requestID uint64) []byte {
	return []byte("v:" + strconv.FormatUint(requestID, 10))
}

var _ storage.Storage = (*SessionStorage)(nil)
