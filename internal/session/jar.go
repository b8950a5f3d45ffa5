package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/jimlawless/whereami"
	bolt "go.etcd.io/bbolt"
)

var cookiesBucket = []byte("cookies")

// StoredCookie — сохранённое значение cookie со сроком жизни.
type StoredCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// Jar хранит cookie между перезапусками процесса.
type Jar interface {
	Load(name string) (*StoredCookie, error) // nil, nil: cookie нет
	Save(c StoredCookie) error
	Delete(name string) error
}

// BoltJar хранит cookie в файле bbolt.
type BoltJar struct {
	db *bolt.DB
}

// OpenBoltJar открывает (или создаёт) файл хранилища.
func OpenBoltJar(path string) (*BoltJar, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cookiesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &BoltJar{db: db}, nil
}

func (j *BoltJar) Load(name string) (*StoredCookie, error) {
	var raw []byte
	err := j.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(cookiesBucket).Get([]byte(name)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if raw == nil {
		return nil, nil
	}

	var c StoredCookie
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	return &c, nil
}

func (j *BoltJar) Save(c StoredCookie) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	err = j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cookiesBucket).Put([]byte(c.Name), raw)
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (j *BoltJar) Delete(name string) error {
	err := j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cookiesBucket).Delete([]byte(name))
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (j *BoltJar) Close() error {
	return j.db.Close()
}

// MemoryJar — Jar без персистентности, для тестов и запуска без файла.
type MemoryJar struct {
	mu      sync.Mutex
	cookies map[string]StoredCookie
}

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{cookies: make(map[string]StoredCookie)}
}

func (j *MemoryJar) Load(name string) (*StoredCookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	c, ok := j.cookies[name]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (j *MemoryJar) Save(c StoredCookie) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[c.Name] = c
	return nil
}

func (j *MemoryJar) Delete(name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, name)
	return nil
}
