// Package store persists published catalog snapshots in a bbolt file so a
// restarted server can warm its cache before the first rebuild.
package store

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/inkchain/storecatalog/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var snapshotBucket = []byte("snapshots")

// Snapshot is one published catalog build
type Snapshot struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"createdAt"`
	Catalog   domain.Catalog        `json:"catalog"`
	Rates     domain.RateSheet      `json:"rates"`
	Sources   []domain.SourceStatus `json:"sources"`
}

// SnapshotMeta is a snapshot listing entry
type SnapshotMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Products  int       `json:"products"`
}

// SnapshotStore keeps the most recent snapshots keyed by snowflake id
type SnapshotStore struct {
	db        *bolt.DB
	node      *snowflake.Node
	retention int
}

// Open opens or creates the snapshot database at path
func Open(path string, nodeID int64, retention int) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create snapshot dir")
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "snowflake node")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create snapshot bucket")
	}
	if retention < 1 {
		retention = 1
	}
	return &SnapshotStore{db: db, node: node, retention: retention}, nil
}

// Close closes the database
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// NextID returns a fresh time-ordered id
func (s *SnapshotStore) NextID() snowflake.ID {
	return s.node.Generate()
}

func key(id snowflake.ID) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id.Int64()))
	return b
}

// Save stores snap under a new id, prunes old entries and returns the id
func (s *SnapshotStore) Save(snap *Snapshot) (string, error) {
	id := s.NextID()
	snap.ID = id.String()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", errors.Wrap(err, "encode snapshot")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotBucket)
		if err := b.Put(key(id), data); err != nil {
			return err
		}
		return prune(b, s.retention)
	})
	if err != nil {
		return "", errors.Wrap(err, "save snapshot")
	}
	return snap.ID, nil
}

func prune(b *bolt.Bucket, keep int) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	if len(keys) <= keep {
		return nil
	}
	for _, k := range keys[:len(keys)-keep] {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Latest returns the newest snapshot, or nil when the store is empty
func (s *SnapshotStore) Latest() (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket(snapshotBucket).Cursor().Last()
		if k == nil {
			return nil
		}
		snap = new(Snapshot)
		return json.Unmarshal(v, snap)
	})
	if err != nil {
		return nil, errors.Wrap(err, "read latest snapshot")
	}
	return snap, nil
}

// Get returns the snapshot with the given id, or nil when absent
func (s *SnapshotStore) Get(id string) (*Snapshot, error) {
	sid, err := snowflake.ParseString(id)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot id %q", id)
	}
	var snap *Snapshot
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(snapshotBucket).Get(key(sid))
		if v == nil {
			return nil
		}
		snap = new(Snapshot)
		return json.Unmarshal(v, snap)
	})
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	return snap, nil
}

// List returns up to limit snapshots, newest first
func (s *SnapshotStore) List(limit int) ([]SnapshotMeta, error) {
	out := []SnapshotMeta{}
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(snapshotBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var snap Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return err
			}
			out = append(out, SnapshotMeta{ID: snap.ID, CreatedAt: snap.CreatedAt, Products: len(snap.Catalog.Products)})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list snapshots")
	}
	return out, nil
}
