// Package linkstore tracks published key images across signatures. The same
// private key always yields the same key image, so an image showing up twice
// means the key signed twice (double-spend, double-vote). The signing and
// verification core stays pure; callers compose a Store next to it.
package linkstore

import (
	"sync"

	"github.com/dolthub/swiss"

	"git.gammaspectra.live/P2Pool/clsag/crypto"
)

// Store records key images and answers whether one has been seen before.
// Record must be atomic per image: two concurrent Record calls with the same
// image must not both report it fresh.
type Store interface {
	Seen(image crypto.PublicKeyBytes) bool
	// Record inserts image, reporting false if it was already present.
	Record(image crypto.PublicKeyBytes) bool
}

type MemoryStore struct {
	lock sync.Mutex
	m    *swiss.Map[crypto.PublicKeyBytes, struct{}]
}

func NewMemoryStore(capacity uint32) *MemoryStore {
	return &MemoryStore{
		m: swiss.NewMap[crypto.PublicKeyBytes, struct{}](capacity),
	}
}

func (s *MemoryStore) Seen(image crypto.PublicKeyBytes) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m.Has(image)
}

func (s *MemoryStore) Record(image crypto.PublicKeyBytes) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.m.Has(image) {
		return false
	}
	s.m.Put(image, struct{}{})
	return true
}

func (s *MemoryStore) Count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m.Count()
}

var _ Store = (*MemoryStore)(nil)

// RecordAll records every image of one signature, stopping at the first image
// already present. ok is false on reuse, with reused naming the image.
func RecordAll(store Store, images []crypto.PublicKeyBytes) (reused crypto.PublicKeyBytes, ok bool) {
	for _, image := range images {
		if !store.Record(image) {
			return image, false
		}
	}
	return crypto.ZeroPublicKeyBytes, true
}
