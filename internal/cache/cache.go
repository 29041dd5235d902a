// Package cache implements the content-addressed geometry cache
// spec.md §4.8 describes: built sub-geometry keyed by a structural
// fingerprint of the geometry kind, its parameters, its children's
// fingerprints, and the non-uniform parts of material/transform.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
	"sort"
	"sync"

	"github.com/shapescript-lang/shapescript/internal/geometry"
)

// Fingerprint is a SceneFingerprint (spec.md §4.8): a hash digest
// identifying a sub-tree build up to the excluded uniform-recolour/
// transform overrides.
type Fingerprint string

// Builder accumulates the fields that go into a fingerprint hash in a
// stable order, then produces the digest. Using a builder (rather
// than formatting a string by hand at each call site) keeps field
// order consistent across the whole evaluator.
type Builder struct {
	h hash.Hash
}

func NewBuilder(kind string) *Builder {
	b := &Builder{h: sha256.New()}
	writeString(b.h, kind)
	return b
}

func (b *Builder) Float(f float64) *Builder {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	b.h.Write(buf[:])
	return b
}

func (b *Builder) Int(i int) *Builder {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	b.h.Write(buf[:])
	return b
}

func (b *Builder) String(s string) *Builder {
	writeString(b.h, s)
	return b
}

func (b *Builder) Bool(v bool) *Builder {
	if v {
		b.h.Write([]byte{1})
	} else {
		b.h.Write([]byte{0})
	}
	return b
}

// Child folds a nested fingerprint in, so a parent's fingerprint
// depends on the resolved fingerprints of its children, not on their
// unresolved descriptions (spec.md §4.8).
func (b *Builder) Child(f Fingerprint) *Builder {
	writeString(b.h, string(f))
	return b
}

// Points folds an ordered set of geometry points in, used by paths
// and polygons.
func (b *Builder) Points(pts []geometry.Point) *Builder {
	b.Int(len(pts))
	for _, p := range pts {
		b.Float(p.Position.X).Float(p.Position.Y).Float(p.Position.Z)
		b.Bool(p.IsCurved)
		if p.Color != nil {
			b.Bool(true).Float(p.Color.R).Float(p.Color.G).Float(p.Color.B).Float(p.Color.A)
		} else {
			b.Bool(false)
		}
	}
	return b
}

func (b *Builder) Finish() Fingerprint {
	return Fingerprint(hex.EncodeToString(b.h.Sum(nil)))
}

// writeString length-prefixes s so two concatenations of different
// strings never collide with a single concatenation of their join.
func writeString(h hash.Hash, s string) {
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(s)))
	h.Write(length[:])
	h.Write([]byte(s))
}

// Entry is a cached sub-build.
type Entry struct {
	Mesh            geometry.Mesh
	HasVertexColors bool
}

// Cache is a simple concurrent mapping with no eviction during a
// single program evaluation (spec.md §4.8); its lock makes it safe
// for multiple concurrent program runs sharing the same instance.
type Cache struct {
	mu      sync.RWMutex
	entries map[Fingerprint]Entry
}

func New() *Cache {
	return &Cache{entries: make(map[Fingerprint]Entry)}
}

func (c *Cache) Get(f Fingerprint) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[f]
	return e, ok
}

// Put installs a finished build. Callers that observed cancellation
// mid-build must not call Put (spec.md §5: "an aborted sub-build
// leaves no partial entry").
func (c *Cache) Put(f Fingerprint, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[f] = e
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrBuild runs build() only if f is not already cached. Concurrent
// callers are not folded into a single build: callers racing on a cold
// fingerprint may both build, and the slower of the two simply
// overwrites with an identical result.
func (c *Cache) GetOrBuild(f Fingerprint, build func() (Entry, error)) (Entry, error) {
	if e, ok := c.Get(f); ok {
		return e, nil
	}
	e, err := build()
	if err != nil {
		return Entry{}, err
	}
	c.Put(f, e)
	return e, nil
}

// SortedKeys is a test/debug helper exposing cache contents
// deterministically.
func (c *Cache) SortedKeys() []Fingerprint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]Fingerprint, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
