package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"quoted/internal/ast"
	"quoted/internal/lexer"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 1

// CacheKey identifies a parsed segment body: sha256 over the parser mode
// and the body bytes.
type CacheKey [32]byte

func KeyFor(body []byte, mode lexer.Mode) CacheKey {
	h := sha256.New()
	_, _ = h.Write([]byte{byte(mode)})
	_, _ = h.Write(body)
	var k CacheKey
	copy(k[:], h.Sum(nil))
	return k
}

func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

// Cache хранит деревья успешно разобранных сегментов на диске:
// msgpack, сжатый zstd, запись через временный файл и rename.
// Ошибки разбора не кэшируются, их спаны зависят от места сегмента в батче.
// Безопасен для конкурентного доступа.
type Cache struct {
	mu  sync.RWMutex
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder

	hits, misses atomic.Int64
}

type cachePayload struct {
	Schema uint16    `msgpack:"schema"`
	RunID  string    `msgpack:"run"`
	Label  string    `msgpack:"label"`
	Stored time.Time `msgpack:"stored"`
	Tree   cacheNode `msgpack:"tree"`
}

// cacheNode: плоское представление ast.Expr для msgpack.
type cacheNode struct {
	K uint8       `msgpack:"k"`
	S string      `msgpack:"s,omitempty"`
	N float64     `msgpack:"n,omitempty"`
	C []cacheNode `msgpack:"c,omitempty"`
}

// DefaultCacheDir is $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenCache opens (creating if needed) a cache rooted at dir.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Join(dir, "trees"), 0o755); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, err
	}
	return &Cache{dir: dir, enc: enc, dec: dec}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key CacheKey) string {
	hexKey := key.String()
	// два символа подкаталогом, чтобы не держать всё в одной директории
	return filepath.Join(c.dir, "trees", hexKey[:2], hexKey+".mpz")
}

// Put serializes expr and writes it under key.
func (c *Cache) Put(key CacheKey, label, runID string, expr ast.Expr) error {
	if c == nil || expr == nil {
		return nil
	}
	data, err := msgpack.Marshal(&cachePayload{
		Schema: cacheSchemaVersion,
		RunID:  runID,
		Label:  label,
		Stored: time.Now().UTC(),
		Tree:   toNode(expr),
	})
	if err != nil {
		return err
	}
	packed := c.enc.EncodeAll(data, nil)

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if _, err := f.Write(packed); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	return nil
}

// Get returns the cached tree for key. A missing entry is (nil, false, nil);
// an entry from another schema version counts as missing.
func (c *Cache) Get(key CacheKey) (ast.Expr, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	packed, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.misses.Add(1)
			return nil, false, nil
		}
		return nil, false, err
	}

	data, err := c.dec.DecodeAll(packed, nil)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if payload.Schema != cacheSchemaVersion {
		c.misses.Add(1)
		return nil, false, nil
	}
	expr, err := fromNode(payload.Tree)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	c.hits.Add(1)
	return expr, true, nil
}

// Stats returns hit and miss counters since OpenCache.
func (c *Cache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

// DropAll removes every entry, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	trees := filepath.Join(c.dir, "trees")
	old := trees + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(trees, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(trees, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// Close releases the zstd coders.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.dec.Close()
	return c.enc.Close()
}

func toNode(e ast.Expr) cacheNode {
	switch v := e.(type) {
	case ast.Tuple:
		return cacheNode{K: uint8(ast.KindTuple), C: toNodes(v.Elems)}
	case ast.List:
		return cacheNode{K: uint8(ast.KindList), C: toNodes(v.Elems)}
	case ast.Defmodule:
		return cacheNode{K: uint8(ast.KindDefmodule), C: toNodes(v.Elems)}
	case ast.Atom:
		return cacheNode{K: uint8(ast.KindAtom), S: v.Name}
	case ast.Binary:
		return cacheNode{K: uint8(ast.KindBinary), S: v.Value}
	case ast.Number:
		return cacheNode{K: uint8(ast.KindNumber), N: v.Value}
	default:
		return cacheNode{}
	}
}

func toNodes(elems []ast.Expr) []cacheNode {
	out := make([]cacheNode, len(elems))
	for i, el := range elems {
		out[i] = toNode(el)
	}
	return out
}

func fromNode(n cacheNode) (ast.Expr, error) {
	switch ast.Kind(n.K) {
	case ast.KindTuple, ast.KindList, ast.KindDefmodule:
		elems := make([]ast.Expr, len(n.C))
		for i, c := range n.C {
			el, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			elems[i] = el
		}
		switch ast.Kind(n.K) {
		case ast.KindTuple:
			return ast.Tuple{Elems: elems}, nil
		case ast.KindList:
			return ast.List{Elems: elems}, nil
		default:
			return ast.Defmodule{Elems: elems}, nil
		}
	case ast.KindAtom:
		return ast.Atom{Name: n.S}, nil
	case ast.KindBinary:
		return ast.Binary{Value: n.S}, nil
	case ast.KindNumber:
		return ast.Number{Value: n.N}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %d", n.K)
	}
}
