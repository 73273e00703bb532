// Package assets fingerprints static files so templates can emit cache-busting URLs.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
)

const (
	urlPrefix  = "/static/"
	hashLength = 10
)

// AssetResolver maps logical asset names (e.g. "css/site.css") to
// "/static/css/site.css?v=<hash>" URLs. Hashes are computed once per file
// unless the resolver runs in dev mode.
type AssetResolver struct {
	fsys   fs.FS
	dev    bool
	logger *slog.Logger

	mu     sync.RWMutex
	hashes map[string]string
}

// ResolverOptions configures an AssetResolver.
type ResolverOptions struct {
	// FS is rooted at the static directory.
	FS      fs.FS
	DevMode bool
	Logger  *slog.Logger
}

// NewAssetResolver builds a resolver over opts.FS.
func NewAssetResolver(opts ResolverOptions) *AssetResolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetResolver{
		fsys:   opts.FS,
		dev:    opts.DevMode,
		logger: logger.With("component", "asset_resolver"),
		hashes: make(map[string]string),
	}
}

// Resolve returns the public URL of logicalName with a content fingerprint.
// Missing files resolve to the plain path.
func (ar *AssetResolver) Resolve(logicalName string) string {
	name := strings.TrimPrefix(path.Clean("/"+logicalName), "/")
	plain := urlPrefix + name
	if ar == nil || ar.fsys == nil {
		return plain
	}

	if !ar.dev {
		ar.mu.RLock()
		h, ok := ar.hashes[name]
		ar.mu.RUnlock()
		if ok {
			return withVersion(plain, h)
		}
	}

	h, err := ar.hash(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			ar.logger.Warn("fingerprint asset", "asset", name, "error", err)
		}
		return plain
	}

	if !ar.dev {
		ar.mu.Lock()
		ar.hashes[name] = h
		ar.mu.Unlock()
	}
	return withVersion(plain, h)
}

func (ar *AssetResolver) hash(name string) (string, error) {
	data, err := fs.ReadFile(ar.fsys, name)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:hashLength], nil
}

func withVersion(p, h string) string {
	if h == "" {
		return p
	}
	return p + "?v=" + h
}
