// Package catalog loads the global tag and creator catalogs and keeps them
// cached, since they are shared by every item.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/internal/models"
)

const (
	// DefaultTTL is how long a fetched catalog is reused.
	DefaultTTL = 5 * time.Minute

	tagsKey     = "tags"
	creatorsKey = "creators"
)

// Source fetches catalogs from the API.
type Source interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListCreators(ctx context.Context) ([]models.Creator, error)
}

// Loader serves catalogs from cache, fetching from Source on a miss.
type Loader struct {
	src    Source
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates a loader. ttl <= 0 uses DefaultTTL.
func New(src Source, ttl time.Duration, logger *slog.Logger) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		src:    src,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Tags returns the tag catalog. On fetch failure, or a reply without data, it
// returns an empty catalog together with a stale-catalog error; the failure is
// not cached.
func (l *Loader) Tags(ctx context.Context) ([]models.Tag, error) {
	return load(ctx, l, tagsKey, l.src.ListTags)
}

// Creators returns the creator catalog, with the same failure contract as Tags.
func (l *Loader) Creators(ctx context.Context) ([]models.Creator, error) {
	return load(ctx, l, creatorsKey, l.src.ListCreators)
}

// Invalidate drops both cached catalogs so the next read refetches.
func (l *Loader) Invalidate() {
	l.cache.Delete(tagsKey)
	l.cache.Delete(creatorsKey)
}

func load[T any](ctx context.Context, l *Loader, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if x, found := l.cache.Get(key); found {
		return x.([]T), nil
	}

	entries, err := fetch(ctx)
	if err != nil {
		l.logger.Warn("Catalog fetch failed", "catalog", key, "error", err)
		return []T{}, apperrors.Wrapf(err, apperrors.CodeStaleCatalog, "could not load %s: %v", key, err)
	}
	if entries == nil {
		// A null or unparsable body. An empty catalog arrives as [].
		l.logger.Warn("Catalog response had no data", "catalog", key)
		return []T{}, apperrors.Wrapf(nil, apperrors.CodeStaleCatalog, "could not load %s: empty response", key)
	}

	l.cache.Set(key, entries, cache.DefaultExpiration)
	l.logger.Debug("Catalog loaded", "catalog", key, "count", len(entries))
	return entries, nil
}
