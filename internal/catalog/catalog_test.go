package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/pkg/logging"
)

type fakeSource struct {
	tags        []models.Tag
	creators    []models.Creator
	tagErr      error
	creatorErr  error
	tagCalls    int
	creatorCall int
}

func (f *fakeSource) ListTags(context.Context) ([]models.Tag, error) {
	f.tagCalls++
	return f.tags, f.tagErr
}

func (f *fakeSource) ListCreators(context.Context) ([]models.Creator, error) {
	f.creatorCall++
	return f.creators, f.creatorErr
}

func TestLoaderCachesCatalogs(t *testing.T) {
	src := &fakeSource{
		tags:     []models.Tag{{ID: 1, Name: "RPG"}},
		creators: []models.Creator{{ID: 1, Name: "CD Projekt Red"}},
	}
	l := New(src, 0, logging.Discard())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tags, err := l.Tags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 1)

		creators, err := l.Creators(ctx)
		require.NoError(t, err)
		assert.Len(t, creators, 1)
	}

	assert.Equal(t, 1, src.tagCalls)
	assert.Equal(t, 1, src.creatorCall)
}

func TestLoaderInvalidate(t *testing.T) {
	src := &fakeSource{tags: []models.Tag{{ID: 1, Name: "RPG"}}}
	l := New(src, 0, logging.Discard())
	ctx := context.Background()

	_, _ = l.Tags(ctx)
	l.Invalidate()
	_, _ = l.Tags(ctx)

	assert.Equal(t, 2, src.tagCalls)
}

func TestLoaderFailureDegradesToEmpty(t *testing.T) {
	src := &fakeSource{tagErr: errors.New("connection refused")}
	l := New(src, 0, logging.Discard())
	ctx := context.Background()

	tags, err := l.Tags(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrStaleCatalog))
	assert.NotNil(t, tags)
	assert.Empty(t, tags)

	// Failures are not cached: the next read retries.
	src.tagErr = nil
	src.tags = []models.Tag{{ID: 4, Name: "Fantasy"}}
	tags, err = l.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{{ID: 4, Name: "Fantasy"}}, tags)
	assert.Equal(t, 2, src.tagCalls)
}

func TestLoaderNilCatalogIsStale(t *testing.T) {
	src := &fakeSource{}
	l := New(src, 0, logging.Discard())
	ctx := context.Background()

	creators, err := l.Creators(ctx)
	assert.Equal(t, apperrors.CodeStaleCatalog, apperrors.CodeOf(err))
	assert.NotNil(t, creators)
	assert.Empty(t, creators)

	// Not cached: the next read asks again and picks up the real catalog.
	src.creators = []models.Creator{{ID: 2, Name: "Robert Jordan"}}
	creators, err = l.Creators(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Creator{{ID: 2, Name: "Robert Jordan"}}, creators)
	assert.Equal(t, 2, src.creatorCall)
}

func TestLoaderEmptyCatalogIsCached(t *testing.T) {
	src := &fakeSource{tags: []models.Tag{}}
	l := New(src, 0, logging.Discard())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		tags, err := l.Tags(ctx)
		require.NoError(t, err)
		assert.Empty(t, tags)
	}
	assert.Equal(t, 1, src.tagCalls)
}
