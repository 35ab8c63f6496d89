package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stashbox/backend/internal/db/memory"
	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	meta  model.PageMetadata
	err   error
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, pageURL string) (model.PageMetadata, error) {
	f.calls = append(f.calls, pageURL)
	return f.meta, f.err
}

func TestBookmarkCreateFetchesTitle(t *testing.T) {
	fetcher := &stubFetcher{meta: model.PageMetadata{Title: "Example Domain", Description: "An example page"}}
	svc := NewBookmarkService(memory.New(), fetcher, logging.Discard())

	b, err := svc.Create(as("alice"), model.CreateBookmarkRequest{URL: "https://example.com"})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com"}, fetcher.calls)
	assert.Equal(t, "Example Domain", b.Title)
	assert.Equal(t, "An example page", b.Description)
	assert.Equal(t, "alice", b.OwnerID)
}

func TestBookmarkCreateKeepsGivenTitle(t *testing.T) {
	fetcher := &stubFetcher{meta: model.PageMetadata{Title: "ignored"}}
	svc := NewBookmarkService(memory.New(), fetcher, logging.Discard())

	b, err := svc.Create(as("alice"), model.CreateBookmarkRequest{URL: "https://example.com", Title: "Mine", Description: "d"})
	require.NoError(t, err)

	assert.Empty(t, fetcher.calls)
	assert.Equal(t, "Mine", b.Title)
	assert.Equal(t, "d", b.Description)
}

func TestBookmarkCreateFallsBackToURL(t *testing.T) {
	tests := []struct {
		name    string
		fetcher MetadataFetcher
	}{
		{name: "no fetcher", fetcher: nil},
		{name: "fetch error", fetcher: &stubFetcher{err: errors.New("timeout")}},
		{name: "empty title", fetcher: &stubFetcher{meta: model.PageMetadata{Title: "  "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewBookmarkService(memory.New(), tt.fetcher, logging.Discard())

			b, err := svc.Create(as("alice"), model.CreateBookmarkRequest{URL: "http://example.org/page"})
			require.NoError(t, err)
			assert.Equal(t, "http://example.org/page", b.Title)
		})
	}
}

func TestBookmarkURLValidation(t *testing.T) {
	svc := NewBookmarkService(memory.New(), nil, logging.Discard())

	for _, raw := range []string{"", "  ", "example.com", "/relative", "ftp://example.com", "https://"} {
		_, err := svc.Create(as("alice"), model.CreateBookmarkRequest{URL: raw})
		assert.ErrorIs(t, err, ErrValidation, raw)
	}

	b, err := svc.Create(as("alice"), model.CreateBookmarkRequest{URL: "https://ok.test", Title: "t"})
	require.NoError(t, err)
	_, err = svc.Update(as("alice"), b.ID, model.UpdateBookmarkRequest{URL: ptr("nope")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookmarkOwnershipIsolation(t *testing.T) {
	svc := NewBookmarkService(memory.New(), nil, logging.Discard())

	b, err := svc.Create(as("alice"), model.CreateBookmarkRequest{URL: "https://a.test", Title: "a"})
	require.NoError(t, err)

	bob := as("bob")
	_, err = svc.Get(bob, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(bob, b.ID, model.UpdateBookmarkRequest{IsFavorite: ptr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(bob, b.ID), ErrNotFound)

	got, err := svc.Get(as("alice"), b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFavorite)
}

func TestBookmarkUpdateAndDelete(t *testing.T) {
	svc := NewBookmarkService(memory.New(), nil, logging.Discard())
	ctx := as("alice")

	b, err := svc.Create(ctx, model.CreateBookmarkRequest{URL: "https://a.test", Title: "a", Tags: []string{"read"}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, b.ID, model.UpdateBookmarkRequest{
		URL:        ptr(" https://b.test "),
		IsFavorite: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://b.test", updated.URL)
	assert.Equal(t, "a", updated.Title)
	assert.True(t, updated.IsFavorite)
	assert.Equal(t, []string{"read"}, updated.Tags)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), ErrNotFound)
	_, err = svc.Get(ctx, "bogus")
	assert.EqualError(t, err, "bookmark not found")
}

func TestBookmarkSearch(t *testing.T) {
	svc := NewBookmarkService(memory.New(), nil, logging.Discard())
	ctx := as("alice")

	_, err := svc.Create(ctx, model.CreateBookmarkRequest{URL: "https://go.dev", Title: "The Go site", Tags: []string{"go"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.CreateBookmarkRequest{URL: "https://news.test", Title: "News", Description: "daily GOSSIP"})
	require.NoError(t, err)

	list, err := svc.List(ctx, model.SearchFilter{Query: "go"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.List(ctx, model.SearchFilter{Tags: []string{"go"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://go.dev", list[0].URL)

	list, err = svc.List(as("bob"), model.SearchFilter{})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
