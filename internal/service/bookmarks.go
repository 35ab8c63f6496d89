package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/model"
)

type BookmarkStore interface {
	ListBookmarks(ctx context.Context, ownerID string, filter model.SearchFilter) ([]model.Bookmark, error)
	GetBookmark(ctx context.Context, ownerID, id string) (*model.Bookmark, error)
	CreateBookmark(ctx context.Context, b model.Bookmark) (*model.Bookmark, error)
	UpdateBookmark(ctx context.Context, ownerID, id string, req model.UpdateBookmarkRequest) (*model.Bookmark, error)
	DeleteBookmark(ctx context.Context, ownerID, id string) error
}

// MetadataFetcher looks up the title and description of a web page.
type MetadataFetcher interface {
	Fetch(ctx context.Context, pageURL string) (model.PageMetadata, error)
}

type BookmarkService struct {
	repo    BookmarkStore
	fetcher MetadataFetcher
	log     logging.Logger
}

// NewBookmarkService wires the bookmark operations. fetcher may be nil, in
// which case untitled bookmarks are named after their URL.
func NewBookmarkService(repo BookmarkStore, fetcher MetadataFetcher, log logging.Logger) *BookmarkService {
	return &BookmarkService{repo: repo, fetcher: fetcher, log: log.With("component", "bookmarks")}
}

func (s *BookmarkService) List(ctx context.Context, filter model.SearchFilter) ([]model.Bookmark, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	filter.Query = strings.TrimSpace(filter.Query)
	filter.Tags = normalizeTags(filter.Tags)

	list, err := s.repo.ListBookmarks(ctx, owner, filter)
	if err != nil {
		return nil, storeError(ctx, s.log, "bookmark", "list bookmarks", err)
	}
	if list == nil {
		list = []model.Bookmark{}
	}
	return list, nil
}

func (s *BookmarkService) Get(ctx context.Context, id string) (*model.Bookmark, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkID("bookmark", id); err != nil {
		return nil, err
	}

	b, err := s.repo.GetBookmark(ctx, owner, id)
	if err != nil {
		return nil, storeError(ctx, s.log, "bookmark", "get bookmark", err)
	}
	return b, nil
}

func (s *BookmarkService) Create(ctx context.Context, req model.CreateBookmarkRequest) (*model.Bookmark, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	pageURL, err := validateURL(req.URL)
	if err != nil {
		return nil, err
	}

	b := model.Bookmark{
		URL:         pageURL,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Tags:        normalizeTags(req.Tags),
		OwnerID:     owner,
	}
	if b.Title == "" {
		s.fillFromPage(ctx, &b)
	}

	created, err := s.repo.CreateBookmark(ctx, b)
	if err != nil {
		return nil, storeError(ctx, s.log, "bookmark", "create bookmark", err)
	}
	return created, nil
}

func (s *BookmarkService) Update(ctx context.Context, id string, req model.UpdateBookmarkRequest) (*model.Bookmark, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkID("bookmark", id); err != nil {
		return nil, err
	}

	if req.URL != nil {
		pageURL, err := validateURL(*req.URL)
		if err != nil {
			return nil, err
		}
		req.URL = &pageURL
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		req.Title = &title
	}
	if req.Tags != nil {
		tags := normalizeTags(*req.Tags)
		req.Tags = &tags
	}

	b, err := s.repo.UpdateBookmark(ctx, owner, id, req)
	if err != nil {
		return nil, storeError(ctx, s.log, "bookmark", "update bookmark", err)
	}
	return b, nil
}

func (s *BookmarkService) Delete(ctx context.Context, id string) error {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return err
	}
	if err := checkID("bookmark", id); err != nil {
		return err
	}

	if err := s.repo.DeleteBookmark(ctx, owner, id); err != nil {
		return storeError(ctx, s.log, "bookmark", "delete bookmark", err)
	}
	return nil
}

// fillFromPage sets the title, and the description when empty, from the
// bookmarked page. Any failure leaves the URL as the title.
func (s *BookmarkService) fillFromPage(ctx context.Context, b *model.Bookmark) {
	b.Title = b.URL
	if s.fetcher == nil {
		return
	}

	meta, err := s.fetcher.Fetch(ctx, b.URL)
	if err != nil {
		s.log.Warn(ctx, "fetch page metadata failed", "url", b.URL, "error", err)
		return
	}
	if title := strings.TrimSpace(meta.Title); title != "" {
		b.Title = title
	}
	if b.Description == "" {
		b.Description = strings.TrimSpace(meta.Description)
	}
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", ErrValidation)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: url must be an absolute http(s) URL", ErrValidation)
	}
	return raw, nil
}
