// Package memory is an in-process implementation of the user, note and
// bookmark stores. It follows the same ownership and search semantics as the
// Postgres store and is used for local runs (STORAGE_BACKEND=memory) and tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stashbox/backend/internal/db"
	"github.com/stashbox/backend/internal/model"
)

type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	users     map[string]model.User
	emails    map[string]string
	notes     map[string]model.Note
	bookmarks map[string]model.Bookmark
}

func New() *Store {
	return &Store{
		now:       time.Now,
		users:     map[string]model.User{},
		emails:    map[string]string{},
		notes:     map[string]model.Note{},
		bookmarks: map[string]model.Bookmark{},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[email]; ok {
		return nil, db.ErrDuplicate
	}
	now := s.now()
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ListNotes(ctx context.Context, ownerID string, filter model.SearchFilter) ([]model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []model.Note{}
	for _, n := range s.notes {
		if n.OwnerID != ownerID || !matches(filter, n.Tags, n.Title, n.Content) {
			continue
		}
		list = append(list, copyNote(n))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (s *Store) GetNote(ctx context.Context, ownerID, id string) (*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, db.ErrNotFound
	}
	n = copyNote(n)
	return &n, nil
}

func (s *Store) CreateNote(ctx context.Context, n model.Note) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.UpdatedAt = now
	n = copyNote(n)
	s.notes[n.ID] = n

	out := copyNote(n)
	return &out, nil
}

func (s *Store) UpdateNote(ctx context.Context, ownerID, id string, req model.UpdateNoteRequest) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, db.ErrNotFound
	}
	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	if req.Tags != nil {
		n.Tags = slices.Clone(*req.Tags)
	}
	if req.IsFavorite != nil {
		n.IsFavorite = *req.IsFavorite
	}
	n.UpdatedAt = s.now()
	s.notes[id] = n

	out := copyNote(n)
	return &out, nil
}

func (s *Store) DeleteNote(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return db.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *Store) ListBookmarks(ctx context.Context, ownerID string, filter model.SearchFilter) ([]model.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []model.Bookmark{}
	for _, b := range s.bookmarks {
		if b.OwnerID != ownerID || !matches(filter, b.Tags, b.Title, b.Description) {
			continue
		}
		list = append(list, copyBookmark(b))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (s *Store) GetBookmark(ctx context.Context, ownerID, id string) (*model.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	if !ok || b.OwnerID != ownerID {
		return nil, db.ErrNotFound
	}
	b = copyBookmark(b)
	return &b, nil
}

func (s *Store) CreateBookmark(ctx context.Context, b model.Bookmark) (*model.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	b = copyBookmark(b)
	s.bookmarks[b.ID] = b

	out := copyBookmark(b)
	return &out, nil
}

func (s *Store) UpdateBookmark(ctx context.Context, ownerID, id string, req model.UpdateBookmarkRequest) (*model.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok || b.OwnerID != ownerID {
		return nil, db.ErrNotFound
	}
	if req.URL != nil {
		b.URL = *req.URL
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.Tags != nil {
		b.Tags = slices.Clone(*req.Tags)
	}
	if req.IsFavorite != nil {
		b.IsFavorite = *req.IsFavorite
	}
	b.UpdatedAt = s.now()
	s.bookmarks[id] = b

	out := copyBookmark(b)
	return &out, nil
}

func (s *Store) DeleteBookmark(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok || b.OwnerID != ownerID {
		return db.ErrNotFound
	}
	delete(s.bookmarks, id)
	return nil
}

// matches mirrors the SQL filter: case-insensitive substring on any text
// field, tag overlap, both required when both are set.
func matches(filter model.SearchFilter, tags []string, fields ...string) bool {
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		found := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Tags) > 0 {
		return slices.ContainsFunc(filter.Tags, func(t string) bool {
			return slices.Contains(tags, t)
		})
	}
	return true
}

func copyNote(n model.Note) model.Note {
	n.Tags = cloneTags(n.Tags)
	return n
}

func copyBookmark(b model.Bookmark) model.Bookmark {
	b.Tags = cloneTags(b.Tags)
	return b
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}
