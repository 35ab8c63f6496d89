package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/model"
)

type NoteStore interface {
	ListNotes(ctx context.Context, ownerID string, filter model.SearchFilter) ([]model.Note, error)
	GetNote(ctx context.Context, ownerID, id string) (*model.Note, error)
	CreateNote(ctx context.Context, n model.Note) (*model.Note, error)
	UpdateNote(ctx context.Context, ownerID, id string, req model.UpdateNoteRequest) (*model.Note, error)
	DeleteNote(ctx context.Context, ownerID, id string) error
}

// NoteService scopes every note operation to the caller in ctx.
type NoteService struct {
	repo NoteStore
	log  logging.Logger
}

func NewNoteService(repo NoteStore, log logging.Logger) *NoteService {
	return &NoteService{repo: repo, log: log.With("component", "notes")}
}

func (s *NoteService) List(ctx context.Context, filter model.SearchFilter) ([]model.Note, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	filter.Query = strings.TrimSpace(filter.Query)
	filter.Tags = normalizeTags(filter.Tags)

	notes, err := s.repo.ListNotes(ctx, owner, filter)
	if err != nil {
		return nil, storeError(ctx, s.log, "note", "list notes", err)
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, id string) (*model.Note, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkID("note", id); err != nil {
		return nil, err
	}

	n, err := s.repo.GetNote(ctx, owner, id)
	if err != nil {
		return nil, storeError(ctx, s.log, "note", "get note", err)
	}
	return n, nil
}

func (s *NoteService) Create(ctx context.Context, req model.CreateNoteRequest) (*model.Note, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	n, err := s.repo.CreateNote(ctx, model.Note{
		Title:   title,
		Content: req.Content,
		Tags:    normalizeTags(req.Tags),
		OwnerID: owner,
	})
	if err != nil {
		return nil, storeError(ctx, s.log, "note", "create note", err)
	}
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, id string, req model.UpdateNoteRequest) (*model.Note, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkID("note", id); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		req.Title = &title
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}
	if req.Tags != nil {
		tags := normalizeTags(*req.Tags)
		req.Tags = &tags
	}

	n, err := s.repo.UpdateNote(ctx, owner, id, req)
	if err != nil {
		return nil, storeError(ctx, s.log, "note", "update note", err)
	}
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return err
	}
	if err := checkID("note", id); err != nil {
		return err
	}

	if err := s.repo.DeleteNote(ctx, owner, id); err != nil {
		return storeError(ctx, s.log, "note", "delete note", err)
	}
	return nil
}
