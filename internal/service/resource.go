package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stashbox/backend/internal/authctx"
	"github.com/stashbox/backend/internal/db"
	"github.com/stashbox/backend/internal/logging"
)

// ownerFrom returns the user every resource query is scoped to.
func ownerFrom(ctx context.Context) (string, error) {
	id, ok := authctx.IdentityFromContext(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id.UserID, nil
}

// checkID rejects ids that can never exist with the same error as ids that
// do not exist or belong to someone else.
func checkID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %w", kind, ErrNotFound)
	}
	return nil
}

// ParseTags splits a comma separated query value, dropping blanks.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return normalizeTags(strings.Split(raw, ","))
}

// normalizeTags trims every tag and drops blanks and repeats, keeping the
// first occurrence order. The result is never nil.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func storeError(ctx context.Context, log logging.Logger, kind, op string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%s %w", kind, ErrNotFound)
	}
	log.Error(ctx, op+" failed", "error", err)
	return ErrInternal
}
