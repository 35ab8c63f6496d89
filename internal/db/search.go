package db

import (
	"fmt"
	"strings"

	"github.com/stashbox/backend/internal/model"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// listQuery builds an owner-scoped SELECT. The owner predicate is always the
// first condition; the text filter matches any of textColumns and the tag
// filter matches on overlap. Both filters must hold when both are set.
func listQuery(selectFrom, ownerID string, filter model.SearchFilter, textColumns []string, orderBy string) (string, []any) {
	var b strings.Builder
	args := []any{ownerID}

	b.WriteString(selectFrom)
	b.WriteString(" WHERE user_id = $1")

	if q := strings.TrimSpace(filter.Query); q != "" && len(textColumns) > 0 {
		args = append(args, "%"+escapeLike(q)+"%")
		conds := make([]string, len(textColumns))
		for i, col := range textColumns {
			conds[i] = fmt.Sprintf("%s ILIKE $%d", col, len(args))
		}
		b.WriteString(" AND (" + strings.Join(conds, " OR ") + ")")
	}

	if len(filter.Tags) > 0 {
		args = append(args, filter.Tags)
		fmt.Fprintf(&b, " AND tags && $%d", len(args))
	}

	if orderBy != "" {
		b.WriteString(" ORDER BY " + orderBy)
	}
	return b.String(), args
}
