package mysql

import (
	"strings"

	"barzinhos/internal/domain"
)

// buildListQuery renders the listing SELECT for f. It mirrors
// domain.EstablishmentFilter.Matches clause for clause.
func buildListQuery(f domain.EstablishmentFilter) (string, []any) {
	var where []string
	var args []any

	if f.ApprovedOnly {
		where = append(where, "e.is_approved = TRUE")
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		where = append(where, "(LOWER(e.name) LIKE ? ESCAPE '!' OR LOWER(COALESCE(e.description, '')) LIKE ? ESCAPE '!')")
		args = append(args, pattern, pattern)
	}
	if f.Neighborhood != "" {
		// BINARY keeps the match exact under case-insensitive collations.
		where = append(where, "e.neighborhood = CAST(? AS BINARY)")
		args = append(args, f.Neighborhood)
	}
	if f.Type != "" {
		where = append(where, "e.type = CAST(? AS BINARY)")
		args = append(args, f.Type)
	}
	if f.IsOpen != nil {
		where = append(where, "e.is_open = ?")
		args = append(args, *f.IsOpen)
	}

	q := listEstablishmentsPrefix
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, "\n  AND ")
	}
	return q + listEstablishmentsSuffix, args
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes user input literal inside a LIKE pattern (escape char '!').
func escapeLike(s string) string { return likeEscaper.Replace(s) }
