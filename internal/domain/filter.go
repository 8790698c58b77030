package domain

import "strings"

// AllSentinel is the UI value meaning "no neighborhood/type constraint".
const AllSentinel = "Todos"

// EstablishmentFilter is the conjunction of the listing constraints.
// Empty strings and nil pointers impose no constraint.
type EstablishmentFilter struct {
	Search       string // case-insensitive substring of name or description
	Neighborhood string // exact match
	Type         string // exact match
	IsOpen       *bool
	ApprovedOnly bool
}

// FilterFromParams interprets raw query values. A nil approvedOnly means the key
// was absent and defaults to true; otherwise only "true" (any case) restricts,
// so an empty value includes unapproved establishments. A non-empty isOpen
// selects open establishments for "true" and closed ones for anything else.
func FilterFromParams(search, neighborhood, typ, isOpen string, approvedOnly *string) EstablishmentFilter {
	f := EstablishmentFilter{
		Search:       strings.TrimSpace(search),
		Neighborhood: exactOrAll(neighborhood),
		Type:         exactOrAll(typ),
		ApprovedOnly: true,
	}
	if approvedOnly != nil {
		f.ApprovedOnly = strings.EqualFold(*approvedOnly, "true")
	}
	if v := strings.TrimSpace(isOpen); v != "" {
		open := strings.EqualFold(v, "true")
		f.IsOpen = &open
	}
	return f
}

// exactOrAll keeps the raw value for exact matching; blank and the sentinel
// impose no constraint.
func exactOrAll(s string) string {
	if strings.TrimSpace(s) == "" || s == AllSentinel {
		return ""
	}
	return s
}

// Matches evaluates the filter against one establishment.
func (f EstablishmentFilter) Matches(e Establishment) bool {
	if f.ApprovedOnly && !e.IsApproved {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Name), q) && !strings.Contains(strings.ToLower(e.Description), q) {
			return false
		}
	}
	if f.Neighborhood != "" && e.Neighborhood != f.Neighborhood {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.IsOpen != nil && e.IsOpen != *f.IsOpen {
		return false
	}
	return true
}
