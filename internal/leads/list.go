package leads

import (
	"sort"
	"strings"
)

// PerPage is the admin list page size.
const PerPage = 10

// SortOrder orders leads by creation time.
type SortOrder string

const (
	SortNewestFirst SortOrder = "desc"
	SortOldestFirst SortOrder = "asc"
)

// ParseSortOrder accepts "asc"; anything else means newest first.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortOldestFirst)) {
		return SortOldestFirst
	}
	return SortNewestFirst
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortOldestFirst {
		return SortNewestFirst
	}
	return SortOldestFirst
}

// ListFilter narrows and orders the admin lead list.
type ListFilter struct {
	// Query is matched case-insensitively against name and email.
	Query string
	Order SortOrder
}

func (f ListFilter) normalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}

// Matches reports whether lead satisfies the filter's search query.
func (f ListFilter) Matches(lead *Lead) bool {
	q := f.normalizedQuery()
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(lead.Name), q) ||
		strings.Contains(strings.ToLower(lead.Email), q)
}

// Apply filters and sorts leads in memory, returning a new slice.
func (f ListFilter) Apply(leads []*Lead) []*Lead {
	out := make([]*Lead, 0, len(leads))
	for _, lead := range leads {
		if f.Matches(lead) {
			out = append(out, lead)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Order == SortOldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Page is one page of the admin lead list.
type Page struct {
	Leads      []*Lead `json:"leads"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
	Total      int     `json:"total"`
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// Paginate cuts leads into pages of perPage and returns the requested one.
// page is clamped to the valid range.
func Paginate(leads []*Lead, page, perPage int) Page {
	if perPage <= 0 {
		perPage = PerPage
	}
	total := len(leads)
	totalPages := (total + perPage - 1) / perPage
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pageLeads := leads[start:end]
	if len(pageLeads) == 0 {
		pageLeads = []*Lead{}
	}
	return Page{
		Leads:      pageLeads,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Total:      total,
	}
}
