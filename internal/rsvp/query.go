package rsvp

import (
	"sort"
	"strings"
)

// Normalize fills in defaults: page 1 and DefaultPageSize, capped at MaxPageSize.
func (q ResponseQuery) Normalize() ResponseQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	} else if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ResponseQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Matches reports whether r passes the attendance and search filters.
func (q ResponseQuery) Matches(r Response) bool {
	if q.Attendance != "" && r.Attendance != q.Attendance {
		return false
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(r.RespondentName), needle) ||
		strings.Contains(strings.ToLower(r.RespondentEmail), needle)
}

// ApplyQuery filters, sorts newest first and paginates an in-memory list.
// The returned total counts filtered responses before pagination.
func ApplyQuery(all []Response, q ResponseQuery) ([]Response, int) {
	q = q.Normalize()

	filtered := make([]Response, 0, len(all))
	for _, r := range all {
		if q.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	SortNewestFirst(filtered)

	total := len(filtered)
	start := q.Offset()
	if start >= total {
		return []Response{}, total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total
}

// SortNewestFirst orders by creation time descending, then by id descending
// so equal timestamps page the same way in every store.
func SortNewestFirst(responses []Response) {
	sort.SliceStable(responses, func(i, j int) bool {
		if !responses[i].CreatedAt.Equal(responses[j].CreatedAt) {
			return responses[i].CreatedAt.After(responses[j].CreatedAt)
		}
		return responses[i].ID > responses[j].ID
	})
}

// SortByOrder sorts questions ascending by their display order.
func SortByOrder(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
}
