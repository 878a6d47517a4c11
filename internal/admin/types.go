package admin

import (
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
)

type Error struct {
	Message string `json:"message"`
}

type EnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

type ReorderRequest struct {
	QuestionIDs []string `json:"questionIds"`
}

// ResponseList is one page of responses plus the filtered total.
type ResponseList struct {
	Responses  []rsvp.Response `json:"responses"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}
