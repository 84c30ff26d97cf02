package dto

import (
	"time"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

// ActivityListRequest filters the audit trail listing.
type ActivityListRequest struct {
	Page       int    `query:"page"`
	PageSize   int    `query:"page_size" validate:"omitempty,max=200"`
	Operation  string `query:"operation"`
	ActionUser string `query:"action_user"`
}

// ActivityResponse is the API shape of one audit trail entry.
type ActivityResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ActionUser string    `json:"actionUser"`
	Operation  string    `json:"operation"`
	Date       time.Time `json:"date"`
}

// ActivityListResponse wraps a page of audit trail entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse maps a persisted activity to its API shape.
func NewActivityResponse(entry models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         entry.ID.Hex(),
		Action:     entry.Action,
		ActionUser: entry.ActionUser,
		Operation:  entry.Operation.String(),
		Date:       entry.Date,
	}
}
