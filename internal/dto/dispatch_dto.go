package dto

import (
	"time"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

// DispatchCreateRequest releases an allotment out of storage.
type DispatchCreateRequest struct {
	AllotmentNo string `json:"allotment_no" validate:"required"`
}

// DispatchResponse is the API shape of a dispatch record.
type DispatchResponse struct {
	ID          string    `json:"id"`
	AllotmentNo string    `json:"allotment_no"`
	PDFURL      string    `json:"pdfUrl"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DispatchListResponse wraps a page of dispatch records.
type DispatchListResponse struct {
	Items      []DispatchResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewDispatchResponse maps a persisted dispatch record to its API shape.
func NewDispatchResponse(record models.Dispatch) DispatchResponse {
	return DispatchResponse{
		ID:          record.ID.Hex(),
		AllotmentNo: record.AllotmentNo,
		PDFURL:      record.PDFURL,
		Date:        record.Date,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
