package dto

import (
	"time"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

// ItemCreateRequest adds a new inventory item.
type ItemCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	AllotmentNo string `json:"allotment_no"`
}

// ItemUpdateRequest mutates an existing item. Nil fields are left untouched.
type ItemUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gte=0"`
	AllotmentNo *string `json:"allotment_no"`
}

// ItemListRequest filters item listings.
type ItemListRequest struct {
	Page        int    `query:"page"`
	PageSize    int    `query:"page_size" validate:"omitempty,max=200"`
	Status      string `query:"status"`
	AllotmentNo string `query:"allotment_no"`
}

// ItemResponse is the API shape of an inventory item.
type ItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	AllotmentNo string    `json:"allotment_no,omitempty"`
	QRCodeURL   string    `json:"qrCodeUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ItemListResponse wraps a page of items.
type ItemListResponse struct {
	Items      []ItemResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewItemResponse maps a persisted item to its API shape.
func NewItemResponse(item models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID.Hex(),
		Name:        item.Name,
		Code:        item.Code,
		Quantity:    item.Quantity,
		Status:      string(item.Status),
		AllotmentNo: item.AllotmentNo,
		QRCodeURL:   item.QRCodeURL,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// NewItemResponseSlice maps a list of items.
func NewItemResponseSlice(items []models.Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewItemResponse(item))
	}
	return responses
}
