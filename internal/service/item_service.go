package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
)

const qrImageSize = 256

// ItemService manages the inventory item lifecycle. Every state change writes
// a corresponding audit trail entry.
type ItemService interface {
	Add(ctx context.Context, actor string, req dto.ItemCreateRequest) (dto.ItemResponse, error)
	Update(ctx context.Context, actor, id string, req dto.ItemUpdateRequest) (dto.ItemResponse, error)
	Remove(ctx context.Context, actor, id string) error
	Get(ctx context.Context, id string) (dto.ItemResponse, error)
	List(ctx context.Context, req dto.ItemListRequest) (dto.ItemListResponse, error)
	GenerateQR(ctx context.Context, actor, id string) (dto.ItemResponse, error)
}

type itemService struct {
	repo       repository.ItemRepository
	documents  DocumentService
	activities ActivityRecorder
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewItemService constructs the inventory item service.
func NewItemService(
	repo repository.ItemRepository,
	documents DocumentService,
	activities ActivityRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) ItemService {
	return &itemService{
		repo:       repo,
		documents:  documents,
		activities: activities,
		validator:  validate,
		logger:     logger.With().Str("component", "item_service").Logger(),
	}
}

func (s *itemService) Add(ctx context.Context, actor string, req dto.ItemCreateRequest) (dto.ItemResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ItemResponse{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	code := strings.TrimSpace(req.Code)
	if existing, err := s.repo.FindByCode(ctx, code); err == nil && existing != nil {
		return dto.ItemResponse{}, fmt.Errorf("%w: code %q already registered", ErrValidation, code)
	} else if err != nil && !errors.Is(err, repository.ErrNoDocument) {
		return dto.ItemResponse{}, err
	}

	item := models.Item{
		Name:        strings.TrimSpace(req.Name),
		Code:        code,
		Quantity:    req.Quantity,
		Status:      models.ItemStatusInStock,
		AllotmentNo: strings.TrimSpace(req.AllotmentNo),
	}

	if err := s.repo.Insert(ctx, &item); err != nil {
		return dto.ItemResponse{}, err
	}

	s.recordActivity(ctx, actor, models.OperationAdd, fmt.Sprintf("added item %s", item.Code))

	return dto.NewItemResponse(item), nil
}

func (s *itemService) Update(ctx context.Context, actor, id string, req dto.ItemUpdateRequest) (dto.ItemResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ItemResponse{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	item, err := s.find(ctx, id)
	if err != nil {
		return dto.ItemResponse{}, err
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.AllotmentNo != nil {
		item.AllotmentNo = strings.TrimSpace(*req.AllotmentNo)
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return dto.ItemResponse{}, ErrNotFound
		}
		return dto.ItemResponse{}, err
	}

	s.recordActivity(ctx, actor, models.OperationUpdate, fmt.Sprintf("updated item %s", item.Code))

	return dto.NewItemResponse(*item), nil
}

// Remove marks the item removed rather than deleting the document, so the
// audit trail keeps a referent.
func (s *itemService) Remove(ctx context.Context, actor, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	item.Status = models.ItemStatusRemoved
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return ErrNotFound
		}
		return err
	}

	s.recordActivity(ctx, actor, models.OperationRemove, fmt.Sprintf("removed item %s", item.Code))

	return nil
}

func (s *itemService) Get(ctx context.Context, id string) (dto.ItemResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return dto.ItemResponse{}, err
	}
	return dto.NewItemResponse(*item), nil
}

func (s *itemService) List(ctx context.Context, req dto.ItemListRequest) (dto.ItemListResponse, error) {
	filter := repository.ItemFilter{
		Page:        req.Page,
		PageSize:    req.PageSize,
		AllotmentNo: strings.TrimSpace(req.AllotmentNo),
	}

	if status := strings.TrimSpace(req.Status); status != "" {
		itemStatus := models.ItemStatus(strings.ToLower(status))
		if !itemStatus.IsValid() {
			return dto.ItemListResponse{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		filter.Status = itemStatus
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ItemListResponse{}, err
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ItemListResponse{Items: dto.NewItemResponseSlice(items), Pagination: pagination}, nil
}

// GenerateQR renders the item's code as a QR PNG, publishes it through the
// document service and stores the resulting URL on the item.
func (s *itemService) GenerateQR(ctx context.Context, actor, id string) (dto.ItemResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return dto.ItemResponse{}, err
	}

	png, err := qrcode.Encode(item.Code, qrcode.Medium, qrImageSize)
	if err != nil {
		return dto.ItemResponse{}, fmt.Errorf("failed to encode qr image: %w", err)
	}

	upload, err := s.documents.Publish(ctx, fmt.Sprintf("qr-%s.png", item.Code), png)
	if err != nil {
		return dto.ItemResponse{}, fmt.Errorf("qr upload failed: %w", err)
	}

	item.QRCodeURL = upload.URL
	if err := s.repo.Update(ctx, item); err != nil {
		return dto.ItemResponse{}, err
	}

	s.recordActivity(ctx, actor, models.OperationGenerate, fmt.Sprintf("generated qr for item %s", item.Code))

	return dto.NewItemResponse(*item), nil
}

func (s *itemService) find(ctx context.Context, id string) (*models.Item, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item id", ErrValidation)
	}

	item, err := s.repo.FindByID(ctx, objectID)
	if errors.Is(err, repository.ErrNoDocument) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *itemService) recordActivity(ctx context.Context, actor string, operation models.Operation, action string) {
	if _, err := s.activities.Record(ctx, ActivityEntry{
		Action:     action,
		ActionUser: actor,
		Operation:  operation,
	}); err != nil {
		s.logger.Warn().Err(err).Str("operation", operation.String()).Msg("failed to record item activity")
	}
}
