package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/observability"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
)

// DispatchService runs the dispatch workflow: manifest generation, upload,
// record keeping and item state transition. The dispatch record is written
// strictly after the upload succeeds, so an existing record always points at a
// real document.
type DispatchService interface {
	Create(ctx context.Context, actor string, req dto.DispatchCreateRequest) (dto.DispatchResponse, error)
	List(ctx context.Context, page, pageSize int) (dto.DispatchListResponse, error)
}

type dispatchService struct {
	dispatches repository.DispatchRepository
	items      repository.ItemRepository
	documents  DocumentService
	activities ActivityRecorder
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewDispatchService constructs the dispatch workflow service.
func NewDispatchService(
	dispatches repository.DispatchRepository,
	items repository.ItemRepository,
	documents DocumentService,
	activities ActivityRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) DispatchService {
	return &dispatchService{
		dispatches: dispatches,
		items:      items,
		documents:  documents,
		activities: activities,
		validator:  validate,
		logger:     logger.With().Str("component", "dispatch_service").Logger(),
		tracer:     otel.Tracer("github.com/Prym-aero/PRYM-IMS-sub001/internal/service/dispatch"),
	}
}

func (s *dispatchService) Create(ctx context.Context, actor string, req dto.DispatchCreateRequest) (dto.DispatchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.DispatchResponse{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	allotmentNo := strings.TrimSpace(req.AllotmentNo)
	if allotmentNo == "" {
		return dto.DispatchResponse{}, fmt.Errorf("%w: allotment_no is required", ErrValidation)
	}

	ctx, span := s.tracer.Start(ctx, "dispatch.create", trace.WithAttributes(
		attribute.String("dispatch.allotment_no", allotmentNo),
	))
	defer span.End()

	items, err := s.items.ListByAllotment(ctx, allotmentNo)
	if err != nil {
		span.RecordError(err)
		return dto.DispatchResponse{}, err
	}
	if len(items) == 0 {
		span.SetStatus(codes.Error, "empty allotment")
		return dto.DispatchResponse{}, ErrEmptyAllotment
	}

	now := time.Now().UTC()
	manifest, err := BuildManifest(allotmentNo, items, now)
	if err != nil {
		span.RecordError(err)
		return dto.DispatchResponse{}, err
	}

	name := fmt.Sprintf("manifest-%s.pdf", allotmentNo)
	upload, err := s.documents.Publish(ctx, name, manifest)
	if err != nil {
		// No record without a durable document.
		observability.DispatchUploads().WithLabelValues("failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return dto.DispatchResponse{}, fmt.Errorf("manifest upload failed: %w", err)
	}
	observability.DispatchUploads().WithLabelValues("ok").Inc()

	record := models.Dispatch{
		AllotmentNo: allotmentNo,
		PDFURL:      upload.URL,
		Date:        now,
	}
	if err := s.dispatches.Insert(ctx, &record); err != nil {
		span.RecordError(err)
		return dto.DispatchResponse{}, err
	}

	if _, err := s.items.MarkDispatched(ctx, allotmentNo); err != nil {
		s.logger.Error().Err(err).Str("allotment_no", allotmentNo).Msg("failed to mark items dispatched")
	}

	if _, err := s.activities.Record(ctx, ActivityEntry{
		Action:     fmt.Sprintf("dispatched allotment %s (%d items)", allotmentNo, len(items)),
		ActionUser: actor,
		Operation:  models.OperationDispatch,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record dispatch activity")
	}

	span.SetStatus(codes.Ok, "dispatched")
	s.logger.Info().Str("allotment_no", allotmentNo).Str("pdf_url", upload.URL).Msg("allotment dispatched")

	return dto.NewDispatchResponse(record), nil
}

func (s *dispatchService) List(ctx context.Context, page, pageSize int) (dto.DispatchListResponse, error) {
	records, total, err := s.dispatches.List(ctx, page, pageSize)
	if err != nil {
		return dto.DispatchListResponse{}, err
	}

	responses := make([]dto.DispatchResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewDispatchResponse(record))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.DispatchListResponse{Items: responses, Pagination: pagination}, nil
}
