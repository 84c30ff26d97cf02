package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
)

// ActivityEntry captures the details required to persist one audit trail entry.
type ActivityEntry struct {
	Action     string
	ActionUser string
	Operation  models.Operation
	// Date defaults to the current time when zero.
	Date time.Time
}

// ActivityRecorder defines behaviour for recording audit trail entries. Other
// services depend on this narrow interface rather than the full service.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService exposes methods to persist and query the audit trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo      repository.ActivityRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewActivityService constructs the audit trail service.
func NewActivityService(repo repository.ActivityRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

// Record validates and persists one entry. Every required field must be
// present and the operation must belong to the fixed set; nothing is silently
// defaulted except the timestamp.
func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	action := strings.TrimSpace(s.sanitizer.Sanitize(entry.Action))
	if action == "" {
		return dto.ActivityResponse{}, fmt.Errorf("%w: action is required", ErrValidation)
	}

	actionUser := strings.TrimSpace(entry.ActionUser)
	if actionUser == "" {
		return dto.ActivityResponse{}, fmt.Errorf("%w: actionUser is required", ErrValidation)
	}

	if !entry.Operation.IsValid() {
		return dto.ActivityResponse{}, fmt.Errorf("%w: unknown operation %q", ErrValidation, entry.Operation)
	}

	date := entry.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	model := models.Activity{
		Action:     action,
		ActionUser: actionUser,
		Operation:  entry.Operation,
		Date:       date,
	}

	if err := s.repo.Insert(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("operation", entry.Operation.String()).Msg("failed to persist activity")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(model), nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	filter := repository.ActivityFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		ActionUser: strings.TrimSpace(req.ActionUser),
	}

	if op := strings.TrimSpace(req.Operation); op != "" {
		operation := models.Operation(strings.ToLower(op))
		if !operation.IsValid() {
			return dto.ActivityListResponse{}, fmt.Errorf("%w: unknown operation %q", ErrValidation, op)
		}
		filter.Operation = operation
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
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

	return dto.ActivityListResponse{Items: responses, Pagination: pagination}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
