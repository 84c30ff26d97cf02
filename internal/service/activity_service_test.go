package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
)

type activityRepoStub struct {
	entries []models.Activity
	err     error
}

func (r *activityRepoStub) Insert(ctx context.Context, entry *models.Activity) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *activityRepoStub) List(ctx context.Context, filter repository.ActivityFilter) ([]models.Activity, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	filtered := make([]models.Activity, 0, len(r.entries))
	for _, entry := range r.entries {
		if filter.Operation != "" && entry.Operation != filter.Operation {
			continue
		}
		if filter.ActionUser != "" && entry.ActionUser != filter.ActionUser {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered, int64(len(filtered)), nil
}

func TestActivityServiceRecordRejectsIncompleteEntries(t *testing.T) {
	svc := NewActivityService(&activityRepoStub{}, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{ActionUser: "admin", Operation: models.OperationAdd})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Record(context.Background(), ActivityEntry{Action: "added item", Operation: models.OperationAdd})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Record(context.Background(), ActivityEntry{Action: "added item", ActionUser: "admin", Operation: "ship"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestActivityServiceRecordDefaultsDate(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, testLogger())

	resp, err := svc.Record(context.Background(), ActivityEntry{
		Action:     "added item X-100",
		ActionUser: "admin",
		Operation:  models.OperationAdd,
	})
	require.NoError(t, err)
	require.False(t, resp.Date.IsZero())
	require.Len(t, repo.entries, 1)
	require.WithinDuration(t, time.Now().UTC(), repo.entries[0].Date, 5*time.Second)
}

func TestActivityServiceRecordSanitizesAction(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{
		Action:     `<script>alert(1)</script>added item`,
		ActionUser: "admin",
		Operation:  models.OperationAdd,
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	require.NotContains(t, repo.entries[0].Action, "<script>")
	require.Contains(t, repo.entries[0].Action, "added item")
}

func TestActivityServiceListRejectsUnknownOperation(t *testing.T) {
	svc := NewActivityService(&activityRepoStub{}, testLogger())

	_, err := svc.List(context.Background(), dto.ActivityListRequest{Operation: "teleport"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestActivityServiceListFilters(t *testing.T) {
	repo := &activityRepoStub{entries: []models.Activity{
		{Action: "added item A", ActionUser: "admin", Operation: models.OperationAdd, Date: time.Now()},
		{Action: "scanned code B", ActionUser: "scanner", Operation: models.OperationScan, Date: time.Now()},
	}}
	svc := NewActivityService(repo, testLogger())

	resp, err := svc.List(context.Background(), dto.ActivityListRequest{Page: 1, PageSize: 10, Operation: "scan"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "scan", resp.Items[0].Operation)
	require.Equal(t, int64(1), resp.Pagination.TotalItems)
	require.Equal(t, 1, resp.Pagination.TotalPages)
}
