package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// recorderStub captures audit trail entries without persisting anything.
type recorderStub struct {
	entries []ActivityEntry
	err     error
}

func (r *recorderStub) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	if r.err != nil {
		return dto.ActivityResponse{}, r.err
	}
	r.entries = append(r.entries, entry)
	return dto.ActivityResponse{Action: entry.Action, ActionUser: entry.ActionUser, Operation: entry.Operation.String()}, nil
}

// itemRepoStub keeps items in a slice; lookups mirror repository semantics.
type itemRepoStub struct {
	items      []models.Item
	updated    []models.Item
	dispatched []string
	err        error
}

func (r *itemRepoStub) Insert(ctx context.Context, item *models.Item) error {
	if r.err != nil {
		return r.err
	}
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *itemRepoStub) Update(ctx context.Context, item *models.Item) error {
	if r.err != nil {
		return r.err
	}
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = *item
			r.updated = append(r.updated, *item)
			return nil
		}
	}
	return repository.ErrNoDocument
}

func (r *itemRepoStub) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.items {
		if r.items[i].ID == id {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNoDocument
}

func (r *itemRepoStub) FindByCode(ctx context.Context, code string) (*models.Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.items {
		if r.items[i].Code == code {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNoDocument
}

func (r *itemRepoStub) List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	filtered := make([]models.Item, 0, len(r.items))
	for _, item := range r.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.AllotmentNo != "" && item.AllotmentNo != filter.AllotmentNo {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, int64(len(filtered)), nil
}

func (r *itemRepoStub) ListByAllotment(ctx context.Context, allotmentNo string) ([]models.Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	matched := make([]models.Item, 0)
	for _, item := range r.items {
		if item.AllotmentNo == allotmentNo && item.Status == models.ItemStatusInStock {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *itemRepoStub) MarkDispatched(ctx context.Context, allotmentNo string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.dispatched = append(r.dispatched, allotmentNo)
	var count int64
	for i := range r.items {
		if r.items[i].AllotmentNo == allotmentNo && r.items[i].Status == models.ItemStatusInStock {
			r.items[i].Status = models.ItemStatusDispatched
			count++
		}
	}
	return count, nil
}

// documentStub stands in for the document service during workflow tests.
type documentStub struct {
	published []string
	payloads  [][]byte
	url       string
	err       error
}

func (d *documentStub) Publish(ctx context.Context, name string, payload []byte) (dto.UploadResponse, error) {
	if d.err != nil {
		return dto.UploadResponse{}, d.err
	}
	d.published = append(d.published, name)
	d.payloads = append(d.payloads, payload)
	url := d.url
	if url == "" {
		url = "https://cdn.example.com/" + name
	}
	return dto.UploadResponse{URL: url, FileName: name, SizeBytes: int64(len(payload))}, nil
}

// storageStub is a FileStorage that remembers the last upload.
type storageStub struct {
	name string
	size int64
	url  string
	err  error
}

func (s *storageStub) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	n, err := io.Copy(io.Discard, reader)
	if err != nil {
		return "", err
	}
	s.name = name
	s.size = n
	if s.url != "" {
		return s.url, nil
	}
	return "https://cdn.example.com/" + name, nil
}

var errStub = errors.New("stub failure")
