package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

func newItemService(repo *itemRepoStub, documents DocumentService, recorder *recorderStub) ItemService {
	return NewItemService(repo, documents, recorder, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestItemServiceAddRequiresNameAndCode(t *testing.T) {
	svc := newItemService(&itemRepoStub{}, &documentStub{}, &recorderStub{})

	_, err := svc.Add(context.Background(), "admin", dto.ItemCreateRequest{Name: "Propeller"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(context.Background(), "admin", dto.ItemCreateRequest{Code: "X-100"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestItemServiceAddRejectsDuplicateCode(t *testing.T) {
	repo := &itemRepoStub{items: []models.Item{
		{ID: primitive.NewObjectID(), Name: "Propeller", Code: "X-100", Status: models.ItemStatusInStock},
	}}
	svc := newItemService(repo, &documentStub{}, &recorderStub{})

	_, err := svc.Add(context.Background(), "admin", dto.ItemCreateRequest{Name: "Propeller", Code: "X-100"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestItemServiceAddRecordsActivity(t *testing.T) {
	repo := &itemRepoStub{}
	recorder := &recorderStub{}
	svc := newItemService(repo, &documentStub{}, recorder)

	resp, err := svc.Add(context.Background(), "admin", dto.ItemCreateRequest{Name: "Propeller", Code: "X-100", Quantity: 4, AllotmentNo: "A1"})
	require.NoError(t, err)
	require.Equal(t, string(models.ItemStatusInStock), resp.Status)
	require.Len(t, repo.items, 1)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, models.OperationAdd, recorder.entries[0].Operation)
	require.Equal(t, "admin", recorder.entries[0].ActionUser)
}

func TestItemServiceUpdatePatchesOnlyProvidedFields(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &itemRepoStub{items: []models.Item{
		{ID: id, Name: "Propeller", Code: "X-100", Quantity: 4, Status: models.ItemStatusInStock, AllotmentNo: "A1"},
	}}
	recorder := &recorderStub{}
	svc := newItemService(repo, &documentStub{}, recorder)

	quantity := 9
	resp, err := svc.Update(context.Background(), "admin", id.Hex(), dto.ItemUpdateRequest{Quantity: &quantity})
	require.NoError(t, err)
	require.Equal(t, 9, resp.Quantity)
	require.Equal(t, "Propeller", resp.Name)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, models.OperationUpdate, recorder.entries[0].Operation)
}

func TestItemServiceUpdateUnknownItem(t *testing.T) {
	svc := newItemService(&itemRepoStub{}, &documentStub{}, &recorderStub{})

	_, err := svc.Update(context.Background(), "admin", "not-an-id", dto.ItemUpdateRequest{})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(context.Background(), "admin", primitive.NewObjectID().Hex(), dto.ItemUpdateRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestItemServiceRemoveMarksRemoved(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &itemRepoStub{items: []models.Item{
		{ID: id, Name: "Propeller", Code: "X-100", Status: models.ItemStatusInStock},
	}}
	recorder := &recorderStub{}
	svc := newItemService(repo, &documentStub{}, recorder)

	require.NoError(t, svc.Remove(context.Background(), "admin", id.Hex()))
	require.Equal(t, models.ItemStatusRemoved, repo.items[0].Status)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, models.OperationRemove, recorder.entries[0].Operation)
}

func TestItemServiceListRejectsUnknownStatus(t *testing.T) {
	svc := newItemService(&itemRepoStub{}, &documentStub{}, &recorderStub{})

	_, err := svc.List(context.Background(), dto.ItemListRequest{Status: "lost"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestItemServiceGenerateQRStoresURLAndRecordsActivity(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &itemRepoStub{items: []models.Item{
		{ID: id, Name: "Propeller", Code: "X-100", Status: models.ItemStatusInStock},
	}}
	documents := &documentStub{}
	recorder := &recorderStub{}
	svc := newItemService(repo, documents, recorder)

	resp, err := svc.GenerateQR(context.Background(), "admin", id.Hex())
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/qr-X-100.png", resp.QRCodeURL)
	require.Equal(t, []string{"qr-X-100.png"}, documents.published)
	require.True(t, bytes.HasPrefix(documents.payloads[0], pngHeader))
	require.Equal(t, resp.QRCodeURL, repo.items[0].QRCodeURL)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, models.OperationGenerate, recorder.entries[0].Operation)
}

func TestItemServiceGenerateQRUploadFailure(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &itemRepoStub{items: []models.Item{
		{ID: id, Name: "Propeller", Code: "X-100", Status: models.ItemStatusInStock},
	}}
	svc := newItemService(repo, &documentStub{err: errStub}, &recorderStub{})

	_, err := svc.GenerateQR(context.Background(), "admin", id.Hex())
	require.ErrorIs(t, err, errStub)
	require.Empty(t, repo.items[0].QRCodeURL)
}
