package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/service"
)

type itemServiceStub struct {
	item dto.ItemResponse
	err  error
}

func (s *itemServiceStub) Add(ctx context.Context, actor string, req dto.ItemCreateRequest) (dto.ItemResponse, error) {
	if s.err != nil {
		return dto.ItemResponse{}, s.err
	}
	return s.item, nil
}

func (s *itemServiceStub) Update(ctx context.Context, actor, id string, req dto.ItemUpdateRequest) (dto.ItemResponse, error) {
	if s.err != nil {
		return dto.ItemResponse{}, s.err
	}
	return s.item, nil
}

func (s *itemServiceStub) Remove(ctx context.Context, actor, id string) error {
	return s.err
}

func (s *itemServiceStub) Get(ctx context.Context, id string) (dto.ItemResponse, error) {
	if s.err != nil {
		return dto.ItemResponse{}, s.err
	}
	return s.item, nil
}

func (s *itemServiceStub) List(ctx context.Context, req dto.ItemListRequest) (dto.ItemListResponse, error) {
	if s.err != nil {
		return dto.ItemListResponse{}, s.err
	}
	return dto.ItemListResponse{Items: []dto.ItemResponse{s.item}}, nil
}

func (s *itemServiceStub) GenerateQR(ctx context.Context, actor, id string) (dto.ItemResponse, error) {
	if s.err != nil {
		return dto.ItemResponse{}, s.err
	}
	return s.item, nil
}

func itemApp(stub *itemServiceStub, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_name", "Administrator")
		c.Locals("user_role", role)
		return c.Next()
	})
	NewItemHandler(stub, zerolog.Nop()).Register(app.Group("/items"))
	return app
}

func TestItemHandlerAdd(t *testing.T) {
	stub := &itemServiceStub{item: dto.ItemResponse{Name: "Propeller", Code: "X-100"}}
	app := itemApp(stub, "adder")

	req := httptest.NewRequest("POST", "/items", strings.NewReader(`{"name":"Propeller","code":"X-100","quantity":4}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestItemHandlerAddForbiddenForScanner(t *testing.T) {
	app := itemApp(&itemServiceStub{}, "scanner")

	req := httptest.NewRequest("POST", "/items", strings.NewReader(`{"name":"Propeller","code":"X-100"}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestItemHandlerGetNotFound(t *testing.T) {
	app := itemApp(&itemServiceStub{err: service.ErrNotFound}, "admin")

	resp, err := app.Test(httptest.NewRequest("GET", "/items/65f1c0ffee0ddf00dabc1234", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestItemHandlerRemoveRequiresKeeperRole(t *testing.T) {
	app := itemApp(&itemServiceStub{}, "adder")

	resp, err := app.Test(httptest.NewRequest("DELETE", "/items/65f1c0ffee0ddf00dabc1234", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestItemHandlerList(t *testing.T) {
	app := itemApp(&itemServiceStub{item: dto.ItemResponse{Code: "X-100"}}, "scanner")

	resp, err := app.Test(httptest.NewRequest("GET", "/items?status=in_stock", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
