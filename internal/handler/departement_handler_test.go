package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/handler"
	"github.com/benmouhabdel/heec-manager/internal/service"
)

type mockDepartementService struct {
	listResponse dto.DepartementListResponse
	getErr       error
	deleteErr    error
	deletedID    uint
}

func (m *mockDepartementService) Create(_ context.Context, _ dto.DepartementCreateRequest, _ service.ActivityActor) (dto.DepartementResponse, error) {
	return dto.DepartementResponse{}, nil
}

func (m *mockDepartementService) Get(_ context.Context, _ uint) (dto.DepartementResponse, error) {
	if m.getErr != nil {
		return dto.DepartementResponse{}, m.getErr
	}
	return dto.DepartementResponse{ID: 1, Nom: "Sciences"}, nil
}

func (m *mockDepartementService) List(_ context.Context, _ dto.ListRequest) (dto.DepartementListResponse, error) {
	return m.listResponse, nil
}

func (m *mockDepartementService) Update(_ context.Context, _ uint, _ dto.DepartementUpdateRequest, _ service.ActivityActor) (dto.DepartementResponse, error) {
	return dto.DepartementResponse{}, nil
}

func (m *mockDepartementService) Delete(_ context.Context, id uint, _ service.ActivityActor) error {
	m.deletedID = id
	return m.deleteErr
}

func (m *mockDepartementService) Stats(_ context.Context, _ uint) (dto.DepartementStatsResponse, error) {
	return dto.DepartementStatsResponse{}, nil
}

func newDepartementApp(svc service.DepartementService) *fiber.App {
	app := fiber.New()
	handler.NewDepartementHandler(svc, zerolog.Nop()).Register(app.Group("/departements"))
	return app
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func TestDepartementHandlerListSuccess(t *testing.T) {
	svc := &mockDepartementService{listResponse: dto.DepartementListResponse{
		Items:      []dto.DepartementResponse{{ID: 1, Nom: "Sciences", FiliereCount: 2}},
		Pagination: dto.PaginationMeta{Page: 1, PageSize: 20, TotalItems: 1, TotalPages: 1},
	}}
	app := newDepartementApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/departements", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                        `json:"success"`
		Data    dto.DepartementListResponse `json:"data"`
		Message string                      `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "départements récupérés", body.Message)
	require.Len(t, body.Data.Items, 1)
	require.Equal(t, "Sciences", body.Data.Items[0].Nom)
}

func TestDepartementHandlerGetNotFound(t *testing.T) {
	svc := &mockDepartementService{getErr: service.ErrDepartementNotFound}
	app := newDepartementApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/departements/42", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, service.ErrDepartementNotFound.Error(), body.Message)
}

func TestDepartementHandlerDeleteBlockedByDependents(t *testing.T) {
	svc := &mockDepartementService{deleteErr: service.NewDependentsError("filières", 3)}
	app := newDepartementApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/departements/7", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.EqualValues(t, 7, svc.deletedID)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Contains(t, body.Message, "filières")
}

func TestDepartementHandlerRejectsBadID(t *testing.T) {
	app := newDepartementApp(&mockDepartementService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/departements/abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
