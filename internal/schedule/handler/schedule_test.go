package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"roomsched/internal/schedule/service"
	"roomsched/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type mockScheduleService struct {
	getScheduleFunc func(ctx context.Context, query service.Query) (*service.Schedule, error)
}

func (m *mockScheduleService) GetSchedule(ctx context.Context, query service.Query) (*service.Schedule, error) {
	if m.getScheduleFunc != nil {
		return m.getScheduleFunc(ctx, query)
	}
	return &service.Schedule{Buildings: []service.BuildingSchedule{}}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestGetSchedule_QueryParams(t *testing.T) {
	var gotQuery service.Query
	mockService := &mockScheduleService{
		getScheduleFunc: func(ctx context.Context, query service.Query) (*service.Schedule, error) {
			gotQuery = query
			return &service.Schedule{Buildings: []service.BuildingSchedule{}}, nil
		},
	}

	handler := NewScheduleHandler(mockService, testLogger())
	router := httprouter.New()
	handler.RegisterRoutes(router)

	tests := []struct {
		name         string
		url          string
		wantBuilding string
	}{
		{"building_short_name", "/api/v1/schedule?building_short_name=ECS", "ECS"},
		{"building alias", "/api/v1/schedule?building=ECS", "ECS"},
		{"documented name wins over alias", "/api/v1/schedule?building_short_name=ECS&building=LIB", "ECS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotQuery = service.Query{}
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
			}
			if gotQuery.Building != tt.wantBuilding {
				t.Errorf("building = %q, want %q", gotQuery.Building, tt.wantBuilding)
			}
		})
	}
}
