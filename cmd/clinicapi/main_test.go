package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appconfig "github.com/wolfman30/clinic-dashboard/internal/config"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

func TestSetupRouterExposesMetrics(t *testing.T) {
	cfg := &appconfig.Config{ClinicAPISecret: "s", ClinicAPITokenTTL: time.Hour}
	handler, err := setupRouter(cfg, logging.New("error"), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/doctor", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Dr. John Smith") {
		t.Fatalf("expected seeded doctors, got %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "clinic_api_requests_total") {
		t.Fatalf("expected request counter to be exported")
	}
}

func TestCORSOrigins(t *testing.T) {
	got := corsOrigins(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", got)
	}
	if corsOrigins("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
