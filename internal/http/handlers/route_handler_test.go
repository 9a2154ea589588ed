package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"routebee/internal/http/handlers"
	"routebee/internal/modules/itinerary"
	"routebee/internal/service"
)

type fakePlanner struct {
	got  service.Request
	plan service.Plan
	err  error
}

func (f *fakePlanner) Plan(_ context.Context, req service.Request) (service.Plan, error) {
	f.got = req
	return f.plan, f.err
}

func buildTestRouter(p handlers.Planner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewRouteHandler(p, nil)
	r.GET("/api/routes", h.Search)
	r.GET("/health", handlers.Health)
	return r
}

func doRequest(r http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestSearchPassesPreference(t *testing.T) {
	fp := &fakePlanner{plan: service.Plan{Distance: 10.49, Routes: []service.RouteView{{ID: "r1", Rank: 1}}}}
	r := buildTestRouter(fp)

	rec := doRequest(r, "/api/routes?from=Flushing&to=Times+Square&priority=cost&noise=high&safety=low&bags=2&wheelchair=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := service.Request{
		From: "Flushing",
		To:   "Times Square",
		Preference: itinerary.Preference{
			Priority:   itinerary.PriorityCost,
			Noise:      itinerary.SensitivityHigh,
			Safety:     itinerary.SensitivityLow,
			Bags:       2,
			Wheelchair: true,
		},
	}
	if fp.got != want {
		t.Fatalf("planner got %+v, want %+v", fp.got, want)
	}

	var plan service.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Distance != 10.49 || len(plan.Routes) != 1 || plan.Routes[0].ID != "r1" {
		t.Fatalf("unexpected plan body: %s", rec.Body.String())
	}
}

func TestSearchDefaultsAreLeftToPlanner(t *testing.T) {
	fp := &fakePlanner{}
	r := buildTestRouter(fp)

	rec := doRequest(r, "/api/routes?from=a&to=b")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fp.got.Preference != (itinerary.Preference{}) {
		t.Fatalf("expected zero preference, got %+v", fp.got.Preference)
	}
}

func TestSearchRejectsInvalidQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"missing from", "to=b"},
		{"missing to", "from=a"},
		{"bad priority", "from=a&to=b&priority=fastest"},
		{"bad noise", "from=a&to=b&noise=loud"},
		{"bad safety", "from=a&to=b&safety=maximum"},
		{"negative bags", "from=a&to=b&bags=-1"},
		{"non-numeric bags", "from=a&to=b&bags=two"},
		{"bad wheelchair", "from=a&to=b&wheelchair=maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fp := &fakePlanner{}
			rec := doRequest(buildTestRouter(fp), "/api/routes?"+tc.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if decodeError(t, rec) == "" {
				t.Fatal("expected an error message")
			}
			if fp.got != (service.Request{}) {
				t.Fatal("planner should not be called")
			}
		})
	}
}

func TestSearchMapsPlannerErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"bad request", fmt.Errorf("%w: from and to are required", service.ErrBadRequest), http.StatusBadRequest, "bad request: from and to are required"},
		{"no candidates", fmt.Errorf("%w: nothing accessible", service.ErrNoCandidates), http.StatusNotFound, ""},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(buildTestRouter(&fakePlanner{err: tc.err}), "/api/routes?from=a&to=b")
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			msg := decodeError(t, rec)
			if tc.wantMsg != "" && msg != tc.wantMsg {
				t.Fatalf("message = %q, want %q", msg, tc.wantMsg)
			}
			if msg == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rec := doRequest(buildTestRouter(&fakePlanner{}), "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}
