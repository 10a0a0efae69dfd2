package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/domain"
	"github.com/yungbote/roomstage-backend/internal/observability"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/prompt"
	"github.com/yungbote/roomstage-backend/internal/roomstage/pipeline"
	"github.com/yungbote/roomstage-backend/internal/scene/capture"
)

type fakePipeline struct {
	placeErr  error
	frame     capture.Frame
	available bool
	render    pipeline.RenderResult
	gotRender pipeline.RenderRequest
	gotMode   capture.Mode
}

func (f *fakePipeline) Place(_ context.Context, room domain.RoomSpec, items []domain.CatalogItem) ([]domain.Placement, error) {
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	out := make([]domain.Placement, len(items))
	for i, it := range items {
		out[i] = domain.Placement{ItemID: it.ID, Position: domain.Vec3{X: room.Width / 2}}
	}
	return out, nil
}

func (f *fakePipeline) Capture(ctx context.Context, room domain.RoomSpec, items []domain.CatalogItem, mode capture.Mode) (capture.Frame, bool, []domain.Placement, error) {
	f.gotMode = mode
	placements, err := f.Place(ctx, room, items)
	if err != nil {
		return capture.Frame{}, false, nil, err
	}
	return f.frame, f.available, placements, nil
}

func (f *fakePipeline) Render(_ context.Context, req pipeline.RenderRequest) (pipeline.RenderResult, error) {
	f.gotRender = req
	if f.placeErr != nil {
		return pipeline.RenderResult{}, f.placeErr
	}
	return f.render, nil
}

func do(t *testing.T, h gin.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, "/t", h)
	req := httptest.NewRequest(method, "/t", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorField(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("missing error envelope: %v", body)
	}
	s, _ := e[key].(string)
	return s
}

const roomBody = `{"room":{"width":400,"length":500,"height":250},"items":[{"id":"s1","category":"sofa"},{"id":"t1","category":"table"}]}`

func TestPlacementHandler_OK(t *testing.T) {
	h := NewPlacementHandler(&fakePipeline{})
	rec := do(t, h.Place, http.MethodPost, roomBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	placements, _ := decode(t, rec)["placements"].([]any)
	if len(placements) != 2 {
		t.Fatalf("placements=%v", placements)
	}
	first := placements[0].(map[string]any)
	if first["item_id"] != "s1" {
		t.Fatalf("first placement=%v", first)
	}
}

func TestPlacementHandler_InvalidRoom(t *testing.T) {
	h := NewPlacementHandler(&fakePipeline{placeErr: errors.New("room width must be positive")})
	rec := do(t, h.Place, http.MethodPost, `{"room":{"width":0,"length":1,"height":1}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	body := decode(t, rec)
	if errorField(t, body, "code") != "invalid_request" || errorField(t, body, "param") != "room" {
		t.Fatalf("error=%v", body["error"])
	}
	if !strings.Contains(errorField(t, body, "message"), "width") {
		t.Fatalf("message=%q", errorField(t, body, "message"))
	}
}

func TestBindJSON_Malformed(t *testing.T) {
	h := NewPlacementHandler(&fakePipeline{})
	rec := do(t, h.Place, http.MethodPost, `{"room":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	if code := errorField(t, decode(t, rec), "code"); code != "invalid_json" {
		t.Fatalf("code=%q", code)
	}
}

func TestPromptHandler_MatchesCompiler(t *testing.T) {
	h := NewPromptHandler()
	rec := do(t, h.Compile, http.MethodPost,
		`{"style":"scandinavian","room_type":"Living Room","wall_color_name":"Sage Green","wall_color_hex":"#A3B18A","furniture_names":["Nordic Sofa"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	want := prompt.Compile(prompt.Input{
		Style:          "scandinavian",
		RoomType:       "Living Room",
		WallColorName:  "Sage Green",
		WallColorHex:   "#A3B18A",
		FurnitureNames: []string{"Nordic Sofa"},
	})
	if got := decode(t, rec)["prompt"]; got != want {
		t.Fatalf("prompt=%q want %q", got, want)
	}
}

func TestSceneHandler_Unavailable(t *testing.T) {
	m := observability.NewMetrics()
	h := NewSceneHandler(&fakePipeline{}, m)
	rec := do(t, h.Capture, http.MethodPost, roomBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body := decode(t, rec)
	if body["available"] != false || body["mode"] != "depth" {
		t.Fatalf("body=%v", body)
	}
	if _, ok := body["image"]; ok {
		t.Fatalf("unavailable capture should carry no image")
	}
	if got := m.Captures("depth", false); got != 1 {
		t.Fatalf("capture counter=%v", got)
	}
}

func TestSceneHandler_ColorMode(t *testing.T) {
	fp := &fakePipeline{
		available: true,
		frame:     capture.Frame{DataURI: "data:image/png;base64,AAAA", Width: 4, Height: 2, Mode: capture.ModeColor},
	}
	h := NewSceneHandler(fp, nil)
	rec := do(t, h.Capture, http.MethodPost, `{"room":{"width":1,"length":1,"height":1},"mode":"COLOR"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body := decode(t, rec)
	if fp.gotMode != capture.ModeColor || body["image"] != "data:image/png;base64,AAAA" || body["width"] != float64(4) {
		t.Fatalf("mode=%q body=%v", fp.gotMode, body)
	}
}

func TestSceneHandler_BadMode(t *testing.T) {
	h := NewSceneHandler(&fakePipeline{}, nil)
	rec := do(t, h.Capture, http.MethodPost, `{"room":{"width":1,"length":1,"height":1},"mode":"normals"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	if p := errorField(t, decode(t, rec), "param"); p != "mode" {
		t.Fatalf("param=%q", p)
	}
}

func TestRenderHandler_FallbackIsStill200(t *testing.T) {
	m := observability.NewMetrics()
	fp := &fakePipeline{render: pipeline.RenderResult{
		GenerationResult: domain.GenerationResult{
			ImageURL:     "https://fallback.test/prompt/x",
			Provider:     "fallback",
			Mode:         "unconditioned",
			Prompt:       "x",
			FallbackUsed: true,
			Latency:      1500 * time.Millisecond,
		},
		DepthAvailable: true,
	}}
	h := NewRenderHandler(logger.Nop(), fp, m)
	rec := do(t, h.Render, http.MethodPost,
		`{"room":{"width":400,"length":500,"height":250},"style":"boho","base_image":"https://shop.test/room.jpg","skip_depth":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["fallback"] != true || body["image_url"] != "https://fallback.test/prompt/x" || body["latency_ms"] != float64(1500) {
		t.Fatalf("body=%v", body)
	}
	if fp.gotRender.Style != "boho" || fp.gotRender.BaseImage != "https://shop.test/room.jpg" || !fp.gotRender.SkipDepth {
		t.Fatalf("request=%+v", fp.gotRender)
	}
	if got := m.Renders("unconditioned", "fallback", true); got != 1 {
		t.Fatalf("render counter=%v", got)
	}
}

func TestRenderHandler_InvalidRoom(t *testing.T) {
	h := NewRenderHandler(logger.Nop(), &fakePipeline{placeErr: errors.New("render: room height must be positive")}, nil)
	rec := do(t, h.Render, http.MethodPost, `{"room":{"width":1,"length":1}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	ok := NewHealthHandler(map[string]ReadinessCheck{
		"store": func(context.Context) error { return nil },
	}, nil)
	if rec := do(t, ok.HealthCheck, http.MethodGet, ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz=%d %q", rec.Code, rec.Body.String())
	}
	if rec := do(t, ok.Ready, http.MethodGet, ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz=%d", rec.Code)
	}

	down := NewHealthHandler(map[string]ReadinessCheck{
		"store": func(context.Context) error { return errors.New("connection refused") },
	}, nil)
	rec := do(t, down.Ready, http.MethodGet, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz=%d", rec.Code)
	}
	if msg := errorField(t, decode(t, rec), "message"); msg != "store: connection refused" {
		t.Fatalf("message=%q", msg)
	}
}

func TestHealthHandler_OptionalDependencyDegrades(t *testing.T) {
	h := NewHealthHandler(nil, map[string]ReadinessCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	rec := do(t, h.Ready, http.MethodGet, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz=%d", rec.Code)
	}
	body := decode(t, rec)
	checks, _ := body["checks"].(map[string]any)
	if body["status"] != "degraded" || checks["redis"] != "degraded: connection refused" {
		t.Fatalf("body=%v", body)
	}
}
