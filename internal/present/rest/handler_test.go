package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/hashtagchobi/chobi-site/internal/cache"
	"github.com/hashtagchobi/chobi-site/internal/carousel"
	"github.com/hashtagchobi/chobi-site/internal/domain"
	"github.com/hashtagchobi/chobi-site/internal/infra/docstore"
	"github.com/hashtagchobi/chobi-site/internal/infra/repository"
	"github.com/hashtagchobi/chobi-site/internal/markdown"
	"github.com/hashtagchobi/chobi-site/internal/present/rest/middleware"
	"github.com/hashtagchobi/chobi-site/internal/service"
	"github.com/hashtagchobi/chobi-site/internal/usecase"
)

type testServer struct {
	e      *echo.Echo
	store  *docstore.Memory
	signal *service.SignalService
}

func newTestServer(t *testing.T, adminHash string) *testServer {
	t.Helper()

	store := docstore.NewMemory()
	repo := repository.NewContentRepository(store, nil)
	c := cache.New(cache.NewMemory(cache.DefaultTTL))
	content := usecase.NewContentUsecase(repo, c, markdown.New())
	signal := service.NewSignalService(nil)
	content.SetPublisher(signal)

	config := domain.Config{SiteName: "Hashtag Chobi"}
	enquiry := usecase.NewEnquiryUsecase(nil, config)
	auth := middleware.NewAuthMiddleware(service.NewAuthService("admin", adminHash), config)

	h := NewHandler(config, content, enquiry, signal, auth, nil)
	e := echo.New()
	h.RegisterRoutes(e)

	return &testServer{e: e, store: store, signal: signal}
}

func (s *testServer) do(method, target string, body []byte, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if setup != nil {
		setup(req)
	}
	res := httptest.NewRecorder()
	s.e.ServeHTTP(res, req)
	return res
}

func TestHeroServesDefaultsWhenMissing(t *testing.T) {
	s := newTestServer(t, "")

	res := s.do(http.MethodGet, "/api/v1/hero", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var hero domain.HeroData
	if err := json.Unmarshal(res.Body.Bytes(), &hero); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hero != domain.DefaultHeroData() {
		t.Errorf("unexpected hero: %+v", hero)
	}
	if res.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
}

func TestIfNoneMatchReturnsNotModified(t *testing.T) {
	s := newTestServer(t, "")

	first := s.do(http.MethodGet, "/api/v1/about", nil, nil)
	etag := first.Header().Get("ETag")

	second := s.do(http.MethodGet, "/api/v1/about", nil, func(r *http.Request) {
		r.Header.Set("If-None-Match", etag)
	})
	if second.Code != http.StatusNotModified {
		t.Fatalf("expected 304 got %d", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Error("304 carried a body")
	}
}

func TestServiceByID(t *testing.T) {
	s := newTestServer(t, "")
	s.store.Put(domain.CollectionServices, "wedding", map[string]any{
		"title": "Wedding",
		"price": "₹50,000",
		"order": 1,
	})

	res := s.do(http.MethodGet, "/api/v1/services/wedding", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	var svc domain.Service
	if err := json.Unmarshal(res.Body.Bytes(), &svc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if svc.ID != "wedding" || svc.Title != "Wedding" {
		t.Errorf("unexpected service: %+v", svc)
	}

	res = s.do(http.MethodGet, "/api/v1/services/unknown", nil, nil)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
}

func TestGalleryCategoryFilter(t *testing.T) {
	s := newTestServer(t, "")
	now := time.Now()
	s.store.Put(domain.CollectionGallery, "a", map[string]any{"url": "a.jpg", "category": "Wedding", "createdAt": now})
	s.store.Put(domain.CollectionGallery, "b", map[string]any{"url": "b.jpg", "category": "Pre-Wedding", "createdAt": now.Add(-time.Hour)})

	res := s.do(http.MethodGet, "/api/v1/gallery?category=wedding", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	var items []domain.GalleryItem
	if err := json.Unmarshal(res.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" {
		t.Errorf("unexpected items: %+v", items)
	}

	res = s.do(http.MethodGet, "/api/v1/gallery?category=All", nil, nil)
	if err := json.Unmarshal(res.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items got %d", len(items))
	}
}

func TestTestimonialsInvalidFeatured(t *testing.T) {
	s := newTestServer(t, "")

	res := s.do(http.MethodGet, "/api/v1/testimonials?featured=many", nil, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.Code)
	}
}

func TestVideoHomeNotConfigured(t *testing.T) {
	s := newTestServer(t, "")

	res := s.do(http.MethodGet, "/api/v1/videos/home", nil, nil)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
}

func TestEnquiry(t *testing.T) {
	s := newTestServer(t, "")

	body, _ := json.Marshal(usecase.EnquiryInput{
		FullName:  "Priya Sen",
		Phone:     "+91 9876543210",
		EventType: "Wedding",
		EventDate: "2025-12-12",
		Location:  "Kolkata",
		Message:   "We would love a quote for December.",
	})
	res := s.do(http.MethodPost, "/api/v1/enquiries", body, nil)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body.String())
	}
	var enquiry domain.Enquiry
	if err := json.Unmarshal(res.Body.Bytes(), &enquiry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if enquiry.ID == "" || enquiry.WhatsAppURL == "" {
		t.Errorf("incomplete enquiry: %+v", enquiry)
	}

	body, _ = json.Marshal(usecase.EnquiryInput{FullName: "Priya"})
	res = s.do(http.MethodPost, "/api/v1/enquiries", body, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.Code)
	}
	var failure struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if failure.Field != "phone" {
		t.Errorf("expected phone field error got %+v", failure)
	}
}

func TestClearCacheRequiresAdmin(t *testing.T) {
	hash, err := service.HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, hash)

	res := s.do(http.MethodDelete, "/api/v1/cache", nil, nil)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}
	if res.Header().Get(echo.HeaderWWWAuthenticate) == "" {
		t.Error("missing WWW-Authenticate")
	}

	res = s.do(http.MethodDelete, "/api/v1/cache", nil, func(r *http.Request) {
		r.SetBasicAuth("admin", "wrong")
	})
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}
}

func TestClearCacheEntryRefreshesContent(t *testing.T) {
	hash, err := service.HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, hash)
	events, unsubscribe := s.signal.Subscribe()
	defer unsubscribe()

	s.store.Put(domain.CollectionHero, domain.MainDocument, map[string]any{"title": "First"})
	s.do(http.MethodGet, "/api/v1/hero", nil, nil)

	s.store.Put(domain.CollectionHero, domain.MainDocument, map[string]any{"title": "Second"})
	var hero domain.HeroData
	res := s.do(http.MethodGet, "/api/v1/hero", nil, nil)
	_ = json.Unmarshal(res.Body.Bytes(), &hero)
	if hero.Title != "First" {
		t.Fatalf("expected cached title got %q", hero.Title)
	}

	res = s.do(http.MethodDelete, "/api/v1/cache/"+domain.CacheKeyHero, nil, func(r *http.Request) {
		r.SetBasicAuth("admin", "secret")
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	select {
	case event := <-events:
		if event.Type != domain.EventCacheInvalidated || event.Key != domain.CacheKeyHero {
			t.Errorf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("no invalidation event")
	}

	res = s.do(http.MethodGet, "/api/v1/hero", nil, nil)
	_ = json.Unmarshal(res.Body.Bytes(), &hero)
	if hero.Title != "Second" {
		t.Errorf("expected refreshed title got %q", hero.Title)
	}
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, "")
	s.do(http.MethodGet, "/api/v1/hero", nil, nil)
	s.do(http.MethodGet, "/api/v1/hero", nil, nil)

	res := s.do(http.MethodGet, "/api/v1/status", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	var status struct {
		Cache    cache.Stats `json:"cache"`
		Degraded int64       `json:"degraded"`
		Loaders  []any       `json:"loaders"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Cache.Hits != 1 || status.Cache.Loads != 1 {
		t.Errorf("unexpected cache stats: %+v", status.Cache)
	}
	if status.Loaders == nil {
		t.Error("loaders should be an empty list")
	}
}

func TestRecentEnquiriesWithoutStorage(t *testing.T) {
	hash, err := service.HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, hash)

	res := s.do(http.MethodGet, "/api/v1/enquiries", nil, func(r *http.Request) {
		r.SetBasicAuth("admin", "secret")
	})
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}

	res = s.do(http.MethodGet, "/api/v1/enquiries?limit=x", nil, func(r *http.Request) {
		r.SetBasicAuth("admin", "secret")
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.Code)
	}
}

func TestRealtimePushesInvalidations(t *testing.T) {
	s := newTestServer(t, "")
	server := httptest.NewServer(s.e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/realtime"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	err = ws.WriteJSON(Request{Type: "listen", Prefixes: []string{"hero"}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	// the socket subscribes asynchronously, so keep publishing until one
	// event arrives
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = s.signal.Publish(ctx, domain.Event{Type: domain.EventCacheInvalidated, Key: domain.CacheKeyHero})
			}
		}
	}()

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event domain.Event
	if err := ws.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	if event.Type != domain.EventCacheInvalidated || event.Key != domain.CacheKeyHero {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestStaticFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	index := "<!doctype html><div id=root></div>"
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(t, "")
	RegisterStatic(s.e, dir)

	res := s.do(http.MethodGet, "/couple/ananya-rohit", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "id=root") {
		t.Errorf("expected index.html, got %q", res.Body.String())
	}

	res = s.do(http.MethodGet, "/api/v1/hero", nil, nil)
	if res.Code != http.StatusOK || !strings.HasPrefix(res.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		t.Errorf("api route shadowed by static files: %d %s", res.Code, res.Header().Get(echo.HeaderContentType))
	}
}

func TestCoupleCarouselPlan(t *testing.T) {
	s := newTestServer(t, "")
	for _, id := range []string{"riya-arjun", "meera-kabir", "ana-dev"} {
		s.store.Put(domain.CollectionCoupleSelections, id, map[string]any{"title": id})
	}

	res := s.do(http.MethodGet, "/api/v1/carousel/couples?width=1024", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	var plan carousel.Plan
	if err := json.Unmarshal(res.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if plan.Cards != 3 || plan.Layout != carousel.DesktopLayout {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if plan.ScrollWidth != 3*384+2*8 || !plan.Initial.CanScrollRight || plan.Initial.ModeName != "scrolling-right" {
		t.Fatalf("unexpected geometry %+v", plan)
	}

	res = s.do(http.MethodGet, "/api/v1/carousel/couples?width=360", nil, nil)
	if err := json.Unmarshal(res.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if plan.Layout != carousel.MobileLayout {
		t.Fatalf("expected mobile layout, got %+v", plan.Layout)
	}

	for _, width := range []string{"wide", "0", "-5"} {
		res = s.do(http.MethodGet, "/api/v1/carousel/couples?width="+width, nil, nil)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("width %q: expected 400 got %d", width, res.Code)
		}
	}
}
