package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hashtagchobi/chobi-site/internal/carousel"
	"github.com/hashtagchobi/chobi-site/internal/domain"
	"github.com/hashtagchobi/chobi-site/internal/loader"
	"github.com/hashtagchobi/chobi-site/internal/present/rest/middleware"
	"github.com/hashtagchobi/chobi-site/internal/present/rest/presenter"
	"github.com/hashtagchobi/chobi-site/internal/service"
	"github.com/hashtagchobi/chobi-site/internal/usecase"
)

type Handler struct {
	config  domain.Config
	content *usecase.ContentUsecase
	enquiry *usecase.EnquiryUsecase
	signal  *service.SignalService
	auth    *middleware.AuthMiddleware
	warmer  *service.Warmer
}

func NewHandler(
	config domain.Config,
	content *usecase.ContentUsecase,
	enquiry *usecase.EnquiryUsecase,
	signal *service.SignalService,
	auth *middleware.AuthMiddleware,
	warmer *service.Warmer,
) *Handler {
	return &Handler{
		config:  config,
		content: content,
		enquiry: enquiry,
		signal:  signal,
		auth:    auth,
		warmer:  warmer,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealth)
	e.GET("/realtime", h.handleRealtime)

	v1 := e.Group("/api/v1")
	v1.GET("/about", h.handleAbout)
	v1.GET("/hero", h.handleHero)
	v1.GET("/video-showcase", h.handleVideoShowcase)
	v1.GET("/gallery", h.handleGallery)
	v1.GET("/gallery/categories", h.handleGalleryCategories)
	v1.GET("/gallery/extended", h.handleExtendedGallery)
	v1.GET("/services", h.handleServices)
	v1.GET("/services/:id", h.handleService)
	v1.GET("/testimonials", h.handleTestimonials)
	v1.GET("/couples", h.handleCouples)
	v1.GET("/couples/images", h.handleCoupleImages)
	v1.GET("/couples/:id", h.handleCouple)
	v1.GET("/carousel/couples", h.handleCoupleCarousel)
	v1.GET("/videos", h.handleVideos)
	v1.GET("/videos/categories", h.handleVideoCategories)
	v1.GET("/videos/home", h.handleVideoHome)
	v1.GET("/privacy-policy", h.handlePrivacyPolicy)

	v1.GET("/pages/home", h.handleHomePage)
	v1.GET("/pages/gallery", h.handleGalleryPage)
	v1.GET("/pages/all", h.handleAllData)

	v1.POST("/enquiries", h.handleEnquiry)
	v1.GET("/enquiries", h.handleRecentEnquiries, h.auth.RequireAdmin)
	v1.GET("/enquiries/:id", h.handleGetEnquiry, h.auth.RequireAdmin)

	v1.GET("/status", h.handleStatus)
	v1.DELETE("/cache", h.handleClearCache, h.auth.RequireAdmin)
	v1.DELETE("/cache/:key", h.handleClearCacheEntry, h.auth.RequireAdmin)
}

// RegisterStatic serves the built frontend from dir. Unknown paths outside
// the API fall back to index.html so client side routes resolve.
func RegisterStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	e.Use(echomw.StaticWithConfig(echomw.StaticConfig{
		Root:       ".",
		Filesystem: http.Dir(dir),
		HTML5:      true,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/api/") || path == "/realtime" || path == "/healthz"
		},
	}))
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) handleAbout(c echo.Context) error {
	value, err := h.content.About(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleHero(c echo.Context) error {
	value, err := h.content.Hero(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleVideoShowcase(c echo.Context) error {
	value, err := h.content.VideoShowcase(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleGallery(c echo.Context) error {
	ctx := c.Request().Context()

	category := c.QueryParam("category")
	if category == "" || strings.EqualFold(category, usecase.CategoryAll) {
		value, err := h.content.Gallery(ctx)
		if err != nil {
			return presenter.Error(c, err)
		}
		return presenter.OK(c, value)
	}

	value, err := h.content.GalleryByCategory(ctx, category)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleGalleryCategories(c echo.Context) error {
	return presenter.OK(c, h.content.GalleryCategories(c.Request().Context()))
}

func (h *Handler) handleExtendedGallery(c echo.Context) error {
	value, err := h.content.ExtendedGallery(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleServices(c echo.Context) error {
	value, err := h.content.Services(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleService(c echo.Context) error {
	value, err := h.content.ServiceByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleTestimonials(c echo.Context) error {
	ctx := c.Request().Context()

	featured := c.QueryParam("featured")
	if featured == "" {
		value, err := h.content.Testimonials(ctx)
		if err != nil {
			return presenter.Error(c, err)
		}
		return presenter.OK(c, value)
	}

	limit, err := strconv.Atoi(featured)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid featured parameter")
	}
	value, err := h.content.FeaturedTestimonials(ctx, limit)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleCouples(c echo.Context) error {
	value, err := h.content.CoupleSelections(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

const defaultViewportWidth = 1280

// handleCoupleCarousel lays out the couple selection strip for the viewport
// width given in ?width=.
func (h *Handler) handleCoupleCarousel(c echo.Context) error {
	width := float64(defaultViewportWidth)
	if raw := c.QueryParam("width"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return presenter.BadRequestMessage(c, "invalid width parameter")
		}
		width = parsed
	}

	selections, err := h.content.CoupleSelections(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, carousel.PlanFor(carousel.DefaultConfig(), len(selections), width))
}

func (h *Handler) handleCoupleImages(c echo.Context) error {
	value, err := h.content.CoupleImagesExtended(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleCouple(c echo.Context) error {
	value, err := h.content.CoupleDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleVideos(c echo.Context) error {
	value, err := h.content.Videos(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleVideoCategories(c echo.Context) error {
	value, err := h.content.VideoCategories(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleVideoHome(c echo.Context) error {
	value, err := h.content.VideoGalleryHome(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	if value == nil {
		return presenter.NotFound(c, "home video not configured")
	}
	return presenter.OK(c, value)
}

func (h *Handler) handlePrivacyPolicy(c echo.Context) error {
	value, err := h.content.PrivacyPolicy(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleHomePage(c echo.Context) error {
	value, err := h.content.HomePage(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleGalleryPage(c echo.Context) error {
	value, err := h.content.GalleryPage(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleAllData(c echo.Context) error {
	value, err := h.content.AllWebsiteData(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, value)
}

func (h *Handler) handleEnquiry(c echo.Context) error {
	ctx := c.Request().Context()

	var input usecase.EnquiryInput
	err := c.Bind(&input)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid request body")
	}

	enquiry, err := h.enquiry.Submit(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, enquiry)
}

func (h *Handler) handleRecentEnquiries(c echo.Context) error {
	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid limit parameter")
		}
		limit = parsed
	}

	enquiries, err := h.enquiry.Recent(c.Request().Context(), limit)
	if err != nil {
		return presenter.Error(c, err)
	}
	return c.JSON(http.StatusOK, enquiries)
}

func (h *Handler) handleGetEnquiry(c echo.Context) error {
	enquiry, err := h.enquiry.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return c.JSON(http.StatusOK, enquiry)
}

type statusResponse struct {
	Cache    any              `json:"cache"`
	Degraded int64            `json:"degraded"`
	Loaders  []loader.Summary `json:"loaders"`
}

func (h *Handler) handleStatus(c echo.Context) error {
	status := statusResponse{
		Cache:    h.content.CacheStats(),
		Degraded: h.content.Degraded(),
		Loaders:  []loader.Summary{},
	}
	if h.warmer != nil {
		status.Loaders = h.warmer.Status()
	}
	return c.JSON(http.StatusOK, status)
}

func (h *Handler) handleClearCache(c echo.Context) error {
	err := h.content.InvalidateAll(c.Request().Context())
	if err != nil {
		return presenter.InternalError(c, err)
	}
	if h.warmer != nil {
		h.warmer.Trigger()
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) handleClearCacheEntry(c echo.Context) error {
	key := c.Param("key")
	err := h.content.Invalidate(c.Request().Context(), key)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	if h.warmer != nil {
		h.warmer.Trigger()
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "key": key})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Request struct {
	Type     string   `json:"type"`
	Prefixes []string `json:"prefixes"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	input := make(chan []string)
	output := make(chan domain.Event)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else if ctx.Err() == nil {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}

			switch req.Type {
			case "listen":
				select {
				case input <- req.Prefixes:
				case <-ctx.Done():
					return
				}
				slog.DebugContext(
					ctx, fmt.Sprintf("Socket subscribe: %s", req.Prefixes),
					slog.String("module", "socket"),
				)
			case "h": // heartbeat
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case <-ctx.Done():
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
