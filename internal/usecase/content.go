package usecase

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/hashtagchobi/chobi-site/internal/cache"
	"github.com/hashtagchobi/chobi-site/internal/domain"
)

var tracer = otel.Tracer("usecase")

// CategoryAll is the catch-all entry of derived category lists.
const CategoryAll = "All"

// ContentUsecase serves every content area through the cache.
type ContentUsecase struct {
	repo      ContentRepository
	cache     *cache.Cache
	renderer  PageRenderer
	publisher Publisher
}

func NewContentUsecase(repo ContentRepository, c *cache.Cache, renderer PageRenderer) *ContentUsecase {
	return &ContentUsecase{
		repo:     repo,
		cache:    c,
		renderer: renderer,
	}
}

// SetPublisher enables cross-instance invalidation. Without a publisher
// evictions stay local.
func (uc *ContentUsecase) SetPublisher(p Publisher) {
	uc.publisher = p
}

func (uc *ContentUsecase) CacheStats() cache.Stats {
	return uc.cache.Stats()
}

// Degraded counts reads that fell back to defaults because the store
// failed. Repositories that do not track it report zero.
func (uc *ContentUsecase) Degraded() int64 {
	if d, ok := uc.repo.(interface{ Degraded() int64 }); ok {
		return d.Degraded()
	}
	return 0
}

// cached adapts a repository read, which cannot fail, to cache.Fetch.
func cached[T any](ctx context.Context, uc *ContentUsecase, key string, read func(context.Context) T) (T, error) {
	return cache.Fetch(ctx, uc.cache, key, func(ctx context.Context) (T, error) {
		return read(ctx), nil
	})
}

func (uc *ContentUsecase) About(ctx context.Context) (domain.AboutData, error) {
	return cached(ctx, uc, domain.CacheKeyAbout, uc.repo.About)
}

func (uc *ContentUsecase) Hero(ctx context.Context) (domain.HeroData, error) {
	return cached(ctx, uc, domain.CacheKeyHero, uc.repo.Hero)
}

func (uc *ContentUsecase) VideoShowcase(ctx context.Context) (domain.VideoShowcaseData, error) {
	return cached(ctx, uc, domain.CacheKeyVideoShowcase, uc.repo.VideoShowcase)
}

func (uc *ContentUsecase) ExtendedGallery(ctx context.Context) (domain.ExtendedGalleryDoc, error) {
	return cached(ctx, uc, domain.CacheKeyExtendedGallery, uc.repo.ExtendedGallery)
}

func (uc *ContentUsecase) CoupleImagesExtended(ctx context.Context) (domain.CoupleImagesExtendedDoc, error) {
	return cached(ctx, uc, domain.CacheKeyCoupleImagesExtended, uc.repo.CoupleImagesExtended)
}

func (uc *ContentUsecase) Gallery(ctx context.Context) ([]domain.GalleryItem, error) {
	return cached(ctx, uc, domain.CacheKeyGalleryAll, uc.repo.Gallery)
}

// GalleryByCategory matches categories case-insensitively. Each category is
// cached under its lowercased name. Categories no gallery item carries get an
// empty list and no cache entry, so arbitrary input cannot grow the cache.
func (uc *ContentUsecase) GalleryByCategory(ctx context.Context, category string) ([]domain.GalleryItem, error) {
	ctx, span := tracer.Start(ctx, "Content.Usecase.GalleryByCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category", category))

	if !slices.ContainsFunc(uc.GalleryCategories(ctx), func(known string) bool {
		return strings.EqualFold(known, category)
	}) {
		return []domain.GalleryItem{}, nil
	}

	return cached(ctx, uc, domain.GalleryCategoryCacheKey(category), func(ctx context.Context) []domain.GalleryItem {
		all := uc.repo.Gallery(ctx)
		filtered := make([]domain.GalleryItem, 0, len(all))
		for _, item := range all {
			if strings.EqualFold(item.Category, category) {
				filtered = append(filtered, item)
			}
		}
		return filtered
	})
}

// GalleryCategories returns the distinct gallery categories in sorted order.
// It is derived from the cached gallery and returns an empty list on failure.
func (uc *ContentUsecase) GalleryCategories(ctx context.Context) []string {
	items, err := uc.Gallery(ctx)
	if err != nil {
		slog.WarnContext(
			ctx, "Failed to load gallery categories",
			slog.String("error", err.Error()),
			slog.String("module", "usecase"),
		)
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	categories := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	sort.Strings(categories)
	return categories
}

func (uc *ContentUsecase) Services(ctx context.Context) ([]domain.Service, error) {
	return cached(ctx, uc, domain.CacheKeyServicesAll, uc.repo.Services)
}

func (uc *ContentUsecase) ServiceByID(ctx context.Context, id string) (domain.Service, error) {
	services, err := uc.Services(ctx)
	if err != nil {
		return domain.Service{}, err
	}
	for _, service := range services {
		if service.ID == id {
			return service, nil
		}
	}
	return domain.Service{}, domain.NotFoundError{Resource: "service"}
}

func (uc *ContentUsecase) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	return cached(ctx, uc, domain.CacheKeyTestimonialsAll, uc.repo.Testimonials)
}

// FeaturedTestimonials returns the newest limit testimonials. A non-positive
// limit means DefaultFeaturedTestimonials.
func (uc *ContentUsecase) FeaturedTestimonials(ctx context.Context, limit int) ([]domain.Testimonial, error) {
	if limit <= 0 {
		limit = domain.DefaultFeaturedTestimonials
	}
	all, err := uc.Testimonials(ctx)
	if err != nil {
		return []domain.Testimonial{}, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	featured := make([]domain.Testimonial, len(all))
	copy(featured, all)
	return featured, nil
}

func (uc *ContentUsecase) CoupleSelections(ctx context.Context) ([]domain.CoupleSelection, error) {
	return cached(ctx, uc, domain.CacheKeyCoupleSelectionsAll, uc.repo.CoupleSelections)
}

// CoupleDetail resolves a couple by id, ignoring case, together with the
// gallery tiles tagged with its title.
func (uc *ContentUsecase) CoupleDetail(ctx context.Context, id string) (domain.CoupleDetail, error) {
	ctx, span := tracer.Start(ctx, "Content.Usecase.CoupleDetail")
	defer span.End()
	span.SetAttributes(attribute.String("id", id))

	var (
		selections []domain.CoupleSelection
		images     domain.CoupleImagesExtendedDoc
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		selections, err = uc.CoupleSelections(gctx)
		return err
	})
	g.Go(func() (err error) {
		images, err = uc.CoupleImagesExtended(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return domain.CoupleDetail{}, err
	}

	var selection *domain.CoupleSelection
	for i := range selections {
		if strings.EqualFold(selections[i].ID, id) {
			selection = &selections[i]
			break
		}
	}
	if selection == nil {
		return domain.CoupleDetail{}, domain.NotFoundError{Resource: "couple"}
	}

	detail := domain.CoupleDetail{
		Selection:  *selection,
		Images:     []domain.CoupleImagesExtendedImage{},
		Categories: []string{CategoryAll},
	}
	seen := map[string]struct{}{}
	for _, img := range images.Images {
		if img.CoupleSelectionTitle != selection.Title {
			continue
		}
		detail.Images = append(detail.Images, img)
		if _, ok := seen[img.Category]; !ok {
			seen[img.Category] = struct{}{}
			detail.Categories = append(detail.Categories, img.Category)
		}
	}
	return detail, nil
}

// Videos falls back to the built-in sample videos while the collection is
// empty. The fallback is not cached so newly added videos show up at once.
func (uc *ContentUsecase) Videos(ctx context.Context) ([]domain.Video, error) {
	videos, err := cache.FetchIf(ctx, uc.cache, domain.CacheKeyVideosAll, func(ctx context.Context) ([]domain.Video, error) {
		return uc.repo.Videos(ctx), nil
	}, func(v []domain.Video) bool {
		return len(v) > 0
	})
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return domain.SampleVideos(), nil
	}
	return videos, nil
}

// VideoCategories lists "All" followed by the distinct video categories in
// first-seen order.
func (uc *ContentUsecase) VideoCategories(ctx context.Context) ([]string, error) {
	videos, err := uc.Videos(ctx)
	if err != nil {
		return nil, err
	}
	categories := []string{CategoryAll}
	seen := map[string]struct{}{}
	for _, v := range videos {
		if _, ok := seen[v.Category]; ok {
			continue
		}
		seen[v.Category] = struct{}{}
		categories = append(categories, v.Category)
	}
	return categories, nil
}

// VideoGalleryHome returns nil when no home video is configured. Only a
// present video is cached.
func (uc *ContentUsecase) VideoGalleryHome(ctx context.Context) (*domain.VideoGalleryHome, error) {
	return cache.FetchIf(ctx, uc.cache, domain.CacheKeyVideoGalleryHome, func(ctx context.Context) (*domain.VideoGalleryHome, error) {
		return uc.repo.VideoGalleryHome(ctx), nil
	}, func(v *domain.VideoGalleryHome) bool {
		return v != nil
	})
}

func (uc *ContentUsecase) PrivacyPolicy(ctx context.Context) (domain.PrivacyPolicy, error) {
	ctx, span := tracer.Start(ctx, "Content.Usecase.PrivacyPolicy")
	defer span.End()

	return cache.Fetch(ctx, uc.cache, domain.CacheKeyPrivacyPolicy, func(ctx context.Context) (domain.PrivacyPolicy, error) {
		src := uc.repo.PrivacyPolicyMarkdown(ctx)
		page, err := uc.renderer.Render([]byte(src))
		if err != nil {
			span.RecordError(err)
			return domain.PrivacyPolicy{}, err
		}
		return domain.PrivacyPolicy{
			Title:   page.Title("Privacy Policy"),
			Updated: page.Updated(),
			HTML:    string(page.HTML),
		}, nil
	})
}

// HomePage loads the sections of the landing page concurrently.
func (uc *ContentUsecase) HomePage(ctx context.Context) (domain.HomePage, error) {
	ctx, span := tracer.Start(ctx, "Content.Usecase.HomePage")
	defer span.End()

	var page domain.HomePage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page.Hero, err = uc.Hero(gctx)
		return err
	})
	g.Go(func() (err error) {
		page.Services, err = uc.Services(gctx)
		return err
	})
	g.Go(func() (err error) {
		page.Testimonials, err = uc.FeaturedTestimonials(gctx, domain.DefaultFeaturedTestimonials)
		return err
	})
	g.Go(func() (err error) {
		page.VideoShowcase, err = uc.VideoShowcase(gctx)
		return err
	})
	g.Go(func() (err error) {
		page.CoupleSelections, err = uc.CoupleSelections(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return domain.HomePage{}, err
	}
	return page, nil
}

func (uc *ContentUsecase) GalleryPage(ctx context.Context) (domain.GalleryPage, error) {
	gallery, err := uc.Gallery(ctx)
	if err != nil {
		return domain.GalleryPage{}, err
	}
	return domain.GalleryPage{
		Gallery:    gallery,
		Categories: uc.GalleryCategories(ctx),
	}, nil
}

// AllWebsiteData is every content area in one cached payload.
func (uc *ContentUsecase) AllWebsiteData(ctx context.Context) (domain.WebsiteData, error) {
	ctx, span := tracer.Start(ctx, "Content.Usecase.AllWebsiteData")
	defer span.End()

	return cache.Fetch(ctx, uc.cache, domain.CacheKeyWebsiteAll, func(ctx context.Context) (domain.WebsiteData, error) {
		var data domain.WebsiteData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			data.About = uc.repo.About(gctx)
			return nil
		})
		g.Go(func() error {
			data.Gallery = uc.repo.Gallery(gctx)
			return nil
		})
		g.Go(func() error {
			data.Services = uc.repo.Services(gctx)
			return nil
		})
		g.Go(func() error {
			data.Testimonials = uc.repo.Testimonials(gctx)
			return nil
		})
		g.Go(func() error {
			data.Hero = uc.repo.Hero(gctx)
			return nil
		})
		g.Go(func() error {
			data.VideoShowcase = uc.repo.VideoShowcase(gctx)
			return nil
		})
		err := g.Wait()
		return data, err
	})
}

// Evict clears key locally, or the whole cache when key is empty.
func (uc *ContentUsecase) Evict(ctx context.Context, key string) error {
	if key == "" {
		return uc.cache.Clear(ctx)
	}
	return uc.cache.ClearEntry(ctx, key)
}

// Invalidate evicts key, or everything when key is empty, and tells the
// other instances to do the same.
func (uc *ContentUsecase) Invalidate(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "Content.Usecase.Invalidate")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	if err := uc.Evict(ctx, key); err != nil {
		span.RecordError(err)
		return err
	}

	if uc.publisher == nil {
		return nil
	}

	event := domain.Event{Type: domain.EventCacheInvalidated, Key: key, Time: time.Now()}
	if key == "" {
		event.Type = domain.EventCacheCleared
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		span.RecordError(err)
		slog.WarnContext(
			ctx, "Failed to publish cache invalidation",
			slog.String("key", key),
			slog.String("error", err.Error()),
			slog.String("module", "usecase"),
		)
	}
	return nil
}

// InvalidateAll is Invalidate for every key.
func (uc *ContentUsecase) InvalidateAll(ctx context.Context) error {
	return uc.Invalidate(ctx, "")
}
