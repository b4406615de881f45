package repository

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hashtagchobi/chobi-site/internal/domain"
	"github.com/hashtagchobi/chobi-site/internal/infra/docstore"
)

var tracer = otel.Tracer("repository")

var errStoreUnavailable = errors.New("document store is not configured")

// Reporter receives the errors the content fetchers recovered from.
type Reporter interface {
	ReportFetchError(ctx context.Context, area string, err error)
}

type ReporterFunc func(ctx context.Context, area string, err error)

func (f ReporterFunc) ReportFetchError(ctx context.Context, area string, err error) {
	f(ctx, area, err)
}

// LogReporter writes recovered errors as warnings.
type LogReporter struct{}

func (LogReporter) ReportFetchError(ctx context.Context, area string, err error) {
	attrs := []any{
		slog.String("area", area),
		slog.String("error", err.Error()),
		slog.String("module", "repository"),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		attrs = append(attrs, slog.String("traceID", sc.TraceID().String()))
	}
	slog.WarnContext(ctx, "Content fetch failed, serving fallback", attrs...)
}

// ContentRepository reads the site's content areas from the document store.
// None of its methods fail: a missing document yields the default record, a
// failed read yields the default record or an empty list, and partially
// written documents are completed field by field from the defaults.
type ContentRepository struct {
	store    docstore.Store
	reporter Reporter
	degraded atomic.Int64
}

func NewContentRepository(store docstore.Store, reporter Reporter) *ContentRepository {
	if reporter == nil {
		reporter = LogReporter{}
	}
	return &ContentRepository{store: store, reporter: reporter}
}

// Degraded is the number of reads that fell back because of an error.
func (r *ContentRepository) Degraded() int64 {
	return r.degraded.Load()
}

func (r *ContentRepository) degrade(ctx context.Context, area string, err error) {
	r.degraded.Add(1)
	r.reporter.ReportFetchError(ctx, area, err)
}

// document returns the raw fields of collection/id, or nil when the document
// is absent or could not be read.
func (r *ContentRepository) document(ctx context.Context, collection, id string) map[string]any {
	ctx, span := tracer.Start(ctx, "Content.Repository.Document")
	defer span.End()
	span.SetAttributes(attribute.String("collection", collection), attribute.String("id", id))

	if r.store == nil {
		r.degrade(ctx, collection, errStoreUnavailable)
		return nil
	}

	doc, err := r.store.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		err = errors.Wrapf(err, "get %s/%s", collection, id)
		span.RecordError(err)
		r.degrade(ctx, collection, err)
		return nil
	}
	if doc == nil {
		return nil
	}
	return doc.Data
}

func (r *ContentRepository) collection(ctx context.Context, collection string, order *docstore.Order) []docstore.Document {
	ctx, span := tracer.Start(ctx, "Content.Repository.Collection")
	defer span.End()
	span.SetAttributes(attribute.String("collection", collection))

	if r.store == nil {
		r.degrade(ctx, collection, errStoreUnavailable)
		return nil
	}

	docs, err := r.store.List(ctx, collection, order)
	if err != nil {
		err = errors.Wrapf(err, "list %s", collection)
		span.RecordError(err)
		r.degrade(ctx, collection, err)
		return nil
	}
	return docs
}

func (r *ContentRepository) About(ctx context.Context) domain.AboutData {
	def := domain.DefaultAboutData()
	data := r.document(ctx, domain.CollectionAbout, domain.MainDocument)
	if data == nil {
		return def
	}

	about := domain.AboutData{
		Title:       stringOr(data, "title", def.Title),
		Subtitle:    stringOr(data, "subtitle", def.Subtitle),
		Description: stringOr(data, "description", def.Description),
		Images:      def.Images,
		Stats:       def.Stats,
	}
	if items, ok := maps(data, "images"); ok {
		about.Images = make([]domain.AboutImage, 0, len(items))
		for _, item := range items {
			about.Images = append(about.Images, domain.AboutImage{
				URL:          stringOr(item, "url", ""),
				Alt:          stringOr(item, "alt", ""),
				CloudinaryID: stringOr(item, "cloudinaryId", ""),
			})
		}
	}
	if items, ok := maps(data, "stats"); ok {
		about.Stats = make([]domain.AboutStat, 0, len(items))
		for _, item := range items {
			about.Stats = append(about.Stats, domain.AboutStat{
				Label: stringOr(item, "label", ""),
				Value: stringOr(item, "value", ""),
			})
		}
	}
	return about
}

func (r *ContentRepository) Hero(ctx context.Context) domain.HeroData {
	def := domain.DefaultHeroData()
	data := r.document(ctx, domain.CollectionHero, domain.MainDocument)
	if data == nil {
		return def
	}
	return domain.HeroData{
		Title:              stringOr(data, "title", def.Title),
		Subtitle:           stringOr(data, "subtitle", def.Subtitle),
		Description:        stringOr(data, "description", def.Description),
		CTAText:            stringOr(data, "ctaText", def.CTAText),
		BackgroundImage:    stringOr(data, "backgroundImage", def.BackgroundImage),
		FooterImage:        stringOr(data, "footerImage", def.FooterImage),
		CloudinaryID:       stringOr(data, "cloudinaryId", ""),
		FooterCloudinaryID: stringOr(data, "footerCloudinaryId", ""),
	}
}

func (r *ContentRepository) VideoShowcase(ctx context.Context) domain.VideoShowcaseData {
	def := domain.DefaultVideoShowcaseData()
	data := r.document(ctx, domain.CollectionVideoShowcase, domain.MainDocument)
	if data == nil {
		return def
	}
	return domain.VideoShowcaseData{
		Title:        stringOr(data, "title", def.Title),
		Subtitle:     stringOr(data, "subtitle", def.Subtitle),
		Description:  stringOr(data, "description", def.Description),
		VideoURL:     stringOr(data, "videoUrl", def.VideoURL),
		VideoURL2:    stringOr(data, "videoUrl2", def.VideoURL2),
		ThumbnailURL: stringOr(data, "thumbnailUrl", def.ThumbnailURL),
		CloudinaryID: stringOr(data, "cloudinaryId", ""),
	}
}

func (r *ContentRepository) ExtendedGallery(ctx context.Context) domain.ExtendedGalleryDoc {
	data := r.document(ctx, domain.CollectionExtendedGallery, domain.MainDocument)
	if data == nil {
		return domain.DefaultExtendedGalleryDoc()
	}

	doc := domain.ExtendedGalleryDoc{
		PageContent: pageContent(data),
		Images:      []domain.ExtendedGalleryImage{},
	}
	if items, ok := maps(data, "images"); ok {
		for _, item := range items {
			doc.Images = append(doc.Images, extendedGalleryImage(item))
		}
	}
	return doc
}

func (r *ContentRepository) CoupleImagesExtended(ctx context.Context) domain.CoupleImagesExtendedDoc {
	data := r.document(ctx, domain.CollectionCoupleImagesExtended, domain.MainDocument)
	if data == nil {
		return domain.DefaultCoupleImagesExtendedDoc()
	}

	doc := domain.CoupleImagesExtendedDoc{
		PageContent: pageContent(data),
		Images:      []domain.CoupleImagesExtendedImage{},
	}
	if items, ok := maps(data, "images"); ok {
		for _, item := range items {
			doc.Images = append(doc.Images, domain.CoupleImagesExtendedImage{
				ExtendedGalleryImage: extendedGalleryImage(item),
				CoupleSelectionTitle: stringOr(item, "coupleSelectionTitle", ""),
			})
		}
	}
	return doc
}

// VideoGalleryHome returns nil when videoGallery/home does not exist.
func (r *ContentRepository) VideoGalleryHome(ctx context.Context) *domain.VideoGalleryHome {
	data := r.document(ctx, domain.CollectionVideoGallery, domain.HomeDocument)
	if data == nil {
		return nil
	}
	return &domain.VideoGalleryHome{
		Title:        stringOr(data, "title", ""),
		Subtitle:     stringOr(data, "subtitle", ""),
		Description:  stringOr(data, "description", ""),
		VideoURL:     stringOr(data, "videoUrl", ""),
		ThumbnailURL: stringOr(data, "thumbnailUrl", ""),
	}
}

// PrivacyPolicyMarkdown returns the policy source, or the built-in policy
// when privacyPolicy/main is missing or empty.
func (r *ContentRepository) PrivacyPolicyMarkdown(ctx context.Context) string {
	data := r.document(ctx, domain.CollectionPrivacyPolicy, domain.MainDocument)
	if data == nil {
		return domain.DefaultPrivacyPolicyMarkdown
	}
	for _, key := range []string{"markdown", "content"} {
		if s, ok := docstore.String(data, key); ok && s != "" {
			return s
		}
	}
	return domain.DefaultPrivacyPolicyMarkdown
}

func (r *ContentRepository) Gallery(ctx context.Context) []domain.GalleryItem {
	docs := r.collection(ctx, domain.CollectionGallery, docstore.OrderBy("createdAt", docstore.Desc))
	items := make([]domain.GalleryItem, 0, len(docs))
	for _, doc := range docs {
		def := domain.DefaultGalleryItem()
		items = append(items, domain.GalleryItem{
			ID:           doc.ID,
			URL:          stringOr(doc.Data, "url", def.URL),
			Alt:          stringOr(doc.Data, "alt", def.Alt),
			Category:     stringOr(doc.Data, "category", def.Category),
			Title:        stringOr(doc.Data, "title", def.Title),
			Description:  stringOr(doc.Data, "description", def.Description),
			CloudinaryID: stringOr(doc.Data, "cloudinaryId", def.CloudinaryID),
			CreatedAt:    timeOf(doc.Data, "createdAt"),
		})
	}
	return items
}

func (r *ContentRepository) Services(ctx context.Context) []domain.Service {
	docs := r.collection(ctx, domain.CollectionServices, docstore.OrderBy("order", docstore.Asc))
	items := make([]domain.Service, 0, len(docs))
	for _, doc := range docs {
		def := domain.DefaultService()
		items = append(items, domain.Service{
			ID:           doc.ID,
			Title:        stringOr(doc.Data, "title", def.Title),
			Description:  stringOr(doc.Data, "description", def.Description),
			Image:        stringOr(doc.Data, "image", def.Image),
			Price:        stringOr(doc.Data, "price", def.Price),
			Order:        intOr(doc.Data, "order", def.Order),
			Category:     stringOr(doc.Data, "category", def.Category),
			CloudinaryID: stringOr(doc.Data, "cloudinaryId", def.CloudinaryID),
		})
	}
	return items
}

func (r *ContentRepository) Testimonials(ctx context.Context) []domain.Testimonial {
	docs := r.collection(ctx, domain.CollectionTestimonials, docstore.OrderBy("createdAt", docstore.Desc))
	items := make([]domain.Testimonial, 0, len(docs))
	for _, doc := range docs {
		def := domain.DefaultTestimonial()
		items = append(items, domain.Testimonial{
			ID:           doc.ID,
			Name:         stringOr(doc.Data, "name", def.Name),
			Role:         stringOr(doc.Data, "role", def.Role),
			Content:      stringOr(doc.Data, "content", def.Content),
			Rating:       intOr(doc.Data, "rating", def.Rating),
			Image:        stringOr(doc.Data, "image", def.Image),
			CloudinaryID: stringOr(doc.Data, "cloudinaryId", def.CloudinaryID),
			CreatedAt:    timeOf(doc.Data, "createdAt"),
		})
	}
	return items
}

func (r *ContentRepository) CoupleSelections(ctx context.Context) []domain.CoupleSelection {
	docs := r.collection(ctx, domain.CollectionCoupleSelections, nil)
	items := make([]domain.CoupleSelection, 0, len(docs))
	for _, doc := range docs {
		def := domain.DefaultCoupleSelection()
		items = append(items, domain.CoupleSelection{
			ID:          doc.ID,
			Title:       stringOr(doc.Data, "title", def.Title),
			Description: stringOr(doc.Data, "description", def.Description),
			Image:       stringOr(doc.Data, "image", def.Image),
		})
	}
	return items
}

func (r *ContentRepository) Videos(ctx context.Context) []domain.Video {
	docs := r.collection(ctx, domain.CollectionVideos, nil)
	items := make([]domain.Video, 0, len(docs))
	for _, doc := range docs {
		def := domain.DefaultVideo()
		featured, ok := docstore.Bool(doc.Data, "featured")
		if !ok {
			featured = def.Featured
		}
		items = append(items, domain.Video{
			ID:           doc.ID,
			Title:        stringOr(doc.Data, "title", def.Title),
			Description:  stringOr(doc.Data, "description", def.Description),
			Category:     stringOr(doc.Data, "category", def.Category),
			YouTubeURL:   stringOr(doc.Data, "youtubeUrl", def.YouTubeURL),
			ThumbnailURL: stringOr(doc.Data, "thumbnailUrl", def.ThumbnailURL),
			Duration:     stringOr(doc.Data, "duration", def.Duration),
			Featured:     featured,
		})
	}
	return items
}

func extendedGalleryImage(item map[string]any) domain.ExtendedGalleryImage {
	def := domain.DefaultExtendedGalleryImage()
	return domain.ExtendedGalleryImage{
		ID:           stringOr(item, "id", def.ID),
		URL:          stringOr(item, "url", def.URL),
		Alt:          stringOr(item, "alt", def.Alt),
		Category:     stringOr(item, "category", def.Category),
		Title:        stringOr(item, "title", def.Title),
		Description:  stringOr(item, "description", def.Description),
		Size:         stringOr(item, "size", def.Size),
		CloudinaryID: stringOr(item, "cloudinaryId", def.CloudinaryID),
	}
}

// pageContent is free-form, so it is reduced to plain JSON values. A cached
// copy then decodes to exactly what a live read returns.
func pageContent(data map[string]any) map[string]any {
	m, ok := docstore.Map(data, "pageContent")
	if !ok {
		return map[string]any{}
	}
	plain, _ := docstore.Plain(m).(map[string]any)
	if plain == nil {
		return map[string]any{}
	}
	return plain
}

func stringOr(data map[string]any, key, def string) string {
	if s, ok := docstore.String(data, key); ok {
		return s
	}
	return def
}

func intOr(data map[string]any, key string, def int) int {
	if n, ok := docstore.Int(data, key); ok {
		return n
	}
	return def
}

func timeOf(data map[string]any, key string) *time.Time {
	t, ok := docstore.Time(data, key)
	if !ok {
		return nil
	}
	t = t.UTC()
	return &t
}

// maps returns the map elements of a list field. ok is false when the field
// is not a list at all.
func maps(data map[string]any, key string) ([]map[string]any, bool) {
	list, ok := docstore.Slice(data, key)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}
