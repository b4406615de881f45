package usecase

import (
	"context"

	"github.com/hashtagchobi/chobi-site/internal/domain"
	"github.com/hashtagchobi/chobi-site/internal/markdown"
)

// ContentRepository reads normalized content. Its methods never fail; read
// errors surface as default records or empty lists.
type ContentRepository interface {
	About(ctx context.Context) domain.AboutData
	Hero(ctx context.Context) domain.HeroData
	VideoShowcase(ctx context.Context) domain.VideoShowcaseData
	ExtendedGallery(ctx context.Context) domain.ExtendedGalleryDoc
	CoupleImagesExtended(ctx context.Context) domain.CoupleImagesExtendedDoc
	VideoGalleryHome(ctx context.Context) *domain.VideoGalleryHome
	PrivacyPolicyMarkdown(ctx context.Context) string
	Gallery(ctx context.Context) []domain.GalleryItem
	Services(ctx context.Context) []domain.Service
	Testimonials(ctx context.Context) []domain.Testimonial
	CoupleSelections(ctx context.Context) []domain.CoupleSelection
	Videos(ctx context.Context) []domain.Video
}

// EnquiryRepository persists contact form submissions.
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry domain.Enquiry) error
	Get(ctx context.Context, id string) (domain.Enquiry, error)
	Recent(ctx context.Context, limit int) ([]domain.Enquiry, error)
}

// Publisher fans cache invalidation events out to other instances and
// realtime subscribers.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// PageRenderer turns a markdown document into HTML.
type PageRenderer interface {
	Render(src []byte) (*markdown.Page, error)
}
