package domain

import "time"

// AboutImage is one picture on the about section.
type AboutImage struct {
	URL          string `json:"url"`
	Alt          string `json:"alt"`
	CloudinaryID string `json:"cloudinaryId,omitempty"`
}

// AboutStat is a headline number such as "Weddings Captured".
type AboutStat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AboutData is the singleton about/main document.
type AboutData struct {
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle"`
	Description string       `json:"description"`
	Images      []AboutImage `json:"images"`
	Stats       []AboutStat  `json:"stats"`
}

// HeroData is the singleton hero/main document.
type HeroData struct {
	Title              string `json:"title"`
	Subtitle           string `json:"subtitle"`
	Description        string `json:"description"`
	CTAText            string `json:"ctaText"`
	BackgroundImage    string `json:"backgroundImage"`
	FooterImage        string `json:"footerImage"`
	CloudinaryID       string `json:"cloudinaryId,omitempty"`
	FooterCloudinaryID string `json:"footerCloudinaryId,omitempty"`
}

// GalleryItem is one document of the gallery collection.
type GalleryItem struct {
	ID           string     `json:"_id"`
	URL          string     `json:"url"`
	Alt          string     `json:"alt"`
	Category     string     `json:"category"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	CloudinaryID string     `json:"cloudinaryId,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// Service is one offered photography package.
type Service struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	Price        string `json:"price"`
	Order        int    `json:"order"`
	Category     string `json:"category,omitempty"`
	CloudinaryID string `json:"cloudinaryId,omitempty"`
}

// Testimonial is a client review.
type Testimonial struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Content      string     `json:"content"`
	Rating       int        `json:"rating"`
	Image        string     `json:"image"`
	CloudinaryID string     `json:"cloudinaryId,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// VideoShowcaseData is the singleton videoShowcase/main document.
type VideoShowcaseData struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Description  string `json:"description"`
	VideoURL     string `json:"videoUrl"`
	VideoURL2    string `json:"videoUrl2"`
	ThumbnailURL string `json:"thumbnailUrl"`
	CloudinaryID string `json:"cloudinaryId,omitempty"`
}

// ExtendedGalleryImage is a tile of the full gallery page. Size is a layout
// tag: small, medium, large, wide or tall.
type ExtendedGalleryImage struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Alt          string `json:"alt"`
	Category     string `json:"category"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Size         string `json:"size"`
	CloudinaryID string `json:"cloudinaryId,omitempty"`
}

// ExtendedGalleryDoc is the extendedGallery/main document. PageContent is
// passed through untouched.
type ExtendedGalleryDoc struct {
	PageContent map[string]any         `json:"pageContent"`
	Images      []ExtendedGalleryImage `json:"images"`
}

// CoupleSelection is a featured couple linked to a detail page.
type CoupleSelection struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// CoupleImagesExtendedImage is a gallery tile tagged with the couple it belongs to.
type CoupleImagesExtendedImage struct {
	ExtendedGalleryImage
	CoupleSelectionTitle string `json:"coupleSelectionTitle"`
}

// CoupleImagesExtendedDoc is the coupleImagesExtended/main document.
type CoupleImagesExtendedDoc struct {
	PageContent map[string]any              `json:"pageContent"`
	Images      []CoupleImagesExtendedImage `json:"images"`
}

// CoupleDetail is the data behind /couple/:id.
type CoupleDetail struct {
	Selection  CoupleSelection             `json:"selection"`
	Images     []CoupleImagesExtendedImage `json:"images"`
	Categories []string                    `json:"categories"`
}

// Video is an entry of the video gallery.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	YouTubeURL   string `json:"youtubeUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
	Featured     bool   `json:"featured"`
}

// VideoGalleryHome is the featured video at the top of the video gallery,
// stored in videoGallery/home.
type VideoGalleryHome struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	Description  string `json:"description"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// PrivacyPolicy is the rendered privacy policy page.
type PrivacyPolicy struct {
	Title   string `json:"title"`
	Updated string `json:"updated,omitempty"`
	HTML    string `json:"html"`
}

// HomePage aggregates the sections rendered on /.
type HomePage struct {
	Hero             HeroData          `json:"hero"`
	Services         []Service         `json:"services"`
	Testimonials     []Testimonial     `json:"testimonials"`
	VideoShowcase    VideoShowcaseData `json:"videoShowcase"`
	CoupleSelections []CoupleSelection `json:"coupleSelections"`
}

// GalleryPage aggregates the gallery and its categories.
type GalleryPage struct {
	Gallery    []GalleryItem `json:"gallery"`
	Categories []string      `json:"categories"`
}

// WebsiteData is every content area in one payload.
type WebsiteData struct {
	About         AboutData         `json:"about"`
	Gallery       []GalleryItem     `json:"gallery"`
	Services      []Service         `json:"services"`
	Testimonials  []Testimonial     `json:"testimonials"`
	Hero          HeroData          `json:"hero"`
	VideoShowcase VideoShowcaseData `json:"videoShowcase"`
}
