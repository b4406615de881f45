package domain

import "strings"

// Document store locations read by the site.
const (
	CollectionAbout                = "about"
	CollectionHero                 = "hero"
	CollectionVideoShowcase        = "videoShowcase"
	CollectionExtendedGallery      = "extendedGallery"
	CollectionCoupleImagesExtended = "coupleImagesExtended"
	CollectionVideoGallery         = "videoGallery"
	CollectionPrivacyPolicy        = "privacyPolicy"
	CollectionGallery              = "gallery"
	CollectionServices             = "services"
	CollectionTestimonials         = "testimonials"
	CollectionCoupleSelections     = "coupleSelections"
	CollectionVideos               = "videos"

	MainDocument = "main"
	HomeDocument = "home"
)

// Cache keys, one per content area.
const (
	CacheKeyAbout                = "about-data"
	CacheKeyHero                 = "hero-data"
	CacheKeyVideoShowcase        = "video-showcase-data"
	CacheKeyExtendedGallery      = "extended-gallery-data"
	CacheKeyCoupleImagesExtended = "couple-images-extended-data"
	CacheKeyGalleryAll           = "gallery-all"
	CacheKeyServicesAll          = "services-all"
	CacheKeyTestimonialsAll      = "testimonials-all"
	CacheKeyCoupleSelectionsAll  = "couple-selections-all"
	CacheKeyVideosAll            = "videos-all"
	CacheKeyVideoGalleryHome     = "video-gallery-home"
	CacheKeyPrivacyPolicy        = "privacy-policy"
	CacheKeyWebsiteAll           = "website-all-data"

	cacheKeyGalleryCategoryPrefix = "gallery-category-"
)

// GalleryCategoryCacheKey derives the cache key for a category filter.
func GalleryCategoryCacheKey(category string) string {
	return cacheKeyGalleryCategoryPrefix + strings.ToLower(category)
}

// Event types pushed to realtime subscribers.
const (
	EventCacheInvalidated = "cache.invalidated"
	EventCacheCleared     = "cache.cleared"
)

// InvalidationChannel is the pub/sub channel shared by every instance.
const InvalidationChannel = "chobi:cache:invalidation"
