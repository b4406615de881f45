package domain

import (
	_ "embed"
)

// DefaultPrivacyPolicyMarkdown is served when privacyPolicy/main does not exist.
//
//go:embed privacy_policy.md
var DefaultPrivacyPolicyMarkdown string

// DefaultFeaturedTestimonials is the number of testimonials shown on the home page.
const DefaultFeaturedTestimonials = 3

// DefaultAboutData is the fallback for about/main.
func DefaultAboutData() AboutData {
	return AboutData{
		Title:       "About Us",
		Subtitle:    "Preserving Love Stories, Frame by Frame",
		Description: "With an artistic eye and a passion for storytelling, we have been capturing the magic of weddings since 2016.",
		Images: []AboutImage{
			{URL: "/placeholder.svg", Alt: "About image placeholder"},
		},
		Stats: []AboutStat{
			{Label: "Weddings Captured", Value: "500+"},
			{Label: "Years Experience", Value: "8+"},
			{Label: "Client Satisfaction", Value: "98%"},
		},
	}
}

// DefaultHeroData is the fallback for hero/main.
func DefaultHeroData() HeroData {
	return HeroData{
		Title:           "Capturing Life's Beautiful Moments",
		Subtitle:        "Professional Photography Services",
		Description:     "From weddings to corporate events, we specialize in creating timeless memories through our lens.",
		CTAText:         "Book Your Session",
		BackgroundImage: "/src/assets/image/HERO.jpg",
		FooterImage:     "",
	}
}

// DefaultVideoShowcaseData is the fallback for videoShowcase/main.
func DefaultVideoShowcaseData() VideoShowcaseData {
	return VideoShowcaseData{
		Title:        "Our Story in Motion",
		Subtitle:     "Cinematic Wedding Stories",
		Description:  "Experience the magic of our wedding photography and videography through this cinematic showcase. Watch how we capture the essence of love, joy, and celebration in every frame.",
		VideoURL:     "https://www.youtube.com/watch?v=XDp_YjH62B4",
		VideoURL2:    "https://www.youtube.com/watch?v=XDp_YjH62B4",
		ThumbnailURL: "/src/assets/image/VIDEO_THUMBNAIL.jpg",
	}
}

// DefaultExtendedGalleryDoc is the fallback for extendedGallery/main.
func DefaultExtendedGalleryDoc() ExtendedGalleryDoc {
	return ExtendedGalleryDoc{
		PageContent: map[string]any{},
		Images:      []ExtendedGalleryImage{},
	}
}

// DefaultCoupleImagesExtendedDoc is the fallback for coupleImagesExtended/main.
func DefaultCoupleImagesExtendedDoc() CoupleImagesExtendedDoc {
	return CoupleImagesExtendedDoc{
		PageContent: map[string]any{},
		Images:      []CoupleImagesExtendedImage{},
	}
}

// Item defaults used to complete partially written collection documents.

func DefaultGalleryItem() GalleryItem {
	return GalleryItem{}
}

func DefaultService() Service {
	return Service{}
}

func DefaultTestimonial() Testimonial {
	return Testimonial{Rating: 5}
}

func DefaultCoupleSelection() CoupleSelection {
	return CoupleSelection{}
}

func DefaultExtendedGalleryImage() ExtendedGalleryImage {
	return ExtendedGalleryImage{Size: "medium"}
}

func DefaultVideo() Video {
	return Video{Category: "Wedding"}
}

// SampleVideos is shown on the video gallery while the videos collection is empty.
func SampleVideos() []Video {
	return []Video{
		{
			ID:           "1",
			Title:        "Romantic Wedding Ceremony",
			Description:  "A beautiful outdoor ceremony capturing the most precious moments of love and commitment.",
			Category:     "Wedding",
			YouTubeURL:   "https://www.youtube.com/watch?v=XDp_YjH62B4",
			ThumbnailURL: "/src/assets/image/WEDDING.jpg",
			Duration:     "3:45",
			Featured:     true,
		},
		{
			ID:           "2",
			Title:        "Corporate Event Highlights",
			Description:  "Professional coverage of corporate events and business celebrations.",
			Category:     "Corporate",
			YouTubeURL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			ThumbnailURL: "/src/assets/image/CORPORATE.jpg",
			Duration:     "2:30",
		},
		{
			ID:           "3",
			Title:        "Reception Party Magic",
			Description:  "The joy and celebration of wedding receptions captured in cinematic style.",
			Category:     "Reception",
			YouTubeURL:   "https://www.youtube.com/watch?v=XDp_YjH62B4",
			ThumbnailURL: "/src/assets/image/RECEPTION.jpg",
			Duration:     "4:20",
			Featured:     true,
		},
		{
			ID:           "4",
			Title:        "Behind The Scenes",
			Description:  "A glimpse into our creative process and the making of beautiful memories.",
			Category:     "BTS",
			YouTubeURL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			ThumbnailURL: "/src/assets/image/BTS.jpg",
			Duration:     "5:15",
		},
		{
			ID:           "5",
			Title:        "Destination Wedding Dreams",
			Description:  "Exotic locations and breathtaking scenery for the perfect destination wedding.",
			Category:     "Destination",
			YouTubeURL:   "https://www.youtube.com/watch?v=XDp_YjH62B4",
			ThumbnailURL: "/src/assets/image/DESTINATION.jpg",
			Duration:     "6:30",
			Featured:     true,
		},
		{
			ID:           "6",
			Title:        "Social Media Highlights",
			Description:  "Quick, engaging content perfect for sharing your special moments.",
			Category:     "Social",
			YouTubeURL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			ThumbnailURL: "/src/assets/image/SOCIAL.jpg",
			Duration:     "1:45",
		},
	}
}
