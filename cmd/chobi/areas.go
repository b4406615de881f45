package main

import (
	"context"
	"sort"

	"github.com/hashtagchobi/chobi-site/internal/loader"
	"github.com/hashtagchobi/chobi-site/internal/usecase"
)

// contentSources names every content area a command can load.
func contentSources(content *usecase.ContentUsecase) map[string]loader.Source {
	sources := []loader.Source{
		loader.SourceOf("about", content.About),
		loader.SourceOf("hero", content.Hero),
		loader.SourceOf("video-showcase", content.VideoShowcase),
		loader.SourceOf("extended-gallery", content.ExtendedGallery),
		loader.SourceOf("couple-images", content.CoupleImagesExtended),
		loader.SourceOf("gallery", content.Gallery),
		loader.SourceOf("gallery-categories", func(ctx context.Context) ([]string, error) {
			return content.GalleryCategories(ctx), nil
		}),
		loader.SourceOf("services", content.Services),
		loader.SourceOf("testimonials", content.Testimonials),
		loader.SourceOf("couples", content.CoupleSelections),
		loader.SourceOf("videos", content.Videos),
		loader.SourceOf("video-categories", content.VideoCategories),
		loader.SourceOf("video-home", content.VideoGalleryHome),
		loader.SourceOf("privacy-policy", content.PrivacyPolicy),
		loader.SourceOf("home", content.HomePage),
		loader.SourceOf("gallery-page", content.GalleryPage),
		loader.SourceOf("website", content.AllWebsiteData),
	}

	result := make(map[string]loader.Source, len(sources))
	for _, src := range sources {
		result[src.Name] = src
	}
	return result
}

func sourceNames(sources map[string]loader.Source) []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
