package service

import (
	"context"
	"log/slog"

	"github.com/voltstore/catalog-api/internal/blobstore"
	"github.com/voltstore/catalog-api/internal/metrics"
	"github.com/voltstore/catalog-api/internal/model"
	"github.com/voltstore/catalog-api/internal/repository"
	"github.com/voltstore/catalog-api/internal/sqs"
)

type SiteConfigService struct {
	repo      repository.SiteConfigRepository
	blobs     blobstore.Store
	publisher *sqs.Publisher
}

func NewSiteConfigService(repo repository.SiteConfigRepository, blobs blobstore.Store, publisher *sqs.Publisher) *SiteConfigService {
	return &SiteConfigService{
		repo:      repo,
		blobs:     blobs,
		publisher: publisher,
	}
}

// SiteConfigUpdateInput carries the parsed fields of a configuration update.
// Nil pointers mean the field was absent from the request and stays untouched.
type SiteConfigUpdateInput struct {
	LandingTitle       *string
	LandingDescription *string
	AboutText          *string
	ServicesText       *string
	LandingBanner      *blobstore.File
	Logo               *blobstore.File
}

// Get returns the site configuration, creating the default one on first
// access.
func (ss *SiteConfigService) Get(ctx context.Context) (*model.SiteConfig, error) {
	return ss.repo.GetOrCreate(ctx)
}

func (ss *SiteConfigService) Update(ctx context.Context, input SiteConfigUpdateInput) (*model.SiteConfig, error) {
	// Load first so the replaced blob ids are known for cleanup afterwards.
	// This also creates the singleton when a write is the very first access.
	current, err := ss.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	update := repository.SiteConfigUpdate{
		LandingTitle:       input.LandingTitle,
		LandingDescription: input.LandingDescription,
		AboutText:          input.AboutText,
		ServicesText:       input.ServicesText,
	}

	var newBlobs []string
	var replaced []string

	if input.LandingBanner != nil {
		obj, err := ss.blobs.Upload(ctx, siteConfigFolder, *input.LandingBanner)
		if err != nil {
			return nil, err
		}
		metrics.ImagesUploaded.Inc()
		newBlobs = append(newBlobs, obj.PublicID)
		update.LandingBanner = &repository.ImagePair{URL: obj.URL, PublicID: obj.PublicID}
		replaced = append(replaced, current.LandingBannerPublicID)
	}

	if input.Logo != nil {
		obj, err := ss.blobs.Upload(ctx, siteConfigFolder, *input.Logo)
		if err != nil {
			releaseBlobs(ss.blobs, newBlobs)
			return nil, err
		}
		metrics.ImagesUploaded.Inc()
		newBlobs = append(newBlobs, obj.PublicID)
		update.Logo = &repository.ImagePair{URL: obj.URL, PublicID: obj.PublicID}
		replaced = append(replaced, current.LogoPublicID)
	}

	conf, err := ss.repo.Update(ctx, update)
	if err != nil {
		releaseBlobs(ss.blobs, newBlobs)
		return nil, err
	}

	releaseBlobs(ss.blobs, replaced)

	// Increment metrics
	metrics.SiteConfigUpdates.Inc()

	ss.publishEvent(ctx, conf)

	return conf, nil
}

func (ss *SiteConfigService) publishEvent(ctx context.Context, conf *model.SiteConfig) {
	if ss.publisher == nil {
		return
	}
	msg := sqs.CatalogEventMessage{
		Action:     sqs.ActionSettingsUpdated,
		EntityType: sqs.EntitySiteConfig,
		EntityID:   conf.ID.Hex(),
		Name:       conf.LandingTitle,
	}
	if err := ss.publisher.PublishCatalogEvent(ctx, msg); err != nil {
		// Log error but don't fail the request
		slog.Error("Failed to send SQS message", slog.Any("err", err), slog.String("action", sqs.ActionSettingsUpdated))
	}
}
