package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/voltstore/catalog-api/internal/blobstore"
	"github.com/voltstore/catalog-api/internal/model"
	"github.com/voltstore/catalog-api/internal/repository"
	"github.com/voltstore/catalog-api/internal/service"
	"github.com/voltstore/catalog-api/internal/sqs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockSiteConfigRepository is a mock implementation of repository.SiteConfigRepository
type MockSiteConfigRepository struct {
	mock.Mock
}

func (m *MockSiteConfigRepository) GetOrCreate(ctx context.Context) (*model.SiteConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SiteConfig), args.Error(1)
}

func (m *MockSiteConfigRepository) Update(ctx context.Context, update repository.SiteConfigUpdate) (*model.SiteConfig, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SiteConfig), args.Error(1)
}

func TestGetSettings(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSiteConfigRepository)

	conf := &model.SiteConfig{ID: primitive.NewObjectID(), LandingTitle: "Volt Store"}
	mockRepo.On("GetOrCreate", ctx).Return(conf, nil)

	configService := service.NewSiteConfigService(mockRepo, newMockBlobStore(), nil)

	got, err := configService.Get(ctx)

	require.NoError(t, err)
	assert.Equal(t, conf, got)

	mockRepo.AssertExpectations(t)
}

func TestUpdateSettingsTextOnly(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSiteConfigRepository)
	mockBlobs := newMockBlobStore()

	current := &model.SiteConfig{ID: primitive.NewObjectID()}
	mockRepo.On("GetOrCreate", ctx).Return(current, nil)

	updated := &model.SiteConfig{ID: current.ID, LandingTitle: "Volt Store"}
	var captured repository.SiteConfigUpdate
	mockRepo.On("Update", ctx, mock.AnythingOfType("repository.SiteConfigUpdate")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(repository.SiteConfigUpdate)
		}).
		Return(updated, nil)

	configService := service.NewSiteConfigService(mockRepo, mockBlobs, nil)

	title := "Volt Store"
	about := ""
	got, err := configService.Update(ctx, service.SiteConfigUpdateInput{
		LandingTitle: &title,
		AboutText:    &about,
	})

	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NotNil(t, captured.LandingTitle)
	assert.Equal(t, "Volt Store", *captured.LandingTitle)
	require.NotNil(t, captured.AboutText)
	assert.Equal(t, "", *captured.AboutText)
	assert.Nil(t, captured.LandingDescription)
	assert.Nil(t, captured.ServicesText)
	assert.Nil(t, captured.LandingBanner)
	assert.Nil(t, captured.Logo)

	mockBlobs.AssertNotCalled(t, "Upload")
	mockRepo.AssertExpectations(t)
}

func TestUpdateSettingsReplacesBanner(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSiteConfigRepository)
	mockBlobs := newMockBlobStore()

	current := &model.SiteConfig{
		ID:                    primitive.NewObjectID(),
		LandingBanner:         "https://img.test/siteconfig/old-banner.png",
		LandingBannerPublicID: "siteconfig/old-banner.png",
	}
	mockRepo.On("GetOrCreate", ctx).Return(current, nil)

	mockBlobs.On("Upload", ctx, "siteconfig", mock.AnythingOfType("blobstore.File")).
		Return(blobstore.Object{URL: "https://img.test/siteconfig/new-banner.png", PublicID: "siteconfig/new-banner.png"}, nil)
	mockBlobs.On("Delete", mock.Anything, "siteconfig/old-banner.png").Return(nil)

	updated := &model.SiteConfig{ID: current.ID, LandingBanner: "https://img.test/siteconfig/new-banner.png"}
	var captured repository.SiteConfigUpdate
	mockRepo.On("Update", ctx, mock.AnythingOfType("repository.SiteConfigUpdate")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(repository.SiteConfigUpdate)
		}).
		Return(updated, nil)

	configService := service.NewSiteConfigService(mockRepo, mockBlobs, nil)

	banner := imageFile("new-banner.png")
	_, err := configService.Update(ctx, service.SiteConfigUpdateInput{LandingBanner: &banner})

	require.NoError(t, err)

	require.NotNil(t, captured.LandingBanner)
	assert.Equal(t, "https://img.test/siteconfig/new-banner.png", captured.LandingBanner.URL)
	assert.Equal(t, "siteconfig/new-banner.png", captured.LandingBanner.PublicID)

	assert.Equal(t, []string{"siteconfig/old-banner.png"}, waitForDeletes(t, mockBlobs, 1))

	mockRepo.AssertExpectations(t)
}

func TestUpdateSettingsFirstImageReleasesNothing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSiteConfigRepository)
	mockBlobs := newMockBlobStore()

	// No logo stored yet, so the update must not release anything.
	current := &model.SiteConfig{ID: primitive.NewObjectID()}
	mockRepo.On("GetOrCreate", ctx).Return(current, nil)

	mockBlobs.On("Upload", ctx, "siteconfig", mock.AnythingOfType("blobstore.File")).
		Return(blobstore.Object{URL: "https://img.test/siteconfig/logo.png", PublicID: "siteconfig/logo.png"}, nil)

	updated := &model.SiteConfig{ID: current.ID, Logo: "https://img.test/siteconfig/logo.png"}
	mockRepo.On("Update", ctx, mock.AnythingOfType("repository.SiteConfigUpdate")).Return(updated, nil)

	configService := service.NewSiteConfigService(mockRepo, mockBlobs, nil)

	logo := imageFile("logo.png")
	_, err := configService.Update(ctx, service.SiteConfigUpdateInput{Logo: &logo})

	require.NoError(t, err)

	select {
	case id := <-mockBlobs.deleted:
		t.Fatalf("unexpected blob deletion: %s", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUpdateSettingsPublishesEvent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSiteConfigRepository)
	client := &capturingSQSClient{}

	current := &model.SiteConfig{ID: primitive.NewObjectID()}
	mockRepo.On("GetOrCreate", ctx).Return(current, nil)

	updated := &model.SiteConfig{ID: current.ID, LandingTitle: "Volt Store"}
	mockRepo.On("Update", ctx, mock.AnythingOfType("repository.SiteConfigUpdate")).Return(updated, nil)

	configService := service.NewSiteConfigService(mockRepo, newMockBlobStore(), sqs.NewPublisher(client, "https://sqs.test/catalog-events"))

	title := "Volt Store"
	_, err := configService.Update(ctx, service.SiteConfigUpdateInput{LandingTitle: &title})

	require.NoError(t, err)

	events := client.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, sqs.ActionSettingsUpdated, events[0].Action)
	assert.Equal(t, sqs.EntitySiteConfig, events[0].EntityType)
	assert.Equal(t, current.ID.Hex(), events[0].EntityID)
	assert.Equal(t, "Volt Store", events[0].Name)
}
