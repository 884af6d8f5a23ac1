package repository

import (
	"context"
	"time"

	"github.com/voltstore/catalog-api/internal/model"
)

// ProductRepository manages product documents in the document store.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, query ProductQuery) ([]*model.Product, error)
	Update(ctx context.Context, id string, update ProductUpdate) (*model.Product, error)
	DeleteByID(ctx context.Context, id string) error
}

// SiteConfigRepository manages the singleton site configuration document.
type SiteConfigRepository interface {
	// GetOrCreate returns the configuration document, creating the default
	// instance atomically when none exists yet.
	GetOrCreate(ctx context.Context) (*model.SiteConfig, error)
	Update(ctx context.Context, update SiteConfigUpdate) (*model.SiteConfig, error)
}

// HealthChecker reports document store connectivity.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ProductQuery filters product listings. Results are always sorted by
// upload date, newest first.
type ProductQuery struct {
	// Status filters by exact value when non-empty. The value is matched as
	// given; endpoints that must reject unknown statuses validate before
	// building the query.
	Status string
}

// ImagePair is a stored image URL together with its blob-store identifier.
// The two values always travel together.
type ImagePair struct {
	URL      string
	PublicID string
}

// OptionalTime distinguishes "leave unchanged" (Set false) from "clear"
// (Set true, Value nil) and "overwrite" (Set true, Value non-nil).
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// ProductUpdate carries a partial product update. Nil fields leave the
// stored value unchanged; non-nil fields overwrite it, including with an
// empty value.
type ProductUpdate struct {
	Name            *string
	Price           *float64
	Description     *string
	Classifications *string
	Status          *model.Status
	StatusNote      *string
	ExpectedArrival OptionalTime
	// MainImage replaces the main image pair as a unit.
	MainImage *ImagePair
	// OtherPhotos replaces the whole photo list; there is no incremental
	// add/remove.
	OtherPhotos *[]ImagePair
}

// SiteConfigUpdate carries a partial update of the singleton configuration,
// with the same nil-means-unchanged semantics as ProductUpdate.
type SiteConfigUpdate struct {
	LandingTitle       *string
	LandingDescription *string
	AboutText          *string
	ServicesText       *string
	LandingBanner      *ImagePair
	Logo               *ImagePair
}
