package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/voltstore/catalog-api/internal/model"
	"github.com/voltstore/catalog-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// siteConfigDocID pins the singleton to a fixed document id so concurrent
// get-or-create upserts resolve against the unique _id index instead of
// racing two inserts.
var siteConfigDocID = mustObjectID("000000000000000000000001")

// SiteConfigRepository persists the single site configuration document.
type SiteConfigRepository struct {
	col *mongo.Collection
}

func NewSiteConfigRepository(store *Store) repository.SiteConfigRepository {
	return &SiteConfigRepository{col: store.db.Collection(siteConfigCollection)}
}

// GetOrCreate returns the configuration document, inserting an empty one on
// first access. The upsert keeps the operation atomic under concurrent calls.
func (r *SiteConfigRepository) GetOrCreate(ctx context.Context) (*model.SiteConfig, error) {
	update := bson.M{"$setOnInsert": bson.M{"updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conf model.SiteConfig
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": siteConfigDocID}, update, opts).Decode(&conf); err != nil {
		return nil, fmt.Errorf("failed to load site config: %w", err)
	}
	return &conf, nil
}

// Update applies the set fields and returns the resulting document, creating
// it first when no configuration was ever stored.
func (r *SiteConfigRepository) Update(ctx context.Context, update repository.SiteConfigUpdate) (*model.SiteConfig, error) {
	set := buildSiteConfigSet(update)
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conf model.SiteConfig
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": siteConfigDocID}, bson.M{"$set": set}, opts).Decode(&conf); err != nil {
		return nil, fmt.Errorf("failed to update site config: %w", err)
	}
	return &conf, nil
}

// buildSiteConfigSet maps the pointer fields of a partial update onto a $set
// document, leaving nil fields untouched in the store.
func buildSiteConfigSet(update repository.SiteConfigUpdate) bson.M {
	set := bson.M{}
	if update.LandingTitle != nil {
		set["landingTitle"] = *update.LandingTitle
	}
	if update.LandingDescription != nil {
		set["landingDescription"] = *update.LandingDescription
	}
	if update.AboutText != nil {
		set["aboutText"] = *update.AboutText
	}
	if update.ServicesText != nil {
		set["servicesText"] = *update.ServicesText
	}
	if update.LandingBanner != nil {
		set["landingBanner"] = update.LandingBanner.URL
		set["landingBannerPublicId"] = update.LandingBanner.PublicID
	}
	if update.Logo != nil {
		set["logo"] = update.Logo.URL
		set["logoPublicId"] = update.Logo.PublicID
	}
	return set
}

func mustObjectID(hex string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return oid
}
