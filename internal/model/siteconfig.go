package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteConfig is the singleton document holding storefront copy and imagery.
// At most one instance exists; the repository creates it on first access.
type SiteConfig struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LandingTitle          string             `bson:"landingTitle" json:"landingTitle"`
	LandingDescription    string             `bson:"landingDescription" json:"landingDescription"`
	AboutText             string             `bson:"aboutText" json:"aboutText"`
	ServicesText          string             `bson:"servicesText" json:"servicesText"`
	LandingBanner         string             `bson:"landingBanner" json:"landingBanner"`
	LandingBannerPublicID string             `bson:"landingBannerPublicId" json:"landingBannerPublicId"`
	Logo                  string             `bson:"logo" json:"logo"`
	LogoPublicID          string             `bson:"logoPublicId" json:"logoPublicId"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}
