package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog product document. The BSON field names mirror
// the JSON wire names so stored documents read the same as API responses.
type Product struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Price                float64            `bson:"price" json:"price"`
	MainImage            string             `bson:"mainImage" json:"mainImage"`
	MainImagePublicID    string             `bson:"mainImagePublicId" json:"mainImagePublicId"`
	OtherPhotos          []string           `bson:"otherPhotos" json:"otherPhotos"`
	OtherPhotosPublicIDs []string           `bson:"otherPhotosPublicIds" json:"otherPhotosPublicIds"`
	Description          string             `bson:"description" json:"description"`
	Classifications      string             `bson:"classifications" json:"classifications"`
	Status               Status             `bson:"status" json:"status"`
	StatusNote           string             `bson:"statusNote" json:"statusNote"`
	ExpectedArrival      *time.Time         `bson:"expectedArrival" json:"expectedArrival"`
	UploadDate           time.Time          `bson:"uploadDate" json:"uploadDate"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// InitMeta initializes the product metadata before the first insert. The
// document store assigns the ID. UploadDate is set once here and never
// touched by updates.
func (p *Product) InitMeta() {
	now := time.Now().UTC()
	p.UploadDate = now
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusAvailable
	}
	// Empty slices rather than nil so the photo and publicId arrays marshal
	// to [] and stay index-aligned.
	if p.OtherPhotos == nil {
		p.OtherPhotos = []string{}
	}
	if p.OtherPhotosPublicIDs == nil {
		p.OtherPhotosPublicIDs = []string{}
	}
}

// BlobPublicIDs returns every blob-store identifier referenced by the
// product, main image first.
func (p *Product) BlobPublicIDs() []string {
	ids := make([]string, 0, len(p.OtherPhotosPublicIDs)+1)
	if p.MainImagePublicID != "" {
		ids = append(ids, p.MainImagePublicID)
	}
	for _, id := range p.OtherPhotosPublicIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
