package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voltstore/catalog-api/internal/apperror"
	"github.com/voltstore/catalog-api/internal/model"
	"github.com/voltstore/catalog-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository persists products in the document store.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(store *Store) repository.ProductRepository {
	return &ProductRepository{col: store.db.Collection(productCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return product, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseObjectID("product", id)
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, query repository.ProductQuery) ([]*model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}})
	cur, err := r.col.Find(ctx, buildProductFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*model.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, update repository.ProductUpdate) (*model.Product, error) {
	oid, err := parseObjectID("product", id)
	if err != nil {
		return nil, err
	}

	set := buildProductSet(update)
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Product
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &updated, nil
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := parseObjectID("product", id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFound("product", id)
	}
	return nil
}

// buildProductFilter maps a catalog query onto a store filter. An unknown
// status value simply matches nothing, it is not an error at this layer.
func buildProductFilter(query repository.ProductQuery) bson.M {
	filter := bson.M{}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	return filter
}

// buildProductSet maps the pointer fields of a partial update onto a $set
// document. Fields left nil stay untouched in the store; an ExpectedArrival
// marked Set with a nil value clears the date to null.
func buildProductSet(update repository.ProductUpdate) bson.M {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Classifications != nil {
		set["classifications"] = *update.Classifications
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.StatusNote != nil {
		set["statusNote"] = *update.StatusNote
	}
	if update.ExpectedArrival.Set {
		set["expectedArrival"] = update.ExpectedArrival.Value
	}
	if update.MainImage != nil {
		set["mainImage"] = update.MainImage.URL
		set["mainImagePublicId"] = update.MainImage.PublicID
	}
	if update.OtherPhotos != nil {
		urls := make([]string, 0, len(*update.OtherPhotos))
		ids := make([]string, 0, len(*update.OtherPhotos))
		for _, photo := range *update.OtherPhotos {
			urls = append(urls, photo.URL)
			ids = append(ids, photo.PublicID)
		}
		set["otherPhotos"] = urls
		set["otherPhotosPublicIds"] = ids
	}
	return set
}

// parseObjectID treats malformed ids the same as missing documents so that
// callers see a single not-found shape.
func parseObjectID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.NewNotFound(resource, id)
	}
	return oid, nil
}
