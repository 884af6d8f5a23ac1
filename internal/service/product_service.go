package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/voltstore/catalog-api/internal/blobstore"
	"github.com/voltstore/catalog-api/internal/metrics"
	"github.com/voltstore/catalog-api/internal/model"
	"github.com/voltstore/catalog-api/internal/repository"
	"github.com/voltstore/catalog-api/internal/sqs"
)

// Blob store folders per owning resource.
const (
	productFolder    = "products"
	siteConfigFolder = "siteconfig"
)

const blobReleaseTimeout = 30 * time.Second

type ProductService struct {
	repo      repository.ProductRepository
	blobs     blobstore.Store
	publisher *sqs.Publisher
}

func NewProductService(repo repository.ProductRepository, blobs blobstore.Store, publisher *sqs.Publisher) *ProductService {
	return &ProductService{
		repo:      repo,
		blobs:     blobs,
		publisher: publisher,
	}
}

// ProductInput carries the parsed fields of a creation request. MainImage is
// required; the handlers validate that before calling the service.
type ProductInput struct {
	Name            string
	Price           float64
	Description     string
	Classifications string
	Status          model.Status
	StatusNote      string
	ExpectedArrival *time.Time
	MainImage       blobstore.File
	OtherPhotos     []blobstore.File
}

// ProductUpdateInput carries the parsed fields of a partial update. Nil
// pointers mean the field was absent from the request and stays untouched.
// OtherPhotos replaces the whole photo set when present.
type ProductUpdateInput struct {
	Name            *string
	Price           *float64
	Description     *string
	Classifications *string
	Status          *model.Status
	StatusNote      *string
	ExpectedArrival repository.OptionalTime
	MainImage       *blobstore.File
	OtherPhotos     *[]blobstore.File
}

// StatusUpdateInput carries the fields of a status-only update. All fields
// are optional; absent ones keep their stored values.
type StatusUpdateInput struct {
	Status          *model.Status
	StatusNote      *string
	ExpectedArrival repository.OptionalTime
}

func (ps *ProductService) Create(ctx context.Context, input ProductInput) (*model.Product, error) {
	mainObj, err := ps.blobs.Upload(ctx, productFolder, input.MainImage)
	if err != nil {
		return nil, err
	}
	metrics.ImagesUploaded.Inc()
	uploaded := []string{mainObj.PublicID}

	otherURLs := make([]string, 0, len(input.OtherPhotos))
	otherIDs := make([]string, 0, len(input.OtherPhotos))
	for _, photo := range input.OtherPhotos {
		obj, err := ps.blobs.Upload(ctx, productFolder, photo)
		if err != nil {
			releaseBlobs(ps.blobs, uploaded)
			return nil, err
		}
		metrics.ImagesUploaded.Inc()
		uploaded = append(uploaded, obj.PublicID)
		otherURLs = append(otherURLs, obj.URL)
		otherIDs = append(otherIDs, obj.PublicID)
	}

	product := &model.Product{
		Name:                 input.Name,
		Price:                input.Price,
		MainImage:            mainObj.URL,
		MainImagePublicID:    mainObj.PublicID,
		OtherPhotos:          otherURLs,
		OtherPhotosPublicIDs: otherIDs,
		Description:          input.Description,
		Classifications:      input.Classifications,
		Status:               input.Status,
		StatusNote:           input.StatusNote,
		ExpectedArrival:      input.ExpectedArrival,
	}
	product.InitMeta()

	created, err := ps.repo.Create(ctx, product)
	if err != nil {
		// The document never made it to the store, release what we uploaded.
		releaseBlobs(ps.blobs, uploaded)
		return nil, err
	}

	// Increment metrics
	metrics.ProductsCreated.Inc()

	ps.publishEvent(ctx, sqs.ActionProductCreated, created.ID.Hex(), created.Name)

	return created, nil
}

func (ps *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return ps.repo.FindByID(ctx, id)
}

func (ps *ProductService) List(ctx context.Context, query repository.ProductQuery) ([]*model.Product, error) {
	return ps.repo.List(ctx, query)
}

func (ps *ProductService) Update(ctx context.Context, id string, input ProductUpdateInput) (*model.Product, error) {
	// Load first so a missing id fails before any blob is uploaded and so the
	// replaced blob ids are known for cleanup afterwards.
	current, err := ps.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := repository.ProductUpdate{
		Name:            input.Name,
		Price:           input.Price,
		Description:     input.Description,
		Classifications: input.Classifications,
		Status:          input.Status,
		StatusNote:      input.StatusNote,
		ExpectedArrival: input.ExpectedArrival,
	}

	var newBlobs []string
	var replaced []string

	if input.MainImage != nil {
		obj, err := ps.blobs.Upload(ctx, productFolder, *input.MainImage)
		if err != nil {
			return nil, err
		}
		metrics.ImagesUploaded.Inc()
		newBlobs = append(newBlobs, obj.PublicID)
		update.MainImage = &repository.ImagePair{URL: obj.URL, PublicID: obj.PublicID}
		replaced = append(replaced, current.MainImagePublicID)
	}

	if input.OtherPhotos != nil {
		pairs := make([]repository.ImagePair, 0, len(*input.OtherPhotos))
		for _, photo := range *input.OtherPhotos {
			obj, err := ps.blobs.Upload(ctx, productFolder, photo)
			if err != nil {
				releaseBlobs(ps.blobs, newBlobs)
				return nil, err
			}
			metrics.ImagesUploaded.Inc()
			newBlobs = append(newBlobs, obj.PublicID)
			pairs = append(pairs, repository.ImagePair{URL: obj.URL, PublicID: obj.PublicID})
		}
		update.OtherPhotos = &pairs
		replaced = append(replaced, current.OtherPhotosPublicIDs...)
	}

	updated, err := ps.repo.Update(ctx, id, update)
	if err != nil {
		releaseBlobs(ps.blobs, newBlobs)
		return nil, err
	}

	// The document now points at the new blobs, the replaced ones are orphans.
	releaseBlobs(ps.blobs, replaced)

	// Increment metrics
	metrics.ProductsUpdated.Inc()

	ps.publishEvent(ctx, sqs.ActionProductUpdated, updated.ID.Hex(), updated.Name)

	return updated, nil
}

func (ps *ProductService) UpdateStatus(ctx context.Context, id string, input StatusUpdateInput) (*model.Product, error) {
	update := repository.ProductUpdate{
		Status:          input.Status,
		StatusNote:      input.StatusNote,
		ExpectedArrival: input.ExpectedArrival,
	}

	updated, err := ps.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	// Increment metrics
	metrics.ProductsUpdated.Inc()

	ps.publishEvent(ctx, sqs.ActionProductStatusChanged, updated.ID.Hex(), updated.Name)

	return updated, nil
}

func (ps *ProductService) Delete(ctx context.Context, id string) error {
	// Find the product first to get its blob ids for the cleanup
	product, err := ps.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := ps.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	releaseBlobs(ps.blobs, product.BlobPublicIDs())

	// Increment metrics
	metrics.ProductsDeleted.Inc()

	ps.publishEvent(ctx, sqs.ActionProductDeleted, product.ID.Hex(), product.Name)

	return nil
}

func (ps *ProductService) publishEvent(ctx context.Context, action, entityID, name string) {
	if ps.publisher == nil {
		return
	}
	msg := sqs.CatalogEventMessage{
		Action:     action,
		EntityType: sqs.EntityProduct,
		EntityID:   entityID,
		Name:       name,
	}
	if err := ps.publisher.PublishCatalogEvent(ctx, msg); err != nil {
		// Log error but don't fail the request
		slog.Error("Failed to send SQS message", slog.Any("err", err), slog.String("action", action), slog.String("entity_id", entityID))
	}
}

// releaseBlobs deletes blobs in the background. A failed deletion only leaves
// an orphaned image in the blob store, so failures are counted and logged,
// never surfaced to the caller.
func releaseBlobs(blobs blobstore.Store, publicIDs []string) {
	ids := make([]string, 0, len(publicIDs))
	for _, id := range publicIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), blobReleaseTimeout)
		defer cancel()
		for _, id := range ids {
			if err := blobs.Delete(ctx, id); err != nil {
				metrics.ImageReleaseFailures.Inc()
				slog.Error("Failed to release blob", slog.Any("err", err), slog.String("public_id", id))
			}
		}
	}()
}
