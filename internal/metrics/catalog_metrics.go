package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated is a Prometheus counter for tracking the total number of products created.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "The total number of products created",
	})

	// ProductsUpdated is a Prometheus counter for tracking the total number of product updates.
	ProductsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_updated_total",
		Help: "The total number of product updates applied",
	})

	// ProductsDeleted is a Prometheus counter for tracking the total number of products deleted.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "The total number of products deleted",
	})

	// ImagesUploaded is a Prometheus counter for tracking the total number of images
	// stored in the blob store.
	ImagesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "images_uploaded_total",
		Help: "The total number of images uploaded to the blob store",
	})

	// ImageReleaseFailures is a Prometheus counter for tracking blob deletions that
	// failed and left an orphaned image behind.
	ImageReleaseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "image_release_failures_total",
		Help: "The total number of failed blob store deletions",
	})

	// SiteConfigUpdates is a Prometheus counter for tracking site configuration writes.
	SiteConfigUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "site_config_updates_total",
		Help: "The total number of site configuration updates",
	})
)
