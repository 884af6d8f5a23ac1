package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/voltstore/catalog-api/internal/blobstore/s3"
	"github.com/voltstore/catalog-api/internal/config"
	httpAPI "github.com/voltstore/catalog-api/internal/http"
	"github.com/voltstore/catalog-api/internal/http/controller"
	"github.com/voltstore/catalog-api/internal/logger"
	"github.com/voltstore/catalog-api/internal/metrics"
	"github.com/voltstore/catalog-api/internal/repository/mongo"
	"github.com/voltstore/catalog-api/internal/service"
	sqspkg "github.com/voltstore/catalog-api/internal/sqs"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)

	ctx := context.Background()
	store, err := mongo.StartMongo(ctx, conf.Mongo)
	handleErr("starting document store", err)

	// Create repositories
	productRepository := mongo.NewProductRepository(store)
	configRepository := mongo.NewSiteConfigRepository(store)

	// Image uploads go straight to the bucket, records keep the public URL.
	s3Client, err := s3.NewClient(ctx, conf.AWS)
	handleErr("creating object store client", err)
	blobs := s3.NewStore(s3Client, conf.AWS, conf.ObjectStore)

	// Initialize AWS SQS client, catalog changes are announced on the queue
	// for downstream consumers.
	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS)
	handleErr("creating SQS client", err)
	publisher := sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)

	// Create services
	productService := service.NewProductService(productRepository, blobs, publisher)
	configService := service.NewSiteConfigService(configRepository, blobs, publisher)

	// Start HTTP server
	ctr := controller.New(conf, store)
	productCtr := controller.NewProductController(productService)
	settingsCtr := controller.NewSettingsController(configService)
	httpServer := gin.New()
	httpServer = httpAPI.InitRouter(conf, store, httpServer, ctr, productCtr, settingsCtr)

	go func() {
		err = httpServer.Run(":" + conf.HTTPServer.Port)
		if err != nil {
			handleErr("listening to HTTP requests", err)
		}
	}()

	// Start metrics server
	metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down gracefully...")
	if err := store.Disconnect(context.Background()); err != nil {
		log.Printf("error while disconnecting document store: %v", err)
	}
	// TODO: stop httpServer gracefully
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
