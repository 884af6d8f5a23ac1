package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"github.com/voltstore/catalog-api/internal/blobstore"
	"github.com/voltstore/catalog-api/internal/config"
	httpAPI "github.com/voltstore/catalog-api/internal/http"
	"github.com/voltstore/catalog-api/internal/http/controller"
	repomongo "github.com/voltstore/catalog-api/internal/repository/mongo"
	"github.com/voltstore/catalog-api/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const testDatabase = "catalog_test"

// TestMongo holds the test document store connection and the Docker handles
// needed to tear it down.
type TestMongo struct {
	Store    *repomongo.Store
	DB       *mongo.Database
	client   *mongo.Client
	Pool     *dockertest.Pool
	Resource *dockertest.Resource
}

// SetupTestMongo starts a MongoDB container using dockertest and connects the
// document store to it. Tests are skipped when no Docker daemon is reachable.
func SetupTestMongo(t *testing.T) *TestMongo {
	t.Helper()

	// Create dockertest pool
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Skipping integration test, Docker is not available: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Skipping integration test, Docker is not available: %s", err)
	}

	// Set max wait time for Docker operations
	pool.MaxWait = 120 * time.Second

	// Pull and run MongoDB container
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}

	// Set container to expire after 2 minutes to avoid orphaned containers
	if err := resource.Expire(120); err != nil {
		t.Fatalf("Could not set expiration: %s", err)
	}

	hostAndPort := resource.GetHostPort("27017/tcp")
	databaseURL := fmt.Sprintf("mongodb://%s", hostAndPort)

	log.Println("Connecting to document store on url: ", databaseURL)

	// Wait for the document store to be ready
	var client *mongo.Client
	if err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var err error
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(databaseURL))
		if err != nil {
			return err
		}
		return client.Ping(ctx, readpref.Primary())
	}); err != nil {
		t.Fatalf("Could not connect to docker: %s", err)
	}

	store, err := repomongo.StartMongo(context.Background(), config.Mongo{
		URI:      databaseURL,
		Database: testDatabase,
	})
	if err != nil {
		t.Fatalf("Could not start document store: %s", err)
	}

	return &TestMongo{
		Store:    store,
		DB:       client.Database(testDatabase),
		client:   client,
		Pool:     pool,
		Resource: resource,
	}
}

// Cleanup closes the document store connections and purges the Docker container
func (tm *TestMongo) Cleanup(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if tm.Store != nil {
		if err := tm.Store.Disconnect(ctx); err != nil {
			t.Errorf("Could not close document store: %s", err)
		}
	}
	if tm.client != nil {
		if err := tm.client.Disconnect(ctx); err != nil {
			t.Errorf("Could not close document store client: %s", err)
		}
	}

	if tm.Pool != nil && tm.Resource != nil {
		// A stopped container with AutoRemove set cleans itself up, purging it
		// again then reports it as missing.
		var missing *docker.NoSuchContainer
		if err := tm.Pool.Purge(tm.Resource); err != nil && !errors.As(err, &missing) {
			t.Errorf("Could not purge resource: %s", err)
		}
	}
}

// ResetCollections removes every document from the catalog collections
func (tm *TestMongo) ResetCollections(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	collections := []string{"products", "siteconfig"}

	for _, collection := range collections {
		if _, err := tm.DB.Collection(collection).DeleteMany(ctx, bson.D{}); err != nil {
			t.Fatalf("Could not reset collection %s: %s", collection, err)
		}
	}
}

// setupCatalogRouter wires the full HTTP stack against the test document
// store, with blobs captured in memory and event publishing disabled.
func setupCatalogRouter(tm *TestMongo, blobs blobstore.Store) *gin.Engine {
	productRepo := repomongo.NewProductRepository(tm.Store)
	configRepo := repomongo.NewSiteConfigRepository(tm.Store)
	productService := service.NewProductService(productRepo, blobs, nil)
	configService := service.NewSiteConfigService(configRepo, blobs, nil)

	router := gin.New()
	cfg := &config.Config{}
	ctr := controller.New(cfg, tm.Store)
	productCtr := controller.NewProductController(productService)
	settingsCtr := controller.NewSettingsController(configService)
	return httpAPI.InitRouter(cfg, tm.Store, router, ctr, productCtr, settingsCtr)
}

// memoryBlobStore keeps uploads in memory so API tests can run without an
// object store container. Deletions are recorded for the release assertions.
type memoryBlobStore struct {
	mu      sync.Mutex
	uploads int
	deleted []string
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{}
}

func (m *memoryBlobStore) Upload(_ context.Context, folder string, file blobstore.File) (blobstore.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	publicID := fmt.Sprintf("%s/blob-%d%s", folder, m.uploads, strings.ToLower(filepath.Ext(file.Name)))
	return blobstore.Object{URL: "https://blobs.example.com/" + publicID, PublicID: publicID}, nil
}

func (m *memoryBlobStore) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, publicID)
	return nil
}

// UploadCount returns how many blobs were stored so far.
func (m *memoryBlobStore) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}

// DeletedIDs returns a copy of the blob ids released so far.
func (m *memoryBlobStore) DeletedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// Released reports whether the blob with the given id was deleted.
func (m *memoryBlobStore) Released(publicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.deleted {
		if id == publicID {
			return true
		}
	}
	return false
}

// filePart describes one file field of a multipart request body.
type filePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// newMultipartBody builds a multipart form body. Files are written with an
// explicit part content type because the API validates the declared type.
func newMultipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("Could not write form field %s: %s", name, err)
		}
	}

	for _, file := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		header.Set("Content-Type", file.ContentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("Could not create form file %s: %s", file.Field, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			t.Fatalf("Could not write form file %s: %s", file.Field, err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("Could not close multipart writer: %s", err)
	}
	return &buf, mw.FormDataContentType()
}

// pngFile returns a small image part for the given field.
func pngFile(field, filename string) filePart {
	return filePart{
		Field:       field,
		Filename:    filename,
		ContentType: "image/png",
		Data:        []byte("png bytes"),
	}
}

// performRequest runs one request through the router and records the
// response. An optional content type is set when given.
func performRequest(router *gin.Engine, method, target string, body io.Reader, contentType ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if len(contentType) > 0 && contentType[0] != "" {
		req.Header.Set("Content-Type", contentType[0])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// productPayload mirrors the product JSON shape on the wire.
type productPayload struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Price                float64  `json:"price"`
	MainImage            string   `json:"mainImage"`
	MainImagePublicID    string   `json:"mainImagePublicId"`
	OtherPhotos          []string `json:"otherPhotos"`
	OtherPhotosPublicIDs []string `json:"otherPhotosPublicIds"`
	Description          string   `json:"description"`
	Classifications      string   `json:"classifications"`
	Status               string   `json:"status"`
	StatusNote           string   `json:"statusNote"`
	ExpectedArrival      *string  `json:"expectedArrival"`
	UploadDate           string   `json:"uploadDate"`
}

type productEnvelope struct {
	Message string         `json:"message"`
	Product productPayload `json:"product"`
}

type settingsPayload struct {
	ID                    string `json:"id"`
	LandingTitle          string `json:"landingTitle"`
	LandingDescription    string `json:"landingDescription"`
	AboutText             string `json:"aboutText"`
	ServicesText          string `json:"servicesText"`
	LandingBanner         string `json:"landingBanner"`
	LandingBannerPublicID string `json:"landingBannerPublicId"`
	Logo                  string `json:"logo"`
	LogoPublicID          string `json:"logoPublicId"`
}

type settingsEnvelope struct {
	Message  string          `json:"message"`
	Settings settingsPayload `json:"settings"`
}

type errorPayload struct {
	Error         string   `json:"error"`
	Details       string   `json:"details"`
	ValidStatuses []string `json:"validStatuses"`
}

// createProduct drives the upload endpoint and returns the created product.
// A main image is attached unless the caller supplies their own files.
func createProduct(t *testing.T, router *gin.Engine, fields map[string]string, files ...filePart) productPayload {
	t.Helper()

	if len(files) == 0 {
		files = []filePart{pngFile("mainImage", "main.png")}
	}
	body, contentType := newMultipartBody(t, fields, files...)
	w := performRequest(router, http.MethodPost, "/products/upload", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp productEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Product
}
