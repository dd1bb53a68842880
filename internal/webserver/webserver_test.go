package webserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/index"
	"github.com/svera/snapgram/internal/webserver"
	"github.com/svera/snapgram/internal/webserver/infrastructure"
	"gorm.io/gorm"
)

const testPassword = "secret123"

func TestGET(t *testing.T) {
	var cases = []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{"Version is reported", "/v1/health/version", http.StatusOK},
		{"Server returns not found if the user tries to access a non-existent URL", "/v1/xx", http.StatusNotFound},
		{"Current account cannot be retrieved without a session", "/v1/account", http.StatusUnauthorized},
	}

	db := infrastructure.Connect("file::memory:")
	app := bootstrapApp(db, afero.NewMemMapFs())

	for _, tcase := range cases {
		t.Run(tcase.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, tcase.url, nil)

			response, err := app.Test(req)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err.Error())
			}
			mustReturnStatus(response, tcase.expectedStatus, t)
		})
	}
}

func TestErrorsAreRenderedAsJSON(t *testing.T) {
	db := infrastructure.Connect("file::memory:")
	app := bootstrapApp(db, afero.NewMemMapFs())

	response, err := jsonRequest(app, http.MethodGet, "/v1/xx", "", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err.Error())
	}

	var payload backend.Error
	decode(t, response, &payload)
	if payload.Code != http.StatusNotFound || payload.Type != backend.TypeRouteNotFound {
		t.Errorf("Expected a %s error with code %d, received %+v", backend.TypeRouteNotFound, http.StatusNotFound, payload)
	}
}

func bootstrapApp(db *gorm.DB, appFs afero.Fs) *fiber.App {
	var (
		idx *index.BleveIndexer
	)

	webserverConfig := webserver.Config{
		Version:             "test",
		JwtSecret:           []byte("secret"),
		SessionTimeout:      24 * time.Hour,
		UploadMaxSize:       1 << 20,
		AllowedExtensions:   "*.{jpg,jpeg,png,gif}",
		ClientImageCacheTTL: 86400,
	}

	indexFile, err := bleve.NewMemOnly(index.Mapping())
	if err != nil {
		log.Fatal(err)
	}
	idx = index.NewBleve(indexFile)

	controllers := webserver.SetupControllers(webserverConfig, db, idx, appFs)
	return webserver.New(webserverConfig, controllers)
}

func mustReturnStatus(response *http.Response, expectedStatus int, t *testing.T) {
	t.Helper()
	if response.StatusCode != expectedStatus {
		body, _ := io.ReadAll(response.Body)
		t.Errorf("Expected status %d, received %d: %s", expectedStatus, response.StatusCode, body)
	}
}

// jsonRequest sends body JSON encoded, authenticating with token if it is not empty
func jsonRequest(app *fiber.App, method, target, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return app.Test(req, -1)
}

func decode(t *testing.T, response *http.Response, v any) {
	t.Helper()
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(v); err != nil {
		t.Fatalf("Unexpected error decoding response: %v", err.Error())
	}
}

func signUp(t *testing.T, app *fiber.App, name, email string) backend.Account {
	t.Helper()
	response, err := jsonRequest(app, http.MethodPost, "/v1/account", "", fiber.Map{
		"userId":   backend.IDUnique,
		"email":    email,
		"password": testPassword,
		"name":     name,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err.Error())
	}
	mustReturnStatus(response, http.StatusCreated, t)

	var account backend.Account
	decode(t, response, &account)
	return account
}

func signIn(t *testing.T, app *fiber.App, email, password string) backend.Session {
	t.Helper()
	response, err := jsonRequest(app, http.MethodPost, "/v1/account/sessions/email", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err.Error())
	}
	mustReturnStatus(response, http.StatusCreated, t)

	var session backend.Session
	decode(t, response, &session)
	return session
}

// signedIn creates an account and returns the secret of a session opened for it
func signedIn(t *testing.T, app *fiber.App) string {
	t.Helper()
	signUp(t, app, "Jane Doe", "jane@example.com")
	return signIn(t, app, "jane@example.com", testPassword).Secret
}

func documentsURL(collection string, queries ...backend.Query) string {
	target := fmt.Sprintf("/v1/databases/db/collections/%s/documents", collection)
	if len(queries) == 0 {
		return target
	}
	values := url.Values{}
	for _, q := range queries {
		values.Add("queries[]", q.String())
	}
	return target + "?" + values.Encode()
}

func pngImage(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		log.Fatal(err)
	}
	return buf.Bytes()
}

func upload(app *fiber.App, token, bucket, fileName string, contents []byte) (*http.Response, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("fileId", backend.IDUnique); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(contents); err != nil {
		return nil, err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("/v1/storage/buckets/%s/files", bucket), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return app.Test(req, -1)
}
