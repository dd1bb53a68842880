package remote_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net"
	"testing"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svera/snapgram/internal/api"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/backend/remote"
	"github.com/svera/snapgram/internal/index"
	"github.com/svera/snapgram/internal/webserver"
	"github.com/svera/snapgram/internal/webserver/infrastructure"
	"go.uber.org/zap"
)

var testConfig = backend.Config{
	DatabaseID:        "db",
	UserCollectionID:  "users",
	PostCollectionID:  "posts",
	SavesCollectionID: "saves",
	StorageID:         "media",
}

// startServer runs a platform server on a random local port and returns its endpoint
func startServer(t *testing.T) string {
	t.Helper()
	cfg := webserver.Config{
		Version:             "test",
		JwtSecret:           []byte("secret"),
		SessionTimeout:      time.Hour,
		UploadMaxSize:       1 << 20,
		AllowedExtensions:   "*.{jpg,jpeg,png}",
		ClientImageCacheTTL: 60,
	}
	indexFile, err := bleve.NewMemOnly(index.Mapping())
	require.NoError(t, err)
	idx := index.NewBleve(indexFile)
	db := infrastructure.Connect("file::memory:")
	app := webserver.New(cfg, webserver.SetupControllers(cfg, db, idx, afero.NewMemMapFs()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() {
		app.Shutdown()
		idx.Close()
	})
	return fmt.Sprintf("http://%s/v1", ln.Addr())
}

func newService(t *testing.T) (*api.Service, *remote.Client) {
	t.Helper()
	client, err := remote.New(startServer(t))
	require.NoError(t, err)
	return api.New(client.Backend(), testConfig, zap.NewNop()), client
}

func pngImage() []byte {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestAccountFlow(t *testing.T) {
	service, client := newService(t)
	ctx := context.Background()

	user, err := service.CreateUserAccount(ctx, api.NewUser{Name: "Jane Doe", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", user.Username)
	assert.Contains(t, user.ImageURL, "/v1/avatars/initials?name=Jane+Doe")

	_, err = service.GetCurrentUser(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	_, err = service.SignInAccount(ctx, "jane@example.com", "wrong password")
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	session, err := service.SignInAccount(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, session.Secret, client.Session())

	current, err := service.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	require.NoError(t, service.SignOutAccount(ctx))
	assert.Empty(t, client.Session())

	_, err = service.GetCurrentUser(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestPostsFlow(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	jane, err := service.CreateUserAccount(ctx, api.NewUser{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = service.SignInAccount(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)

	var created []api.Post
	for i := 0; i < 15; i++ {
		caption := fmt.Sprintf("post number %d", i)
		if i == 7 {
			caption = "Sunset over the bay"
		}
		post, err := service.CreatePost(ctx, api.NewPost{
			UserID:  jane.ID,
			Caption: caption,
			File:    backend.InputFile{Name: fmt.Sprintf("%d.png", i), Data: pngImage()},
			Tags:    "sea, sun",
		})
		require.NoError(t, err)
		created = append(created, post)
	}

	t.Run("Feed pages terminate with an empty page", func(t *testing.T) {
		var (
			sizes  []int
			cursor string
		)
		for i := 0; i < 10; i++ {
			page, err := service.GetRecentPosts(ctx, cursor)
			require.NoError(t, err)
			sizes = append(sizes, page.Len())
			for _, post := range page.Items() {
				require.NotNil(t, post.Creator)
				assert.Equal(t, "Jane", post.Creator.Name)
			}
			if page.Empty() {
				break
			}
			cursor = page.NextCursor()
		}
		assert.Equal(t, []int{6, 6, 3, 0}, sizes)
	})

	t.Run("Search by caption", func(t *testing.T) {
		found, err := service.SearchPosts(ctx, "sunset")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, created[7].ID, found[0].ID)
	})

	t.Run("Like moves the post to the front of the feed", func(t *testing.T) {
		liked, err := service.LikePost(ctx, created[0].ID, api.ToggleLike(created[0].Likes, jane.ID))
		require.NoError(t, err)
		assert.True(t, liked.LikedBy(jane.ID))

		page, err := service.GetRecentPosts(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, created[0].ID, page.Items()[0].ID)
	})

	t.Run("Deleted post is gone", func(t *testing.T) {
		post := created[14]
		require.NoError(t, service.DeletePost(ctx, post.ID, post.ImageID))

		_, err := service.GetPostByID(ctx, post.ID)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})
}

func TestPlatformErrorsAreDecoded(t *testing.T) {
	client, err := remote.New(startServer(t))
	require.NoError(t, err)

	_, err = client.Backend().Databases.GetDocument(context.Background(), "db", "posts", "missing")

	var backendErr *backend.Error
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, 404, backendErr.Code)
	assert.Equal(t, backend.TypeDocumentNotFound, backendErr.Type)
}

func TestCanceledContext(t *testing.T) {
	client, err := remote.New(startServer(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Backend().Accounts.Get(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelingContextInterruptsRequest(t *testing.T) {
	release := make(chan struct{})
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/v1/account", func(c *fiber.Ctx) error {
		<-release
		return c.JSON(fiber.Map{})
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })
	t.Cleanup(func() { close(release) })

	client, err := remote.New(fmt.Sprintf("http://%s/v1", ln.Addr()))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err = client.Backend().Accounts.Get(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestURLs(t *testing.T) {
	client, err := remote.New("https://platform.example.com/v1/")
	require.NoError(t, err)
	b := client.Backend()

	preview, err := b.Storage.GetFilePreview("media", "abc", backend.PreviewOptions{Width: 2000, Height: 2000, Gravity: backend.GravityTop, Quality: 100})
	require.NoError(t, err)
	assert.Equal(t, "https://platform.example.com/v1/storage/buckets/media/files/abc/preview?gravity=top&height=2000&quality=100&width=2000", preview.String())

	initials := b.Avatars.GetInitials("Jane Doe")
	assert.Equal(t, "https://platform.example.com/v1/avatars/initials?name=Jane+Doe", initials.String())

	_, err = b.Storage.GetFilePreview("media", "", backend.PreviewOptions{})
	assert.Error(t, err)
}

func TestNewRejectsInvalidEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "localhost", "://nope"} {
		_, err := remote.New(endpoint)
		assert.Error(t, err, endpoint)
	}
}
