package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/blevesearch/bleve/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svera/snapgram/internal/index"
	"github.com/svera/snapgram/internal/webserver"
	"github.com/svera/snapgram/internal/webserver/infrastructure"
	"go.uber.org/zap"
)

const sessionFile = "/config/snapgram/session.yml"

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

// run executes the command line args as the snapgram binary would
func run(t *testing.T, fs afero.Fs, endpoint string, args ...string) (string, error) {
	t.Helper()
	var input CLIInput
	out := new(bytes.Buffer)

	parser, err := kong.New(&input,
		kong.Name("snapgram"),
		kong.Vars{"version": "test", "data_dir": t.TempDir()},
		kong.Writers(out, out),
		kong.Exit(func(int) { t.Fatalf("Unexpected exit, output: %s", out) }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(append([]string{"--endpoint", endpoint, "--session-file", sessionFile}, args...))
	require.NoError(t, err)

	app := &application{input: &input, fs: fs, stdout: out, logger: zap.NewNop(), ctx: context.Background()}
	err = ctx.Run(app)
	return out.String(), err
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestAccountCommands(t *testing.T) {
	endpoint := startServer(t)
	fs := afero.NewMemMapFs()

	_, err := run(t, fs, endpoint, "whoami")
	assert.ErrorIs(t, err, errSignInRequired)

	out, err := run(t, fs, endpoint, "signup", "--name", "Jane Doe", "--email", "jane@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Account created for Jane Doe (@jane-doe)\n", out)

	_, err = run(t, fs, endpoint, "signup", "--name", "Jane", "--email", "jane@example.com", "--password", "secret123")
	assert.ErrorContains(t, err, "already an account")

	_, err = run(t, fs, endpoint, "signin", "--email", "jane@example.com", "--password", "wrong password")
	assert.ErrorContains(t, err, "wrong email or password")

	_, err = run(t, fs, endpoint, "signin", "--email", "jane@example.com", "--password", "secret123")
	require.NoError(t, err)
	exists, _ := afero.Exists(fs, sessionFile)
	assert.True(t, exists, "session file")

	out, err = run(t, fs, endpoint, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe (@jane-doe) <jane@example.com>\n", out)

	t.Run("Sessions are bound to the endpoint they were opened against", func(t *testing.T) {
		_, err := run(t, fs, startServer(t), "whoami")
		assert.ErrorIs(t, err, errSignInRequired)
	})

	out, err = run(t, fs, endpoint, "signout")
	require.NoError(t, err)
	assert.Equal(t, "Signed out\n", out)
	exists, _ = afero.Exists(fs, sessionFile)
	assert.False(t, exists, "session file")

	_, err = run(t, fs, endpoint, "whoami")
	assert.ErrorIs(t, err, errSignInRequired)
}

func TestPostCommands(t *testing.T) {
	endpoint := startServer(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/photos/sunset.png", pngImage(t), 0644))

	_, err := run(t, fs, endpoint, "post", "/photos/sunset.png")
	assert.ErrorIs(t, err, errSignInRequired)

	_, err = run(t, fs, endpoint, "signup", "--name", "Jane Doe", "--email", "jane@example.com", "--password", "secret123")
	require.NoError(t, err)
	_, err = run(t, fs, endpoint, "signin", "--email", "jane@example.com", "--password", "secret123")
	require.NoError(t, err)

	_, err = run(t, fs, endpoint, "post", "/photos/missing.png")
	assert.ErrorContains(t, err, "error reading /photos/missing.png")

	out, err := run(t, fs, endpoint, "post", "/photos/sunset.png", "--caption", "Sunset over the bay", "--tags", "sea, sun")
	require.NoError(t, err)
	var postID string
	_, err = fmt.Sscanf(out, "Post %s published", &postID)
	require.NoError(t, err)

	out, err = run(t, fs, endpoint, "delete-post", postID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Post %s deleted\n", postID), out)

	_, err = run(t, fs, endpoint, "delete-post", postID)
	assert.ErrorContains(t, err, "not found")
}
