package main

import "github.com/alecthomas/kong"

// CLIInput stores all flags, arguments and commands that can be passed to the application
type CLIInput struct {
	Version kong.VersionFlag `short:"v" name:"version" help:"Get version number."`
	// Endpoint overrides the platform address read from SNAPGRAM_ENDPOINT
	Endpoint string `short:"e" name:"endpoint" help:"Address of the platform API, including its version prefix (e. g. http://localhost:3000/v1)."`
	// SessionFile holds the path to the file where the signed in session is kept
	SessionFile string `env:"SNAPGRAM_SESSION_FILE" name:"session-file" help:"File where the signed in session is kept. Defaults to snapgram/session.yml under the user configuration directory."`
	// LogFile redirects structured logs to a file instead of the standard error output
	LogFile string `env:"SNAPGRAM_LOG_FILE" name:"log-file" help:"File to write logs to. Terminal screens only log when this is set."`
	Debug   bool   `env:"SNAPGRAM_DEBUG" short:"d" name:"debug" help:"Log debug messages."`

	Serve      ServeCmd      `cmd:"" help:"Run the platform server."`
	Signup     SignupCmd     `cmd:"" help:"Create an account."`
	Signin     SigninCmd     `cmd:"" help:"Sign in and keep the session for the following commands."`
	Signout    SignoutCmd    `cmd:"" help:"Close the current session."`
	Whoami     WhoamiCmd     `cmd:"" help:"Show the signed in user."`
	Post       PostCmd       `cmd:"" help:"Publish an image."`
	DeletePost DeletePostCmd `cmd:"" help:"Delete a post and its image."`
	Home       HomeCmd       `cmd:"" help:"Browse the most recent posts."`
	Explore    ExploreCmd    `cmd:"" help:"Search posts by caption."`
}

// ServeCmd holds the configuration of the platform server
type ServeCmd struct {
	// DataDir is where the database, the search index and uploaded files are stored
	DataDir string `env:"DATA_DIR" name:"data-dir" default:"${data_dir}" help:"Directory where the database, the search index and the uploaded files are stored." type:"path"`
	// Port defines the port number in which the webserver listens for requests
	Port int `env:"PORT" short:"p" default:"3000" name:"port" help:"Port number in which the webserver listens for requests"`
	// JwtSecret stores the string to use to sign JWTs
	JwtSecret string `env:"JWT_SECRET" short:"s" name:"jwt-secret" help:"String to use to sign JWTs. A random one is generated if empty, which signs every session out on restart."`
	// SessionTimeout specifies the maximum time a user session may last in hours
	SessionTimeout float64 `env:"SESSION_TIMEOUT" default:"8760" name:"session-timeout" help:"Maximum time a user session may last in hours"`
	// UploadMaxSize is the maximum file size allowed to be uploaded, in megabytes
	UploadMaxSize int `env:"UPLOAD_MAX_SIZE" short:"u" default:"50" name:"upload-max-size" help:"Maximum file size allowed to be uploaded, in megabytes."`
	// AllowedExtensions is a glob pattern uploaded file names must match
	AllowedExtensions string `env:"ALLOWED_EXTENSIONS" default:"*.{jpg,jpeg,png,gif,webp,svg}" name:"allowed-extensions" help:"Glob pattern uploaded file names must match. Leave empty to allow any file."`
	// ClientImageCacheTTL defines the cache duration for image previews and avatars in seconds. Defaults to 24 hours.
	ClientImageCacheTTL int `env:"CLIENT_IMAGE_CACHE_TTL" default:"86400" name:"client-image-cache-ttl" help:"Client-side cache duration for image previews and avatars in seconds. Defaults to 24 hours (86400 seconds)."`
	// LogRequests enables the access log
	LogRequests bool `env:"LOG_REQUESTS" default:"false" name:"log-requests" help:"Log every request received."`
}

type SignupCmd struct {
	Name     string `required:"" help:"Full name."`
	Email    string `required:"" help:"Email address, used to sign in."`
	Password string `required:"" env:"SNAPGRAM_PASSWORD" help:"Password, at least 8 characters long."`
	Username string `help:"Username. Derived from the name if empty."`
}

type SigninCmd struct {
	Email    string `required:"" help:"Email address of the account."`
	Password string `required:"" env:"SNAPGRAM_PASSWORD" help:"Password of the account."`
}

type SignoutCmd struct{}

type WhoamiCmd struct{}

type PostCmd struct {
	Image    string `arg:"" help:"Path to the image to publish."`
	Caption  string `short:"c" help:"Caption of the post."`
	Location string `short:"l" help:"Where the image was taken."`
	Tags     string `short:"t" help:"Comma separated list of tags."`
}

type DeletePostCmd struct {
	ID string `arg:"" help:"Identifier of the post to delete."`
}

type HomeCmd struct{}

type ExploreCmd struct{}
