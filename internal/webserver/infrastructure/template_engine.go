package infrastructure

import (
	"io/fs"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/template/html/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func TemplateEngine(viewsFS fs.FS) (*html.Engine, error) {
	engine := html.NewFileSystem(http.FS(viewsFS), ".svg")

	engine.AddFunc("initials", Initials)

	return engine, engine.Load()
}

// Initials returns the uppercased first letters of the first and last words of name
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}

	letters := firstLetter(words[0])
	if len(words) > 1 {
		letters += firstLetter(words[len(words)-1])
	}
	// Casers keep state, so one is needed per call
	return cases.Upper(language.Und).String(letters)
}

func firstLetter(word string) string {
	r, _ := utf8.DecodeRuneInString(word)
	return string(r)
}
