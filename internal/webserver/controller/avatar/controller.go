package avatar

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultSize = 100
	maxSize     = 2000
)

// palette holds the background colours initials avatars are drawn on
var palette = []string{
	"#e57373", "#f06292", "#ba68c8", "#9575cd", "#7986cb", "#64b5f6",
	"#4fc3f7", "#4dd0e1", "#4db6ac", "#81c784", "#aed581", "#ff8a65",
}

type Controller struct {
	cacheTTL int
}

func NewController(clientImageCacheTTL int) *Controller {
	return &Controller{
		cacheTTL: clientImageCacheTTL,
	}
}

// Initials renders an SVG avatar showing the initials of the name parameter.
// The same name always gets the same background.
func (a *Controller) Initials(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	width := clamp(c.QueryInt("width", defaultSize))
	height := clamp(c.QueryInt("height", defaultSize))

	err := c.Render("avatars/initials", fiber.Map{
		"Name":       name,
		"Width":      width,
		"Height":     height,
		"FontSize":   min(width, height) * 2 / 5,
		"Background": background(name),
	})
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", a.cacheTTL))
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return nil
}

func background(name string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(name)))
	return palette[h.Sum32()%uint32(len(palette))]
}

func clamp(size int) int {
	return min(max(size, 1), maxSize)
}
