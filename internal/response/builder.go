package response

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/f4ah6o/dirserve/internal/mimetype"
	"github.com/f4ah6o/dirserve/internal/resolver"
)

// Lister enumerates the children of a directory as root-relative paths.
type Lister interface {
	List(dir string) ([]string, error)
}

// Builder produces responses for resolved targets.
type Builder struct {
	lister Lister
}

// NewBuilder returns a Builder that reads directory listings from lister.
func NewBuilder(lister Lister) *Builder {
	return &Builder{lister: lister}
}

// Build returns the response for res. An error means the response could not
// be produced and the caller should answer with InternalError().
func (b *Builder) Build(res resolver.Resolved) (*Response, error) {
	switch res.Kind {
	case resolver.File:
		return b.file(res.Path)
	case resolver.Directory:
		return b.directory(res.Path)
	default:
		return NotFound(), nil
	}
}

func (b *Builder) file(path string) (*Response, error) {
	mime := mimetype.ForPath(path)
	if mimetype.IsImage(mime) {
		return imageResponse(path, mime), nil
	}

	body, err := readText(path)
	if err != nil {
		return nil, err
	}
	return OK(mime, body), nil
}

// imageResponse embeds the image as a data URI inside a text/html body.
// An unreadable image yields an empty page rather than an error.
func imageResponse(path, mime string) *Response {
	data, err := os.ReadFile(path)
	if err != nil {
		return OK("text/html", nil)
	}
	body := fmt.Sprintf("<img src='data:%s;base64,%s' />", mime, base64.StdEncoding.EncodeToString(data))
	return OK("text/html", []byte(body))
}

// readText reads path and fails if the content is not valid UTF-8.
func readText(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	body, err := io.ReadAll(transform.NewReader(f, encoding.UTF8Validator))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

func (b *Builder) directory(dir string) (*Response, error) {
	paths, err := b.lister.List(dir)
	if err != nil {
		return nil, err
	}
	page, err := RenderListing(paths)
	if err != nil {
		return nil, fmt.Errorf("render listing for %s: %w", dir, err)
	}
	return OK("text/html", page), nil
}
