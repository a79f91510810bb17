package viewmodel

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DataURL reads r to the end and returns its content as a base64 data URL.
// The media type is detected from the content. Readers implementing io.Closer
// are closed once read.
func DataURL(r io.Reader) (string, error) {
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("viewmodel: read file: %w", err)
	}
	media := strings.ReplaceAll(mimetype.Detect(data).String(), " ", "")

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(media) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(media)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}
