package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/piecetree/internal/engine/buffer"
	"github.com/dshills/piecetree/internal/logging"
)

// Encodings reported for loaded documents.
const (
	encodingUTF8    = "utf-8"
	encodingUTF16LE = "utf-16le"
	encodingUTF16BE = "utf-16be"
)

// source is an opened document, decoded to UTF-8.
type source struct {
	r        io.Reader
	encoding string
	close    func() error
}

// openSource opens path, or stdin for "-". UTF-16 input is recognized
// by its byte order mark and decoded to UTF-8.
func openSource(cmd *cobra.Command, path string) (*source, error) {
	var rc io.ReadCloser
	if path == "-" {
		rc = io.NopCloser(cmd.InOrStdin())
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		rc = f
	}

	br := bufio.NewReader(rc)
	src := &source{r: br, encoding: encodingUTF8, close: rc.Close}
	if head, err := br.Peek(2); err == nil {
		switch {
		case head[0] == 0xFF && head[1] == 0xFE:
			src.encoding = encodingUTF16LE
		case head[0] == 0xFE && head[1] == 0xFF:
			src.encoding = encodingUTF16BE
		}
	}
	if src.encoding != encodingUTF8 {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		src.r = transform.NewReader(br, dec)
	}
	return src, nil
}

// loadBuffer reads path into a buffer configured from a.cfg.
func (a *app) loadBuffer(cmd *cobra.Command, path string) (*buffer.Buffer, error) {
	src, err := openSource(cmd, path)
	if err != nil {
		return nil, err
	}
	defer src.close()

	b, err := buffer.NewBufferFromReader(src.r, a.cfg.BufferOptions(a.logger.With(logging.FieldFile, path))...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
