package genbank

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/yumyai/bgcclass/pkg/errs"
)

// Extensions accepted for uploads.
var Extensions = []string{".gb", ".gbk"}

// CheckExtension rejects any file name not ending in .gb or .gbk.
func CheckExtension(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, ok := range Extensions {
		if ext == ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (accepted: %s)", errs.ErrUnsupportedExtension, name, strings.Join(Extensions, ", "))
}

// NewDecodingReader turns UTF-16 uploads (with a byte order mark) into UTF-8
// and strips a UTF-8 BOM. Plain UTF-8 passes through unchanged.
func NewDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
