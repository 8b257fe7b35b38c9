// Package hexfile reads text images of finished machine code, so small
// code blobs can be fed to the driver without an assembler in the loop.
//
// The format is line oriented. '#' starts a comment, '@name', '@arch' and
// '@align' directives come before the code, everything else is
// whitespace-separated hex bytes:
//
//	# niladic function returning 42
//	@name answer
//	@arch amd64
//	b8 2a 00 00 00 c3
package hexfile

import (
	"bufio"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/eh-steve/jitmem"
	"github.com/pkg/errors"
)

// Image is one parsed code image.
type Image struct {
	Name  string // symbol name: the @name directive or the caller's default
	Arch  string // GOARCH the code is for; empty means any
	Align int    // entry alignment; 0 when the image does not ask for one
	Code  []byte
}

// Parse reads one image. name is the default symbol name, used when the
// input carries no @name directive.
func Parse(r io.Reader, name string) (*Image, error) {
	img := &Image{Name: name}
	seen := map[string]bool{}
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if strings.HasPrefix(fields[0], "@") {
			if len(img.Code) > 0 {
				return nil, errors.Errorf("line %d: directive %s after code bytes", n, fields[0])
			}
			if err := img.directive(fields, seen); err != nil {
				return nil, errors.Wrapf(err, "line %d", n)
			}
			continue
		}
		for _, tok := range fields {
			b, err := hex.DecodeString(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad code bytes %q", n, tok)
			}
			img.Code = append(img.Code, b...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	if img.Name == "" {
		return nil, errors.New("image has no name")
	}
	if len(img.Code) == 0 {
		return nil, errors.New("image has no code bytes")
	}
	return img, nil
}

func (img *Image) directive(fields []string, seen map[string]bool) error {
	key := fields[0]
	if seen[key] {
		return errors.Errorf("duplicate directive %s", key)
	}
	seen[key] = true
	if len(fields) != 2 {
		return errors.Errorf("directive %s needs exactly one argument", key)
	}
	switch key {
	case "@name":
		img.Name = fields[1]
	case "@arch":
		img.Arch = fields[1]
	case "@align":
		align, err := strconv.Atoi(fields[1])
		if err != nil {
			return errors.Wrapf(err, "bad alignment %q", fields[1])
		}
		if align < jitmem.MinAlign || align > jitmem.MaxAlign || align&(align-1) != 0 {
			return errors.Errorf("alignment %d is not a power of two between %d and %d",
				align, jitmem.MinAlign, jitmem.MaxAlign)
		}
		img.Align = align
	default:
		return errors.Errorf("unknown directive %s", key)
	}
	return nil
}

// ParseFile reads an image from path. The default symbol name is the file
// base name without its extension.
func ParseFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open image %s", path)
	}
	defer f.Close()
	base := filepath.Base(path)
	img, err := Parse(f, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, errors.Wrapf(err, "parse image %s", path)
	}
	return img, nil
}
