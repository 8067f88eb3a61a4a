// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount opens the PDF at path and returns its page count. The parser
// panics on some malformed inputs; those are returned as errors.
func PageCount(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("parsing %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	return r.NumPage(), nil
}
