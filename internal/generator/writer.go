package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// sizeWarning is the output size above which a warning is printed.
const sizeWarning = 2_000_000

// WriteDocument writes a document as indented JSON, returning the size.
func WriteDocument(w io.Writer, doc *Document, fpath string, dryRun bool) (int, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling document: %w", err)
	}
	data = append(data, '\n')
	return writeFile(w, data, fpath, doc.EventCount(), dryRun)
}

// WriteSVG writes rendered SVG markup, returning the size.
func WriteSVG(w io.Writer, doc *Document, svg string, fpath string, dryRun bool) (int, error) {
	return writeFile(w, []byte(svg), fpath, doc.EventCount(), dryRun)
}

func writeFile(w io.Writer, data []byte, fpath string, events int, dryRun bool) (int, error) {
	size := len(data)
	filename := filepath.Base(fpath)

	if size > sizeWarning {
		fmt.Fprintf(os.Stderr, "  WARNING: %s is %s bytes\n", filename, FormatSize(size))
	}

	if !dryRun {
		if err := os.WriteFile(fpath, data, 0644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", fpath, err)
		}
	}

	fmt.Fprintf(w, "  %s: %d events, %s bytes\n", filename, events, FormatSize(size))
	return size, nil
}

// FormatSize renders a byte count with thousands separators.
func FormatSize(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	// insert commas
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
