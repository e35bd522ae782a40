package layout

import (
	"encoding/json"
	"io"
	"os"
)

// WriteDebugJSON writes the laid-out document as indented JSON for inspection.
// Image pixel data is omitted.
func WriteDebugJSON(doc *Document, path string) error {
	if doc == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeDebugJSON is WriteDebugJSON for an arbitrary writer.
func EncodeDebugJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
