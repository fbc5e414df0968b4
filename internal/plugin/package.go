package plugin

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// ManifestFileName is the manifest entry every plugin package must contain.
const ManifestFileName = "manifest.json"

// maxManifestSize bounds the manifest entry to keep a hostile package from
// exhausting memory during install.
const maxManifestSize = 1 << 20

// ReadPackage parses a plugin package (a ZIP archive holding manifest.json
// plus implementation modules) and returns its validated manifest.
func ReadPackage(data []byte) (*Manifest, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}

	for _, f := range zr.File {
		if f.Name != ManifestFileName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening manifest entry: %w", err)
		}
		raw, err := io.ReadAll(io.LimitReader(rc, maxManifestSize))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading manifest entry: %w", err)
		}
		return ParseManifest(raw)
	}

	return nil, ErrManifestNotFound
}

// BuildPackage assembles a plugin package from a manifest document and
// module contents. Used by packaging tooling and tests.
func BuildPackage(manifest []byte, modules map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(ManifestFileName)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(manifest); err != nil {
		return nil, err
	}

	for name, content := range modules {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(content); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
