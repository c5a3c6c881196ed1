package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/httputil"
)

// Load resolves a dataset reference into a snapshot, bypassing the dataset
// cache. File paths are read directly; http(s) URLs are fetched with retry.
func Load(ctx context.Context, opts Options) (*concept.Snapshot, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.IsRemote() {
		data, err := fetchDataset(ctx, opts.Dataset)
		if err != nil {
			return nil, err
		}
		return decodeDataset(opts.Dataset, data)
	}
	return concept.LoadFile(opts.Dataset)
}

// fetchDataset downloads the raw dataset bytes, retrying transient failures.
func fetchDataset(ctx context.Context, ref string) ([]byte, error) {
	client := httputil.NewHTTPClient()

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var ferr error
		data, ferr = httputil.Fetch(ctx, client, ref)
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	return data, nil
}

// decodeDataset builds a snapshot from raw bytes, selecting the codec by the
// reference's extension the same way concept.LoadFile does for files.
func decodeDataset(ref string, data []byte) (*concept.Snapshot, error) {
	switch datasetExt(ref) {
	case ".yaml", ".yml":
		return concept.ReadYAML(bytes.NewReader(data))
	default:
		return concept.ReadJSON(bytes.NewReader(data))
	}
}

// datasetExt extracts the lowercase extension from a file path or URL.
// URLs are parsed first so query strings do not leak into the extension.
func datasetExt(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return strings.ToLower(path.Ext(u.Path))
	}
	return strings.ToLower(filepath.Ext(ref))
}
