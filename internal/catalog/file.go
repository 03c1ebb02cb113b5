package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"xlink-template-picker/internal/gallery"
)

// FileSource reads a catalog snapshot shaped like the templates endpoint
// response. YAML and JSON files are both accepted.
type FileSource struct {
	Path string
}

type fileCatalog struct {
	Templates []gallery.Template `yaml:"templates"`
}

func (f FileSource) FetchTemplates(ctx context.Context) ([]gallery.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var out fileCatalog
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", f.Path, err)
	}
	return out.Templates, nil
}
