package filedb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	conf "github.com/HiSumm3rs/Bot-IDBL/internal/config"
	"github.com/HiSumm3rs/Bot-IDBL/internal/model"
	"github.com/HiSumm3rs/Bot-IDBL/internal/repo"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// Repository persists the whole Document as a single JSON file. There is no
// partial update: Load reads the full document, Save rewrites it.
type Repository struct {
	path string
}

func New(conf *conf.StoreConfig) *Repository {
	if dir := filepath.Dir(conf.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			zap.L().Fatal("Failed to create store directory", zap.Error(err))
		}
	}
	return &Repository{path: conf.Path}
}

// Load reads the persisted document. A missing file is the empty state; a
// present but unparseable file surfaces repo.ErrMalformedStore.
func (r *Repository) Load(ctx context.Context) (*model.Document, error) {
	const op = "economy.Load.repo"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	data, err := os.ReadFile(r.path)
	if err != nil && os.IsNotExist(err) {
		return model.NewDocument(), nil
	} else if err != nil {
		return nil, err
	}

	doc := model.NewDocument()
	if len(data) > 0 {
		if err = json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("%w: %v", repo.ErrMalformedStore, err)
		}
	}
	return doc, nil
}

func (r *Repository) Save(ctx context.Context, doc *model.Document) error {
	const op = "economy.Save.repo"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}
