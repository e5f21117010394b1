// Package catalog provides product description templates: the built-in
// set, YAML files from a directory and templates saved to a repository.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"productdesc/internal/domain"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// templateFile is the on-disk YAML shape of a template.
type templateFile struct {
	ID          string           `yaml:"id" validate:"required"`
	Name        string           `yaml:"name" validate:"required"`
	Category    string           `yaml:"category" validate:"required"`
	Description string           `yaml:"description"`
	Blocks      []map[string]any `yaml:"blocks" validate:"dive,required"`
}

var validate = validator.New()

// Parse decodes one YAML template. Each block starts from the factory
// defaults of its type and is overlaid with the keys given in the file.
func Parse(data []byte) (domain.Template, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Template{}, fmt.Errorf("decode template: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return domain.Template{}, fmt.Errorf("invalid template %q: %w", f.ID, err)
	}

	tpl := domain.Template{
		ID:          f.ID,
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		Blocks:      make([]domain.Block, 0, len(f.Blocks)),
	}
	for i, fields := range f.Blocks {
		b, err := blueprint(fields)
		if err != nil {
			return domain.Template{}, fmt.Errorf("template %q block %d: %w", f.ID, i, err)
		}
		b.ID = fmt.Sprintf("%s-%d", f.ID, i+1)
		tpl.Blocks = append(tpl.Blocks, b)
	}
	return tpl, nil
}

func blueprint(fields map[string]any) (domain.Block, error) {
	t, _ := fields["type"].(string)
	bt := domain.BlockType(t)
	if !bt.Supported() {
		return domain.Block{}, fmt.Errorf("unsupported block type %q", t)
	}
	columns := 0
	if c, ok := fields["columns"].(int); ok {
		columns = c
	}
	return domain.NewBlock(bt, columns).Merge(domain.Patch(fields))
}

// Encode renders tpl in the YAML file format accepted by Parse.
func Encode(tpl domain.Template) ([]byte, error) {
	f := templateFile{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Category:    tpl.Category,
		Description: tpl.Description,
	}
	for _, b := range tpl.Blocks {
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		delete(fields, "id")
		f.Blocks = append(f.Blocks, fields)
	}
	return yaml.Marshal(f)
}

// Builtin returns the templates shipped with the binary.
func Builtin() ([]domain.Template, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var out []domain.Template
	for _, e := range entries {
		data, err := builtinFS.ReadFile("builtin/" + e.Name())
		if err != nil {
			return nil, err
		}
		tpl, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", e.Name(), err)
		}
		out = append(out, tpl)
	}
	return out, nil
}

// LoadDir parses every *.yaml / *.yml file in dir. Valid templates are
// returned even when some files fail; the failures are combined in err.
func LoadDir(dir string) ([]domain.Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	var (
		out  []domain.Template
		errs error
	)
	for _, e := range entries {
		if e.IsDir() || !isTemplateFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		tpl, err := Parse(data)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		out = append(out, tpl)
	}
	return out, errs
}

func isTemplateFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Catalog merges built-in, directory and repository templates. Later
// sources override earlier ones with the same id.
type Catalog struct {
	dir    string
	repo   domain.TemplateRepository
	logger *zap.Logger

	mu      sync.RWMutex
	builtin []domain.Template
	files   []domain.Template
}

// New creates a Catalog. dir and repo are optional.
func New(dir string, repo domain.TemplateRepository, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	c := &Catalog{dir: dir, repo: repo, logger: logger, builtin: builtin}
	if dir != "" {
		if err := c.Reload(); err != nil {
			logger.Warn("some templates failed to load", zap.String("dir", dir), zap.Error(err))
		}
	}
	return c, nil
}

// Dir returns the watched template directory, or "".
func (c *Catalog) Dir() string {
	return c.dir
}

// Reload re-reads the template directory. Files that fail to parse are
// skipped and reported in the returned error.
func (c *Catalog) Reload() error {
	if c.dir == "" {
		return nil
	}
	files, err := LoadDir(c.dir)
	c.mu.Lock()
	c.files = files
	c.mu.Unlock()
	c.logger.Debug("templates reloaded", zap.String("dir", c.dir), zap.Int("count", len(files)))
	return err
}

// Templates returns every template, sorted by category then name.
func (c *Catalog) Templates(ctx context.Context) ([]domain.Template, error) {
	c.mu.RLock()
	sources := [][]domain.Template{c.builtin, c.files}
	c.mu.RUnlock()

	if c.repo != nil {
		stored, err := c.repo.ListTemplates(ctx)
		if err != nil {
			return nil, fmt.Errorf("list stored templates: %w", err)
		}
		sources = append(sources, stored)
	}

	byID := map[string]domain.Template{}
	for _, src := range sources {
		for _, t := range src {
			byID[t.ID] = t
		}
	}
	out := make([]domain.Template, 0, len(byID))
	for _, t := range byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Get returns the template with the given id.
func (c *Catalog) Get(ctx context.Context, id string) (domain.Template, bool, error) {
	all, err := c.Templates(ctx)
	if err != nil {
		return domain.Template{}, false, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, true, nil
		}
	}
	return domain.Template{}, false, nil
}

// Save stores tpl in the repository.
func (c *Catalog) Save(ctx context.Context, tpl domain.Template) error {
	if c.repo == nil {
		return fmt.Errorf("no template repository configured")
	}
	if err := validate.Struct(tpl); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	return c.repo.SaveTemplate(ctx, &tpl)
}
