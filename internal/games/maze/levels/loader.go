package levels

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/MilleBA/Pac-Man/internal/registry"
)

//go:embed classic
var builtin embed.FS

// ClassicID is the identifier of the embedded pack.
const ClassicID = "classic"

func init() {
	registry.Register(ClassicID, func() (registry.Pack, error) {
		return LoadPack(builtin, "classic")
	})
}

// Open returns a fresh copy of a registered pack.
func Open(id string) (*Pack, error) {
	p, err := registry.Create(id)
	if err != nil {
		return nil, err
	}
	pack, ok := p.(*Pack)
	if !ok {
		return nil, fmt.Errorf("levels: pack %q is not a level pack", id)
	}
	return pack, nil
}

// Loader finds packs on disk: every directory under Root that holds a pack.yaml.
type Loader struct {
	Root   string
	Logger *log.Logger
}

// NewLoader creates a new pack loader.
func NewLoader(root string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{Root: root, Logger: logger}
}

// LoadAll recursively scans Root and loads every pack it finds.
// Packs that fail to load are logged and skipped.
// Returns packs sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]*Pack, error) {
	fsys := os.DirFS(l.Root)
	var packs []*Pack

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != ManifestFile {
			return nil
		}

		pack, err := LoadPack(fsys, path.Dir(p))
		if err != nil {
			l.Logger.Warn("skipping level pack", "path", filepath.Join(l.Root, p), "err", err)
			return nil
		}
		pack.origin = filepath.Join(l.Root, path.Dir(p))

		packs = append(packs, pack)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking directory %s: %w", l.Root, err)
	}

	sort.Slice(packs, func(i, j int) bool {
		return packs[i].ID() < packs[j].ID()
	})
	return packs, nil
}

// RegisterAll loads every pack under Root and adds it to the registry.
// It returns the IDs that were registered; clashes with existing IDs are logged.
func (l *Loader) RegisterAll() ([]string, error) {
	packs, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, p := range packs {
		dir := p.origin
		err := registry.TryRegister(p.ID(), func() (registry.Pack, error) {
			return LoadPack(os.DirFS(dir), ".")
		})
		if err != nil {
			l.Logger.Warn("level pack not registered", "id", p.ID(), "err", err)
			continue
		}
		ids = append(ids, p.ID())
	}
	return ids, nil
}

// LoadLevelFile parses a single level file outside any pack.
func LoadLevelFile(filePath string) (*Stage, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("levels: reading %s: %w", filePath, err)
	}
	p := &Pack{
		id:     filepath.Base(filePath),
		title:  filepath.Base(filePath),
		origin: filePath,
		levels: []Level{{Index: 1, Name: filepath.Base(filePath), File: filePath, source: string(data)}},
	}
	return p.Load(1)
}
