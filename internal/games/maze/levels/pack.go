// Package levels loads level packs: a pack.yaml manifest plus one digit-grid
// text file per level. Packs come from the embedded classic set or from disk
// and are published through the registry.
package levels

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/board"
)

// ManifestFile is the name of the manifest inside a pack directory.
const ManifestFile = "pack.yaml"

// Manifest is the YAML form of a pack.
type Manifest struct {
	ID           string      `yaml:"id"`
	Title        string      `yaml:"title"`
	VictoryScore int         `yaml:"victory_score"`
	Levels       []LevelSpec `yaml:"levels"`
}

// LevelSpec describes one level in the manifest.
type LevelSpec struct {
	File        string   `yaml:"file"`
	Name        string   `yaml:"name"`
	Checkpoint  int      `yaml:"checkpoint"`  // 0 disables the exit shortcut
	Adversaries []string `yaml:"adversaries"` // empty means every spawn on the board
}

// Level is a resolved manifest entry.
type Level struct {
	Index       int // 1-based
	Name        string
	File        string
	Checkpoint  int
	Adversaries []core.AdversaryID
	source      string
}

// Pack is an ordered set of levels with a victory threshold.
type Pack struct {
	id           string
	title        string
	victoryScore int
	levels       []Level
	origin       string
}

// Stage is a level ready to play: a fresh board and the spawns to populate.
type Stage struct {
	Level  Level
	Board  *board.Board
	Spawns []board.Spawn
}

// ID returns the pack identifier.
func (p *Pack) ID() string { return p.id }

// Title returns the display name.
func (p *Pack) Title() string { return p.title }

// VictoryScore is the score needed to win on completing the final level.
func (p *Pack) VictoryScore() int { return p.victoryScore }

// LevelCount returns the number of levels.
func (p *Pack) LevelCount() int { return len(p.levels) }

// Origin describes where the pack was loaded from.
func (p *Pack) Origin() string { return p.origin }

// Level returns the manifest entry for a 1-based index.
func (p *Pack) Level(index int) (Level, bool) {
	if index < 1 || index > len(p.levels) {
		return Level{}, false
	}
	return p.levels[index-1], true
}

// Levels returns every manifest entry in order.
func (p *Pack) Levels() []Level {
	out := make([]Level, len(p.levels))
	copy(out, p.levels)
	return out
}

// Load parses the level at a 1-based index into a fresh stage.
//
// A malformed layout still yields a stage, returned together with a
// *board.MalformedLevelError. A *board.ConfigurationError means the level
// cannot be played: no player spawn, or the manifest names an adversary the
// board does not place.
func (p *Pack) Load(index int) (*Stage, error) {
	lvl, ok := p.Level(index)
	if !ok {
		return nil, &board.ConfigurationError{
			Level:  fmt.Sprintf("%s#%d", p.id, index),
			Reason: fmt.Sprintf("pack has %d levels", len(p.levels)),
		}
	}

	b, err := board.Parse(lvl.Name, lvl.source)
	var malformed *board.MalformedLevelError
	if err != nil && !errors.As(err, &malformed) {
		return nil, err
	}

	spawns, rosterErr := roster(lvl, b)
	if rosterErr != nil {
		return nil, rosterErr
	}

	stage := &Stage{Level: lvl, Board: b, Spawns: spawns}
	if malformed != nil {
		return stage, malformed
	}
	return stage, nil
}

// roster selects the spawns the manifest asks for.
func roster(lvl Level, b *board.Board) ([]board.Spawn, error) {
	all := b.AdversarySpawns()
	if len(lvl.Adversaries) == 0 {
		return all, nil
	}

	want := make(map[core.AdversaryID]bool, len(lvl.Adversaries))
	for _, id := range lvl.Adversaries {
		if !b.HasAdversary(id) {
			return nil, &board.ConfigurationError{
				Level:  lvl.Name,
				Reason: fmt.Sprintf("manifest names %s but the board has no spawn for it", id),
			}
		}
		want[id] = true
	}

	spawns := make([]board.Spawn, 0, len(want))
	for _, s := range all {
		if want[s.ID] {
			spawns = append(spawns, s)
		}
	}
	return spawns, nil
}

// LoadPack reads the manifest in dir and every level file it lists.
func LoadPack(fsys fs.FS, dir string) (*Pack, error) {
	manifestPath := path.Join(dir, ManifestFile)
	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("levels: reading %s: %w", manifestPath, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("levels: parsing %s: %w", manifestPath, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", manifestPath, err)
	}

	p := &Pack{
		id:           m.ID,
		title:        m.Title,
		victoryScore: m.VictoryScore,
		levels:       make([]Level, len(m.Levels)),
		origin:       dir,
	}
	if p.title == "" {
		p.title = m.ID
	}

	for i, entry := range m.Levels {
		levelPath := path.Join(dir, entry.File)
		src, err := fs.ReadFile(fsys, levelPath)
		if err != nil {
			return nil, fmt.Errorf("levels: reading %s: %w", levelPath, err)
		}

		ids := make([]core.AdversaryID, len(entry.Adversaries))
		for j, name := range entry.Adversaries {
			ids[j], _ = core.ParseAdversaryID(name)
		}

		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", m.ID, i+1)
		}
		p.levels[i] = Level{
			Index:       i + 1,
			Name:        name,
			File:        entry.File,
			Checkpoint:  entry.Checkpoint,
			Adversaries: ids,
			source:      string(src),
		}
	}
	return p, nil
}

// Validate checks the manifest fields that do not need the level files.
func (m Manifest) Validate() error {
	if m.ID == "" {
		return errors.New("manifest has no id")
	}
	if len(m.Levels) == 0 {
		return fmt.Errorf("pack %q has no levels", m.ID)
	}
	if m.VictoryScore < 0 {
		return fmt.Errorf("pack %q: negative victory_score", m.ID)
	}
	for i, entry := range m.Levels {
		if entry.File == "" {
			return fmt.Errorf("pack %q: level %d has no file", m.ID, i+1)
		}
		if entry.Checkpoint < 0 {
			return fmt.Errorf("pack %q: level %d has a negative checkpoint", m.ID, i+1)
		}
		for _, name := range entry.Adversaries {
			if _, ok := core.ParseAdversaryID(name); !ok {
				return &board.ConfigurationError{
					Level:  entry.File,
					Reason: fmt.Sprintf("unknown adversary %q", name),
				}
			}
		}
	}
	return nil
}
