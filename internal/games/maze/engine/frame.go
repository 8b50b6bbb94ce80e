package engine

import (
	"time"

	"github.com/MilleBA/Pac-Man/internal/core"
	"github.com/MilleBA/Pac-Man/internal/games/maze/adversary"
)

// EventKind classifies something that happened during a tick.
type EventKind uint8

const (
	EventDot EventKind = iota
	EventEnergized
	EventCaptured
	EventHit
	EventLevelUp
	EventGameOver
	EventVictory
	EventRespawned
	EventCalmed
	EventRestarted
)

func (k EventKind) String() string {
	switch k {
	case EventDot:
		return "dot"
	case EventEnergized:
		return "energized"
	case EventCaptured:
		return "captured"
	case EventHit:
		return "hit"
	case EventLevelUp:
		return "level_up"
	case EventGameOver:
		return "game_over"
	case EventVictory:
		return "victory"
	case EventRespawned:
		return "respawned"
	case EventCalmed:
		return "calmed"
	case EventRestarted:
		return "restarted"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one entry of the per-tick event log.
type Event struct {
	Kind      EventKind     `json:"kind"`
	Pos       core.Position `json:"pos"`
	Adversary string        `json:"adversary,omitempty"`
	Points    int           `json:"points,omitempty"`
	Level     int           `json:"level,omitempty"`
}

// PlayerState is the player part of a frame.
type PlayerState struct {
	Pos          core.Position  `json:"pos"`
	Dir          core.Direction `json:"dir"`
	Invulnerable bool           `json:"invulnerable"`
}

// AdversaryState is one adversary in a frame.
type AdversaryState struct {
	ID   core.AdversaryID `json:"id"`
	Pos  core.Position    `json:"pos"`
	Dir  core.Direction   `json:"dir"`
	Mode adversary.Mode   `json:"mode"`
	Home core.Position    `json:"home"`
}

// FrameState is an immutable copy of everything a presentation layer needs.
// Grid holds one string per row in the digit level format.
type FrameState struct {
	Pack      string `json:"pack"`
	LevelName string `json:"level_name"`
	Level     int    `json:"level"`
	Levels    int    `json:"levels"`

	Status    Status  `json:"status"`
	Score     int     `json:"score"`
	HighScore int     `json:"high_score"`
	Lives     int     `json:"lives"`
	MaxLives  int     `json:"max_lives"`
	Speed     float64 `json:"speed"`

	Remaining int `json:"remaining"`
	Total     int `json:"total"`

	Frightened     bool          `json:"frightened"`
	FrightenedLeft time.Duration `json:"frightened_left"`

	Player      PlayerState      `json:"player"`
	Adversaries []AdversaryState `json:"adversaries"`

	Width  int      `json:"width"`
	Height int      `json:"height"`
	Grid   []string `json:"grid"`

	Clock          time.Duration `json:"clock"`
	PlayerTicks    uint64        `json:"player_ticks"`
	AdversaryTicks uint64        `json:"adversary_ticks"`

	Events []Event `json:"events,omitempty"`
}
