package core

// RuntimeConfig carries host-provided settings into a game session.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	FPS     int    // Host redraw rate; the simulation has its own cadences
	Seed    int64  // RNG seed for adversary movement (0 = time based in hosts)
	Player  string // Display name recorded with finished runs
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		FPS:     30,
		Seed:    0,
		Player:  "player",
	}
}
