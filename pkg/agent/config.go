package agent

// Config holds the agent's startup configuration. The identification
// rules in PadConfig are watched and hot-reloaded; everything here is
// fixed for the process lifetime.
type Config struct {
	DataDir   string
	PadConfig string
	Slots     int
}
