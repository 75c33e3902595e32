package process

import (
	"io"
	"time"
)

// DefaultGracePeriod is the SIGTERM to SIGKILL delay when none is set.
const DefaultGracePeriod = 5 * time.Second

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	Args   []string
	Dir    string
	// Env is appended to os.Environ; nil inherits the parent environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	GracePeriod time.Duration
}
