package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"coin-rush/internal/config"
)

var (
	writerMu     sync.Mutex
	activeWriter io.Writer = os.Stdout
)

// Init configures the global zerolog logger from LogConfig. With LOG_FILE
// set, output goes to a size-capped file that truncates once it exceeds
// LOG_MAX_MB.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}

	var output io.Writer = os.Stdout
	if cfg.File != "" {
		if w, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB); err == nil {
			output = w
		}
	}
	setWriter(output)
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer returns the sink Init selected, for bridging into other loggers.
func Writer() io.Writer {
	writerMu.Lock()
	defer writerMu.Unlock()
	return activeWriter
}

func setWriter(w io.Writer) {
	writerMu.Lock()
	defer writerMu.Unlock()
	activeWriter = w
}
