package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey tags each line with the subsystem that wrote it.
const ComponentKey = "component"

// Component derives a tagged child of the global logger. The global logger is
// read at call time, so call it after the logger has been configured.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str(ComponentKey, name).Logger()
}
