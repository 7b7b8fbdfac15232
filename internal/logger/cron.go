package logger

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// cronLogger routes cron's key/value logging into zerolog.
type cronLogger struct {
	log zerolog.Logger
}

// Cron adapts a zerolog logger to the cron.Logger interface.
func Cron(log zerolog.Logger) cron.Logger {
	return &cronLogger{log: log.With().Str("component", "cron").Logger()}
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug().Fields(pairs(keysAndValues)).Msg(msg)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error().Err(err).Fields(pairs(keysAndValues)).Msg(msg)
}

// pairs turns cron's alternating key/value list into a field map.
// A dangling key is kept with an empty value.
func pairs(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			fields[key] = kv[i+1]
		} else {
			fields[key] = ""
		}
	}
	return fields
}
