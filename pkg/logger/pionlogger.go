package logger

import (
	"github.com/pion/logging"
	"github.com/rs/zerolog"
)

// NewPionLogger routes the webrtc engine logs into the app logger.
// The engine is chatty, so it gets its own verbosity cap on top of
// the global one.
func NewPionLogger(root *Logger, level int) logging.LoggerFactory {
	return &pionFactory{log: root.Wrap(root.Level(zerolog.Level(level)).With())}
}

type pionFactory struct {
	log *Logger
}

// NewLogger makes a leveled logger for one engine subsystem (ice, dtls,
// sctp and so on), tagged with its scope.
func (f *pionFactory) NewLogger(scope string) logging.LeveledLogger {
	return &pionLeveled{log: f.log.Wrap(f.log.With().Str("mod", scope))}
}

type pionLeveled struct {
	log *Logger
}

func (l *pionLeveled) Trace(msg string) { l.log.WithLevel(zerolog.TraceLevel).Msg(msg) }
func (l *pionLeveled) Tracef(format string, args ...any) {
	l.log.WithLevel(zerolog.TraceLevel).Msgf(format, args...)
}

func (l *pionLeveled) Debug(msg string)                  { l.log.Debug().Msg(msg) }
func (l *pionLeveled) Debugf(format string, args ...any) { l.log.Debug().Msgf(format, args...) }

func (l *pionLeveled) Info(msg string)                  { l.log.Info().Msg(msg) }
func (l *pionLeveled) Infof(format string, args ...any) { l.log.Info().Msgf(format, args...) }

func (l *pionLeveled) Warn(msg string)                  { l.log.Warn().Msg(msg) }
func (l *pionLeveled) Warnf(format string, args ...any) { l.log.Warn().Msgf(format, args...) }

func (l *pionLeveled) Error(msg string)                  { l.log.Error().Msg(msg) }
func (l *pionLeveled) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }
