package zerologger

import (
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"

	logcomm "github.com/TopiaNetwork/contractconf/log/common"
)

// ZeroLogger is safe for concurrent use, including UpdateLoggerLevel
// racing with logging calls.
type ZeroLogger struct {
	log atomic.Pointer[zerolog.Logger]
}

func newZeroLogger(zl *zerolog.Logger) *ZeroLogger {
	l := &ZeroLogger{}
	l.log.Store(zl)
	return l
}

func NewLogger(level zerolog.Level, w io.Writer) *ZeroLogger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()

	return newZeroLogger(&zl)
}

func NewNopLogger() *ZeroLogger {
	zl := zerolog.Nop()

	return newZeroLogger(&zl)
}

func (zl *ZeroLogger) Trace(msg string) {
	zl.log.Load().Trace().Msg(msg)
}

func (zl *ZeroLogger) Tracef(format string, args ...interface{}) {
	zl.log.Load().Trace().Msgf(format, args...)
}

func (zl *ZeroLogger) Debug(msg string) {
	zl.log.Load().Debug().Msg(msg)
}

func (zl *ZeroLogger) Debugf(format string, args ...interface{}) {
	zl.log.Load().Debug().Msgf(format, args...)
}

func (zl *ZeroLogger) Info(msg string) {
	zl.log.Load().Info().Msg(msg)
}

func (zl *ZeroLogger) Infof(format string, args ...interface{}) {
	zl.log.Load().Info().Msgf(format, args...)
}

func (zl *ZeroLogger) Warn(msg string) {
	zl.log.Load().Warn().Msg(msg)
}

func (zl *ZeroLogger) Warnf(format string, args ...interface{}) {
	zl.log.Load().Warn().Msgf(format, args...)
}

func (zl *ZeroLogger) Error(msg string) {
	zl.log.Load().Error().Msg(msg)
}

func (zl *ZeroLogger) Errorf(format string, args ...interface{}) {
	zl.log.Load().Error().Msgf(format, args...)
}

func (zl *ZeroLogger) Fatal(msg string) {
	zl.log.Load().Fatal().Msg(msg)
}

func (zl *ZeroLogger) Fatalf(format string, args ...interface{}) {
	zl.log.Load().Fatal().Msgf(format, args...)
}

func (zl *ZeroLogger) UpdateLoggerLevel(level logcomm.LogLevel) {
	zxNew := zl.log.Load().Level(logcomm.ToZerologLevel(level))
	zl.log.Store(&zxNew)
}

func (zl *ZeroLogger) CreateModuleLogger(level zerolog.Level, module string) *ZeroLogger {
	mLog := zl.log.Load().With().Str("module", module).Logger().Level(level)

	return newZeroLogger(&mLog)
}

// WithField returns a child logger carrying key=value on every event.
func (zl *ZeroLogger) WithField(key string, value string) *ZeroLogger {
	fLog := zl.log.Load().With().Str(key, value).Logger()

	return newZeroLogger(&fLog)
}
