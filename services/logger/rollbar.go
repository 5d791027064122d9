package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// RollbarLogger mirrors everything to a std logger and reports Warn and
// above to Rollbar. A user.User among the args is attached to the report as
// the acting person rather than logged as payload.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// Enable toggles remote reporting; local printing always stays on.
func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	l.print("DEBUG", msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.print("INFO", msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.Warning, msg, args)
	l.print("WARN", msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.Error, msg, args)
	l.print("ERROR", msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.Critical, msg, args)
	l.print("FATAL", msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}

// report ships msg and args to rollbar at the given level. The first
// user.User found becomes the report's person; users are never forwarded as
// extra payload.
func (l *RollbarLogger) report(level func(...interface{}), msg string, args []interface{}) {
	payload := make([]interface{}, 0, len(args)+1)
	payload = append(payload, msg)

	var personSet bool
	for _, arg := range args {
		if usr, ok := arg.(user.User); ok {
			if !personSet {
				rollbar.SetPerson(usr.ID, usr.Name, usr.Email)
				personSet = true
			}
			continue
		}
		payload = append(payload, arg)
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	level(payload...)
}

func (l *RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s : %s", level, msg)
	for _, arg := range args {
		l.std.Printf("%+v", arg)
	}
}
