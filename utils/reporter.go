package utils

import (
	"log"

	"github.com/rollbar/rollbar-go"
	rollbarErrors "github.com/rollbar/rollbar-go/errors"

	"madrasa/config"
)

// InitReporter enables Rollbar when ROLLBAR_TOKEN is set.
func InitReporter(cfg *config.Config) {
	rollbar.SetToken(cfg.RollbarToken)
	rollbar.SetEnvironment(cfg.Env)
	rollbar.SetStackTracer(rollbarErrors.StackTracer)
	rollbar.SetEnabled(cfg.RollbarToken != "")
}

// ReportError logs err and forwards it to Rollbar when enabled.
func ReportError(err error, extras map[string]interface{}) {
	if err == nil {
		return
	}
	log.Printf("[ERROR] %+v %v", err, extras)
	if extras != nil {
		rollbar.Error(err, extras)
		return
	}
	rollbar.Error(err)
}

// FlushReports waits for queued reports; call it on shutdown.
func FlushReports() {
	rollbar.Wait()
}
