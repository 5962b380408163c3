package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Tanaychoubey/user-registration-api/internal/logging"
	"github.com/pressly/goose/v3"
)

// gooseLogger forwards goose's printf-style output to a logging.Logger.
type gooseLogger struct {
	logger logging.Logger
	exit   func(code int)
}

func newGooseLogger(l logging.Logger) *gooseLogger {
	return &gooseLogger{logger: l.With("module", "migrations"), exit: os.Exit}
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.logger.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.logger.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	g.exit(1)
}

var _ goose.Logger = (*gooseLogger)(nil)
