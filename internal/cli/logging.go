package cli

import (
	"go.uber.org/zap"

	"github.com/kruzic-io/kruzic/internal/config"
	"github.com/kruzic-io/kruzic/internal/logging"
)

// logger is the diagnostic log. The terminal belongs to the demo, so it
// writes to ~/.kruzic/logs/kruzic.log.
var logger = zap.NewNop()

func setupLogging(verbose bool, level string) error {
	path, err := config.CLILogFile()
	if err != nil {
		return err
	}
	l, err := logging.New(logging.Options{
		Level:   level,
		Verbose: verbose,
		File:    path,
		Name:    "kruzic",
	})
	if err != nil {
		return err
	}
	logger = l
	return nil
}
