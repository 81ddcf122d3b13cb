// README: Process-wide logrus setup.
package infra

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets the standard logger's level and formatter.
// format is "json" or "text".
func ConfigureLogging(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stdout)
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
