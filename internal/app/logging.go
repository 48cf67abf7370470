package app

import (
	"github.com/scoreleaf/scoreleaf/internal/logging"
)

// appLog is the package-level structured logger for the app package, tagged
// with the component "app". The log level is controlled by the
// SCORELEAF_LOG_LEVEL environment variable; all output goes to stderr so it
// does not interfere with the Bubble Tea terminal UI on stdout.
var appLog = logging.New("app")
