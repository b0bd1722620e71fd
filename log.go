package sigma

import (
	"github.com/sirupsen/logrus"
)

// Logger is the package logger. It defaults to the logrus standard logger;
// embedding applications may replace it. Secret exponents, nonces and signing
// keys are never passed to it.
var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
}
