package helpers

import (
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// appHook stamps every entry with the service name and environment.
type appHook struct {
	app, env string
}

func (h appHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h appHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["app"]; !ok {
		e.Data["app"] = h.app
	}
	e.Data["env"] = h.env
	return nil
}

// NewLogger returns a text logger at debug level in development and a JSON
// logger at info level everywhere else.
func NewLogger(appName, env string) *logrus.Logger {
	return newLogger(os.Stdout, appName, env)
}

func newLogger(out io.Writer, appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.AddHook(appHook{app: appName, env: env})
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// RequestLogger returns an entry tagged with the request id, route and, when known, the caller.
func RequestLogger(logger *logrus.Logger, c *gin.Context) *logrus.Entry {
	fields := logrus.Fields{
		"request_id": c.GetString("request_id"),
		"route":      c.FullPath(),
		"method":     c.Request.Method,
	}
	if uid, ok := c.Get("userID"); ok {
		fields["user_id"] = uid
	}
	if id := c.Param("id"); id != "" {
		fields["item_id"] = id
	}
	return logger.WithFields(fields)
}
