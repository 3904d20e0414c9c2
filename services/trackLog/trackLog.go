package trackLog

import (
	"mensa-go-worker/services/log"
	"mensa-go-worker/structs"

	"github.com/sirupsen/logrus"
)

var logTracker = logrus.NewEntry(logrus.StandardLogger())

func LogTrackInit(config structs.EnviromentModel) {
	trackerService := log.LogService{Config: config}
	temp := trackerService.LoggerInit("tracker")
	logTracker = temp.WithFields(logrus.Fields{"task": "track"})
}

func Info(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Info(message)
		return
	}
	logrus.Info(message)
}

func Error(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Error(message)
		return
	}
	logrus.Error(message)
}
