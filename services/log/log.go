package log

import (
	"fmt"
	"io"
	"mensa-go-worker/structs"
	"net"
	"os"
	"path"
	"time"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

const hookName = "mensa-go-worker"

type LogService struct {
	Config structs.EnviromentModel
}

// LoggerInit returns a logger writing to logs/<date>/<name>.log and stdout,
// plus the ELK and logstash hooks when enabled.
func (l *LogService) LoggerInit(name string) *logrus.Logger {
	now := time.Now()
	logFilePath := ""
	if dir, err := os.Getwd(); err == nil {
		logFilePath = dir + "/logs/" + now.Format("2006-01-02") + "/"
	}
	if err := os.MkdirAll(logFilePath, 0777); err != nil {
		fmt.Println(err.Error())
	}
	fileName := path.Join(logFilePath, name+".log")

	logger := logrus.New()
	logger.Out = os.Stdout
	if src, err := os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666); err != nil {
		fmt.Println("err", err)
	} else {
		logger.Out = io.MultiWriter(src, os.Stdout)
	}

	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if l.Config.Log.ElkEnable == 1 {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{l.Config.Log.ElkURL},
		})
		if err != nil {
			logger.Debug(err.Error())
		} else if hook, err := elogrus.NewAsyncElasticHook(client, hookName, logrus.DebugLevel, l.Config.Log.ElkIndex); err != nil {
			logger.Debug(err.Error())
		} else {
			logger.Hooks.Add(hook)
		}
	}

	if l.Config.Log.LogstashEnable == 1 {
		conn, err := net.Dial("udp", l.Config.Log.LogstashURL)
		if err != nil {
			logger.Debug(err)
		} else {
			hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": hookName}))
			logger.Hooks.Add(hook)
		}
	}

	return logger
}
