package main

import (
	"context"
	"fmt"
	"mensa-go-worker/controllers/check"
	"mensa-go-worker/controllers/comment"
	"mensa-go-worker/controllers/mensaSync"
	"mensa-go-worker/controllers/schema"
	"mensa-go-worker/controllers/syncQueue"
	"mensa-go-worker/database"
	"mensa-go-worker/enums"
	"mensa-go-worker/router"
	"mensa-go-worker/services/feed"
	"mensa-go-worker/services/ingest"
	logLib "mensa-go-worker/services/log"
	"mensa-go-worker/services/rabbitmq"
	schemaService "mensa-go-worker/services/schema"
	"mensa-go-worker/services/speiseplan"
	"mensa-go-worker/services/store"
	"mensa-go-worker/services/trackLog"
	"mensa-go-worker/structs"
	"mensa-go-worker/utils"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const queueConnection = "mensa"

func main() {

	var envService utils.EnvService
	envService.InitEnv()
	config := *utils.EnvConfig
	trackLog.LogTrackInit(config)
	trackLog.Info("config loaded", false)

	db, err := database.InitDatabasePool(config)
	if err != nil {
		trackLog.Error(err.Error(), true)
		panic(err)
	}
	defer db.Close()

	if config.Database.AutoMigrate {
		result, err := schemaService.Run(db, []string{schemaService.ModeSetup})
		if err != nil {
			panic(err)
		}
		trackLog.Info(fmt.Sprintf("schema setup: %v", result), true)
	}

	location, err := time.LoadLocation(config.Ingest.Timezone)
	if err != nil {
		panic(err)
	}

	logService := logLib.LogService{Config: config}
	ingestLogger := logService.LoggerInit("ingest")

	planStore := store.NewPlanStore(db)
	feedClient := feed.NewClient(config.Feed.BaseURL, config.Feed.Timeout, config.Feed.ImageInsecureSkipVerify)
	parser := &speiseplan.Parser{}
	if config.Feed.FetchImages {
		parser.Images = feedClient
	}
	ingestService := ingest.NewService(feedClient, parser, planStore, ingest.Options{
		Days:         config.Ingest.Days,
		Concurrency:  config.Ingest.Concurrency,
		Location:     location,
		SkipWeekends: config.Ingest.SkipWeekends,
		BulkMeals:    config.Ingest.BulkMeals,
	}, ingestLogger)

	defer func() {
		ingestLogger.WithFields(logrus.Fields{"task": "main"}).Error("worker shutdown")
	}()

	controllers := router.Controllers{
		Check:   &check.Checker{DB: db.DB()},
		Sync:    &mensaSync.Controller{Runner: ingestService},
		Comment: &comment.Controller{Store: planStore},
		Schema:  &schema.Controller{DB: db},
	}

	var wg sync.WaitGroup

	if config.Ingest.RunOnStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ingestService.RunAndLog(context.Background(), structs.SyncRequest{}, 0, enums.SystemOperate); err != nil {
				trackLog.Error(err.Error(), true)
			}
		}()
	}

	if config.RabbitMQ.Enable == 1 {
		controllers.Check.Connection = queueConnection
		if err := SyncQueue(config.RabbitMQ.Domain, config.RabbitMQ.Queue, ingestService); err != nil {
			panic(err)
		}
	}

	route := router.Router(controllers)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := route.Run(fmt.Sprintf(":%d", config.Router.Port)); err != nil {
			trackLog.Error(err.Error(), true)
		}
	}()

	wg.Wait()
}

// SyncQueue consumes the sync queue; each message starts an ingest run.
func SyncQueue(url, queue string, runner syncQueue.Runner) error {
	conn := rabbitmq.NewConnection(queueConnection, url, []string{queue})

	if err := conn.Connect(); err != nil {
		return err
	}
	if err := conn.BindQueue(); err != nil {
		return err
	}
	deliveries, err := conn.Consume()
	if err != nil {
		return err
	}

	handler := syncQueue.Handler(runner)
	for q, d := range deliveries {
		go conn.HandleConsumedDeliveries(q, d, handler)
	}
	trackLog.Info(fmt.Sprintf(" [ %s ] [ %s ] Waiting for messages", queueConnection, queue), true)
	return nil
}
