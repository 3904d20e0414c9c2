package utils

import (
	"fmt"
	"mensa-go-worker/structs"
	"strings"

	"github.com/spf13/viper"
)

var EnvConfig *structs.EnviromentModel

type EnvService struct{}

func (e *EnvService) InitEnv() {
	e.loadConfig()
	e.setDefaults()
	e.configToModel()
}

func (e *EnvService) loadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {

			// no config.yml, read everything from the environment
			viper.AutomaticEnv()
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		} else {

			// config.yml exists but could not be read
			panic(fmt.Errorf("Fatal error config file: %s \n", err))
		}
	}
	return
}

func (e *EnvService) setDefaults() {
	viper.SetDefault("database.client", "mysql")
	viper.SetDefault("database.max_idle", 4)
	viper.SetDefault("database.max_open_conn", 16)
	viper.SetDefault("database.max_life_time", "5m")
	viper.SetDefault("database.params", "charset=utf8mb4&parseTime=True&loc=Europe%2FBerlin")
	viper.SetDefault("database.port", "3306")
	viper.SetDefault("feed.base_url", "https://www.swcz.de/bilderspeiseplan/xml.php")
	viper.SetDefault("feed.timeout", "0s")
	viper.SetDefault("feed.fetch_images", false)
	viper.SetDefault("feed.image_insecure_skip_verify", true)
	viper.SetDefault("ingest.days", 7)
	viper.SetDefault("ingest.concurrency", 16)
	viper.SetDefault("ingest.timezone", "Europe/Berlin")
	viper.SetDefault("rabbitmq.queue", "mensa-sync")
	viper.SetDefault("router.port", 8080)
}

func (e *EnvService) configToModel() {
	var config structs.EnviromentModel
	config.Database.Client = viper.GetString("database.client")
	config.Database.Host = viper.GetString("database.host")
	config.Database.User = viper.GetString("database.user")
	config.Database.Password = viper.GetString("database.password")
	config.Database.Db = viper.GetString("database.name")
	config.Database.MaxIdle = uint(viper.GetInt("database.max_idle"))
	config.Database.MaxOpenConn = uint(viper.GetInt("database.max_open_conn"))
	config.Database.MaxLifeTime = viper.GetString("database.max_life_time")
	config.Database.Params = viper.GetString("database.params")
	config.Database.Port = viper.GetString("database.port")
	config.Database.LogEnable = viper.GetInt("database.log_enable")
	config.Database.AutoMigrate = viper.GetBool("database.auto_migrate")
	config.Feed.BaseURL = viper.GetString("feed.base_url")
	config.Feed.Timeout = viper.GetDuration("feed.timeout")
	config.Feed.FetchImages = viper.GetBool("feed.fetch_images")
	config.Feed.ImageInsecureSkipVerify = viper.GetBool("feed.image_insecure_skip_verify")
	config.Ingest.Days = viper.GetInt("ingest.days")
	config.Ingest.Concurrency = viper.GetInt("ingest.concurrency")
	config.Ingest.Timezone = viper.GetString("ingest.timezone")
	config.Ingest.SkipWeekends = viper.GetBool("ingest.skip_weekends")
	config.Ingest.BulkMeals = viper.GetBool("ingest.bulk_meals")
	config.Ingest.RunOnStart = viper.GetBool("ingest.run_on_start")
	config.RabbitMQ.Enable = viper.GetInt("rabbitmq.enable")
	config.RabbitMQ.Domain = viper.GetString("rabbitmq.domain")
	config.RabbitMQ.Queue = viper.GetString("rabbitmq.queue")
	config.Log.ElkEnable = viper.GetInt("log.elk.enable")
	config.Log.ElkIndex = viper.GetString("log.elk.index")
	config.Log.ElkURL = viper.GetString("log.elk.url")
	config.Log.LogstashEnable = viper.GetInt("log.logstash.enable")
	config.Log.LogstashURL = viper.GetString("log.logstash.url")
	config.Log.LogstashIndex = viper.GetString("log.logstash.index")
	config.Router.Port = viper.GetInt("router.port")
	EnvConfig = &config
}
