package structs

import "time"

type EnviromentModel struct {
	Database database
	Feed     feed
	Ingest   ingest
	RabbitMQ rabbitmq
	Log      log
	Router   router
}

type database struct {
	Client      string
	MaxIdle     uint
	MaxLifeTime string
	MaxOpenConn uint
	User        string
	Password    string
	Host        string
	Db          string
	Params      string
	Port        string
	LogEnable   int
	AutoMigrate bool
}

type feed struct {
	BaseURL                 string
	Timeout                 time.Duration
	FetchImages             bool
	ImageInsecureSkipVerify bool
}

type ingest struct {
	Days         int
	Concurrency  int
	Timezone     string
	SkipWeekends bool
	BulkMeals    bool
	RunOnStart   bool
}

type rabbitmq struct {
	Enable int
	Domain string
	Queue  string
}

type log struct {
	ElkEnable      int
	ElkIndex       string
	ElkURL         string
	LogstashEnable int
	LogstashURL    string
	LogstashIndex  string
}

type router struct {
	Port int
}
