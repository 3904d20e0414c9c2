package structs

type ActivityLogJsonModel struct {
	Type      string         `json:"type"`
	TaskID    uint           `json:"task_id,omitempty"`
	Result    bool           `json:"result"`
	Statistic StatisticModel `json:"statistic"`
	Message   string         `json:"message"`
	Messages  []ErrorModel   `json:"messages"`
}

type StatisticModel struct {
	TotalPair   int `json:"total_pair"`
	SkippedPair int `json:"skipped_pair"`
	FailPair    int `json:"fail_pair"`
	PartialPair int `json:"partial_pair"`
	OKPair      int `json:"ok_pair"`
	Meals       int `json:"meals"`
}

type ErrorModel struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	State    string `json:"state"`
	Message  string `json:"message"`
}
