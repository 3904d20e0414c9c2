package enums

// Pipeline states of a single (location, date) ingestion.
const (
	StatePending         = "PENDING"
	StateFetching        = "FETCHING"
	StateParsing         = "PARSING"
	StatePersistingPlan  = "PERSISTING_PLAN"
	StatePersistingMeals = "PERSISTING_MEALS"
	StateDone            = "DONE"
	StateFailed          = "FAILED"
	StatePartial         = "PARTIAL"
)

// Price group labels used by the feed.
const (
	PriceGroupSmall  = "S"
	PriceGroupMedium = "M"
	PriceGroupLarge  = "G"
	PriceGroupAll    = ""
)

const (
	SystemOperate = "system"
	ManualOperate = "manual"
	QueueOperate  = "queue"
)
