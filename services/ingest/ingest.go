package ingest

import (
	"context"
	"errors"
	"fmt"
	"mensa-go-worker/enums"
	"mensa-go-worker/models"
	"mensa-go-worker/structs"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

type Fetcher interface {
	FetchPlan(ctx context.Context, req structs.PlanRequest) ([]byte, error)
}

type Parser interface {
	Parse(ctx context.Context, raw []byte) ([]models.Meal, error)
}

type Store interface {
	ExistingPlans() ([]models.Plan, error)
	PersistPlan(locationID int64, date time.Time) (int64, error)
	PersistMeal(planID int64, meal models.Meal) error
	PersistMeals(planID int64, meals []models.Meal) error
	InsertActivityLog(jobname string, data interface{}) error
}

type Options struct {
	// Days is the number of calendar days after today to schedule.
	Days         int
	Concurrency  int
	Location     *time.Location
	SkipWeekends bool
	// BulkMeals writes all meals of a plan with one statement instead of one
	// insert per meal.
	BulkMeals bool
	Now       func() time.Time
}

// MealsError reports meal inserts that failed after their plan was stored.
type MealsError struct {
	PlanID int64
	Total  int
	Errs   []error
}

func (e *MealsError) Error() string {
	return fmt.Sprintf("%d of %d meal inserts failed for plan %d: %s", len(e.Errs), e.Total, e.PlanID, e.Errs[0].Error())
}

func (e *MealsError) Unwrap() error {
	return e.Errs[0]
}

// Pair is one (location, calendar date) to ingest.
type Pair struct {
	Location enums.Location
	Date     time.Time
}

// Service fetches, normalizes and stores missing plans for the rolling window.
type Service struct {
	feed   Fetcher
	parser Parser
	store  Store
	opts   Options
	logger *logrus.Entry
}

func NewService(feed Fetcher, parser Parser, store Store, opts Options, logger *logrus.Logger) *Service {
	if opts.Days <= 0 {
		opts.Days = 7
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 16
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		feed:   feed,
		parser: parser,
		store:  store,
		opts:   opts,
		logger: logger.WithFields(logrus.Fields{"task": "ingest"}),
	}
}

// IsStored reports whether plans already hold locationID on the calendar day
// of date. Time of day is ignored; days are taken in loc.
func IsStored(plans []models.Plan, locationID int64, date time.Time, loc *time.Location) bool {
	for _, plan := range plans {
		if plan.MensaID == locationID && sameDay(plan.Date, date, loc) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Pairs is the cross product of locations and the days 1..days after today.
func (s *Service) Pairs(locations []enums.Location, days int, today time.Time) []Pair {
	y, m, d := today.In(s.opts.Location).Date()
	var pairs []Pair
	for _, location := range locations {
		for i := 1; i <= days; i++ {
			date := time.Date(y, m, d+i, 0, 0, 0, 0, s.opts.Location)
			if s.opts.SkipWeekends && (date.Weekday() == time.Saturday || date.Weekday() == time.Sunday) {
				continue
			}
			pairs = append(pairs, Pair{Location: location, Date: date})
		}
	}
	return pairs
}

func (s *Service) locations(names []string) ([]enums.Location, error) {
	if len(names) == 0 {
		return enums.Locations, nil
	}
	locations := make([]enums.Location, 0, len(names))
	for _, name := range names {
		location, ok := enums.LocationByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown location %q", name)
		}
		locations = append(locations, location)
	}
	return locations, nil
}

// Run ingests every missing pair of the request concurrently. The returned
// error covers setup only; per pipeline outcomes are in the report, see
// RunReport.Err.
func (s *Service) Run(ctx context.Context, req structs.SyncRequest) (RunReport, error) {
	report := RunReport{Started: s.opts.Now()}

	locations, err := s.locations(req.Locations)
	if err != nil {
		return report, err
	}
	days := req.Days
	if days <= 0 {
		days = s.opts.Days
	}

	plans, err := s.store.ExistingPlans()
	if err != nil {
		return report, err
	}

	var pending []Pair
	for _, pair := range s.Pairs(locations, days, report.Started) {
		if IsStored(plans, pair.Location.ID, pair.Date, s.opts.Location) {
			report.Skipped++
			continue
		}
		pending = append(pending, pair)
	}
	s.logger.WithFields(logrus.Fields{"existing_plans": len(plans), "pending": len(pending), "skipped": report.Skipped}).Info("ingest started")

	// at most Concurrency pipelines in flight; the connection pool is sized to match
	report.Results = make([]PairResult, len(pending))
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, pair := range pending {
		i, pair := i, pair
		g.Go(func() error {
			report.Results[i] = s.process(ctx, pair)
			return nil
		})
	}
	_ = g.Wait()

	report.Finished = s.opts.Now()
	logFields := logrus.Fields{"pipelines": len(report.Results), "skipped": report.Skipped, "elapsed": report.Finished.Sub(report.Started).String()}
	if err := report.Err(); err != nil {
		s.logger.WithFields(logFields).Error(err.Error())
	} else {
		s.logger.WithFields(logFields).Info("ingest finished")
	}
	return report, nil
}

// RunAndLog runs the ingest and stores its summary in the activity log.
func (s *Service) RunAndLog(ctx context.Context, req structs.SyncRequest, taskID uint, operate string) (RunReport, error) {
	report, err := s.Run(ctx, req)
	if err != nil {
		if logErr := s.store.InsertActivityLog("schedule.go.job.failed", structs.ActivityLogJsonModel{Type: operate, TaskID: taskID, Message: err.Error()}); logErr != nil {
			s.logger.WithFields(logrus.Fields{"task_id": taskID}).Error("activity log: ", logErr.Error())
		}
		return report, err
	}
	if err := s.store.InsertActivityLog("schedule.go.job.done", report.ActivityLog(taskID, operate)); err != nil {
		s.logger.WithFields(logrus.Fields{"task_id": taskID}).Error("activity log: ", err.Error())
	}
	return report, nil
}

// process drives one pair through
// PENDING → FETCHING → PARSING → PERSISTING_PLAN → PERSISTING_MEALS → DONE,
// stopping at FAILED or PARTIAL.
func (s *Service) process(ctx context.Context, pair Pair) PairResult {
	p := pipeline{
		result: PairResult{
			Location:   pair.Location.Name,
			LocationID: pair.Location.ID,
			Date:       pair.Date.Format(dateLayout),
			State:      enums.StatePending,
		},
		logger: s.logger.WithFields(logrus.Fields{"location": pair.Location.Name, "date": pair.Date.Format(dateLayout)}),
	}

	p.advance(enums.StateFetching)
	raw, err := s.feed.FetchPlan(ctx, structs.PlanRequest{LocationID: pair.Location.ID, Date: pair.Date})
	if err != nil {
		return p.fail(err)
	}

	p.advance(enums.StateParsing)
	meals, err := s.parser.Parse(ctx, raw)
	if err != nil {
		return p.fail(err)
	}

	p.advance(enums.StatePersistingPlan)
	planID, err := s.store.PersistPlan(pair.Location.ID, pair.Date)
	if err != nil {
		return p.fail(err)
	}
	p.result.PlanID = planID

	p.advance(enums.StatePersistingMeals)
	date := pair.Date
	for i := range meals {
		meals[i].Date = &date
	}
	stored, err := s.persistMeals(planID, meals)
	p.result.Meals = stored
	if err != nil {
		return p.partial(err)
	}

	p.advance(enums.StateDone)
	return p.result
}

// persistMeals waits for every meal insert and returns how many succeeded.
// Meals the feed entry could not be read for count as failed inserts.
func (s *Service) persistMeals(planID int64, meals []models.Meal) (int, error) {
	if len(meals) == 0 {
		return 0, nil
	}
	mealsErr := &MealsError{PlanID: planID, Total: len(meals)}
	valid := make([]models.Meal, 0, len(meals))
	for _, meal := range meals {
		if meal.Invalid != nil {
			mealsErr.Errs = append(mealsErr.Errs, meal.Invalid)
			continue
		}
		valid = append(valid, meal)
	}

	if s.opts.BulkMeals {
		if len(valid) > 0 {
			if err := s.store.PersistMeals(planID, valid); err != nil {
				mealsErr.Errs = append(mealsErr.Errs, err)
				return 0, mealsErr
			}
		}
	} else {
		errs := make([]error, len(valid))
		var wg sync.WaitGroup
		wg.Add(len(valid))
		for i := range valid {
			go func(i int) {
				defer wg.Done()
				errs[i] = s.store.PersistMeal(planID, valid[i])
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				mealsErr.Errs = append(mealsErr.Errs, err)
			}
		}
	}

	if len(mealsErr.Errs) > 0 {
		return len(meals) - len(mealsErr.Errs), mealsErr
	}
	return len(meals), nil
}

type pipeline struct {
	result PairResult
	logger *logrus.Entry
}

func (p *pipeline) advance(state string) {
	p.logger.WithFields(logrus.Fields{"from": p.result.State, "to": state}).Debug("state")
	p.result.State = state
}

func (p *pipeline) fail(err error) PairResult {
	return p.stop(enums.StateFailed, err)
}

func (p *pipeline) partial(err error) PairResult {
	return p.stop(enums.StatePartial, err)
}

func (p *pipeline) stop(state string, err error) PairResult {
	p.result.Step = p.result.State
	p.result.State = state
	p.result.Err = err
	p.result.Error = err.Error()
	p.logger.WithFields(logrus.Fields{"step": p.result.Step, "state": state, "plan_id": p.result.PlanID}).Error(err.Error())
	return p.result
}

// IsPartial reports whether err is a meal insert failure after the plan was stored.
func IsPartial(err error) bool {
	var mealsErr *MealsError
	return errors.As(err, &mealsErr)
}
