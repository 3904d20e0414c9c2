package store

import (
	"errors"
	"mensa-go-worker/models"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PlanStore, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open("mysql", sqlDB)
	require.NoError(t, err)
	return NewPlanStore(db), mock, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	}
}

func TestExistingPlans(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	date := time.Date(2018, time.March, 19, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, mensa_id, date FROM `plans`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "mensa_id", "date"}).
			AddRow(1, 1479835489, date).
			AddRow(2, 4, date.AddDate(0, 0, 1)))

	plans, err := s.ExistingPlans()
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, int64(1), plans[0].ID)
	assert.Equal(t, int64(1479835489), plans[0].MensaID)
	assert.True(t, date.Equal(plans[0].Date))
	assert.Equal(t, int64(4), plans[1].MensaID)
}

func TestExistingPlansQueryFailure(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery("SELECT id, mensa_id, date FROM `plans`").WillReturnError(errors.New("connection refused"))

	_, err := s.ExistingPlans()
	var persistErr *PersistError
	assert.True(t, errors.As(err, &persistErr))
}

func TestPersistPlan(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `plans`").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	id, err := s.PersistPlan(4, time.Date(2018, time.March, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestPersistPlanDuplicate(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	duplicate := errors.New("Error 1062: Duplicate entry '2018-03-19 00:00:00-1479835489' for key 'idx_plans_date_mensa'")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `plans`").WillReturnError(duplicate)
	mock.ExpectRollback()

	_, err := s.PersistPlan(1479835489, time.Date(2018, time.March, 19, 0, 0, 0, 0, time.UTC))

	var persistErr *PersistError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, "plan 1479835489/2018-03-19", persistErr.Op)
	assert.True(t, errors.Is(err, duplicate))
}

func TestPersistMeal(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	price := 2.10
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `meals`").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	err := s.PersistMeal(42, models.Meal{ID: 7, German: "Brot", Category: "Essen 1", PriceG: &price, ImgSmallData: []byte("x")})
	assert.NoError(t, err)
}

func TestPersistMealFailure(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `meals`").WillReturnError(errors.New("foreign key"))
	mock.ExpectRollback()

	err := s.PersistMeal(42, models.Meal{ID: 7, German: "Brot", Category: "Essen 1"})
	var persistErr *PersistError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, "meal 7", persistErr.Op)
}

func TestPersistMealsBulk(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("INSERT INTO `meals`").WillReturnResult(sqlmock.NewResult(0, 2))

	err := s.PersistMeals(42, []models.Meal{
		{ID: 1, German: "Brot", Category: "A"},
		{ID: 2, German: "Suppe", Category: "B"},
	})
	assert.NoError(t, err)
}

func TestPersistMealsEmpty(t *testing.T) {
	s, _, done := newMockStore(t)
	defer done()

	assert.NoError(t, s.PersistMeals(42, nil))
}

func TestInsertComment(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `comments`").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	comment := models.Comment{MealID: 7, Score: 5, Comment: "lecker"}
	require.NoError(t, s.InsertComment(&comment))
	assert.Equal(t, int64(3), comment.ID)
}

func TestInsertActivityLog(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `activity_log`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assert.NoError(t, s.InsertActivityLog("schedule.go.job.done", map[string]bool{"result": true}))
}
