package router

import (
	"context"
	"encoding/json"
	"errors"
	"mensa-go-worker/controllers/check"
	"mensa-go-worker/controllers/comment"
	"mensa-go-worker/controllers/mensaSync"
	"mensa-go-worker/enums"
	"mensa-go-worker/models"
	"mensa-go-worker/services/ingest"
	"mensa-go-worker/structs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunner struct {
	req     structs.SyncRequest
	operate string
	ctxErr  error
	report  ingest.RunReport
	err     error
}

func (f *fakeRunner) RunAndLog(ctx context.Context, req structs.SyncRequest, _ uint, operate string) (ingest.RunReport, error) {
	f.ctxErr = ctx.Err()
	f.req = req
	f.operate = operate
	return f.report, f.err
}

type fakeCommentStore struct {
	saved []models.Comment
	err   error
}

func (f *fakeCommentStore) InsertComment(c *models.Comment) error {
	if f.err != nil {
		return f.err
	}
	c.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *c)
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping() error { return f.err }

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReadProbe(t *testing.T) {
	w := serve(Router(Controllers{}), http.MethodGet, "/read-probe", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp check.AliveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "probe success", resp.Messsage)
}

func TestCheckAlive(t *testing.T) {
	r := Router(Controllers{Check: &check.Checker{DB: fakePinger{err: errors.New("connection refused")}}})
	w := serve(r, http.MethodGet, "/check-live", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp check.AliveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "connection refused", resp.Info.Database)
	assert.Greater(t, resp.Info.RoutineNum, 0)
}

func TestSync(t *testing.T) {
	runner := &fakeRunner{report: ingest.RunReport{
		Skipped: 2,
		Results: []ingest.PairResult{{Location: "MensaRing", LocationID: 4, Date: "2018-03-19", State: enums.StateDone, Meals: 3}},
	}}
	r := Router(Controllers{Sync: &mensaSync.Controller{Runner: runner}})

	w := serve(r, http.MethodPost, "/sync", `{"locations":["MensaRing"],"days":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"MensaRing"}, runner.req.Locations)
	assert.Equal(t, 1, runner.req.Days)
	assert.Equal(t, enums.ManualOperate, runner.operate)

	var body struct {
		Success bool             `json:"success"`
		Report  ingest.RunReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Report.Skipped)
	require.Len(t, body.Report.Results, 1)
	assert.Equal(t, enums.StateDone, body.Report.Results[0].State)
}

func TestSyncWithoutBody(t *testing.T) {
	runner := &fakeRunner{}
	r := Router(Controllers{Sync: &mensaSync.Controller{Runner: runner}})

	w := serve(r, http.MethodPost, "/sync", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, runner.req.Locations)
}

func TestSyncOutlivesClientDisconnect(t *testing.T) {
	runner := &fakeRunner{}
	r := Router(Controllers{Sync: &mensaSync.Controller{Runner: runner}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(`{}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, runner.ctxErr)
}

func TestSyncReportsFailedPipelines(t *testing.T) {
	runner := &fakeRunner{report: ingest.RunReport{Results: []ingest.PairResult{
		{Location: "MensaRing", Date: "2018-03-19", State: enums.StateFailed, Step: enums.StateFetching, Error: "fetch: connection reset"},
		{Location: "MensaRing", Date: "2018-03-20", State: enums.StateDone},
	}}}
	r := Router(Controllers{Sync: &mensaSync.Controller{Runner: runner}})

	w := serve(r, http.MethodPost, "/sync", `{}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "connection reset")
}

func TestSyncSetupError(t *testing.T) {
	runner := &fakeRunner{err: errors.New(`unknown location "Mensa Nord"`)}
	r := Router(Controllers{Sync: &mensaSync.Controller{Runner: runner}})

	w := serve(r, http.MethodPost, "/sync", `{"locations":["Mensa Nord"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/sync", `{"days":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateComment(t *testing.T) {
	store := &fakeCommentStore{}
	r := Router(Controllers{Comment: &comment.Controller{Store: store}})

	w := serve(r, http.MethodPost, "/comments", `{"meal_id":7,"score":4,"comment":"lecker"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.saved, 1)
	assert.Equal(t, models.Comment{ID: 1, MealID: 7, Score: 4, Comment: "lecker"}, store.saved[0])

	w = serve(r, http.MethodPost, "/comments", `{"score":4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, store.saved, 1)
}

func TestCreateCommentStoreError(t *testing.T) {
	r := Router(Controllers{Comment: &comment.Controller{Store: &fakeCommentStore{err: errors.New("foreign key")}}})

	w := serve(r, http.MethodPost, "/comments", `{"meal_id":99,"score":1}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "foreign key")
}
