package log

import (
	"io/ioutil"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerInitWritesFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "mensa-log")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	var logService LogService
	logger := logService.LoggerInit("ingest")
	logger.WithField("location", "MensaRing").Info("state")

	body, err := ioutil.ReadFile(path.Join(dir, "logs", time.Now().Format("2006-01-02"), "ingest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "location=MensaRing")
	assert.Empty(t, logger.Hooks)
}
