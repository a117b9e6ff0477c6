package setup

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingWriter struct {
	lines []string
}

func (w *recordingWriter) Printf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func TestGormLogger_IgnoresRecordNotFound(t *testing.T) {
	w := &recordingWriter{}
	l := newGormLogger(w)
	query := func() (string, int64) { return "SELECT * FROM rooms WHERE sender_id = 2", 0 }

	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, w.lines)

	l.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))
	require.Len(t, w.lines, 1)
	assert.Contains(t, w.lines[0], "connection reset")
}

func TestDialectorFor(t *testing.T) {
	_, err := dialectorFor(DBConfig{Driver: DriverPostgres})
	assert.Error(t, err)

	d, err := dialectorFor(DBConfig{Driver: DriverPostgres, User: "board", Host: "db", Name: "community"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialectorFor(DBConfig{Driver: DriverMySQL, User: "board", Host: "db", Name: "community"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = dialectorFor(DBConfig{Driver: "sqlite", User: "board"})
	assert.Error(t, err)
}
