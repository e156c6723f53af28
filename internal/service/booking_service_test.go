package service

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaceError(t *testing.T) {
	t.Run("deadlock victim becomes conflict", func(t *testing.T) {
		err := raceError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("lock wait timeout becomes conflict", func(t *testing.T) {
		err := raceError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("wrapped deadlock still recognized", func(t *testing.T) {
		inner := &mysql.MySQLError{Number: 1213}
		err := raceError(fmt.Errorf("commit: %w", inner))
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("other mysql errors pass through", func(t *testing.T) {
		dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		err := raceError(dup)
		assert.Equal(t, error(dup), err)
		assert.Equal(t, KindInternal, KindOf(err))
	})

	t.Run("plain errors pass through", func(t *testing.T) {
		err := raceError(assert.AnError)
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, raceError(nil))
	})
}
