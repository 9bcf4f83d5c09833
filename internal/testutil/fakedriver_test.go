package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabula/internal/column"
	"github.com/roach88/tabula/internal/driver"
)

func TestFakeDriverRecordsCalls(t *testing.T) {
	ctx := context.Background()
	d := NewFakeDriver()

	conn, err := d.Connect(ctx, "fake.db")
	require.NoError(t, err)
	assert.Equal(t, "fake.db", d.Conn.Location())

	require.NoError(t, conn.Execute(ctx, "CREATE TABLE `t` ()"))
	stmt, err := conn.Prepare(ctx, "INSERT INTO `t` (`a`) VALUES (?)")
	require.NoError(t, err)
	require.NoError(t, stmt.Execute(ctx, []column.Value{column.IntegerValue(1)}))

	assert.Equal(t, []string{"CREATE TABLE `t` ()"}, d.Conn.Executed())
	assert.Equal(t, []string{"INSERT INTO `t` (`a`) VALUES (?)"}, d.Conn.Prepared())
	assert.Equal(t, 1, d.Conn.Executions())
	assert.Equal(t, [][]column.Value{{column.IntegerValue(1)}}, d.Conn.Bound())

	require.NoError(t, conn.Close())
	assert.Equal(t, 1, d.Conn.Closes())
	assert.Error(t, conn.Execute(ctx, "SELECT 1"))
}

func TestFakeDriverConnectError(t *testing.T) {
	d := NewFakeDriver()
	d.ConnectErr = errors.New("unreachable")

	_, err := d.Connect(context.Background(), "x")
	assert.True(t, driver.IsKind(err, driver.KindConnect))
}

func TestFakeDriverInjectsFailures(t *testing.T) {
	ctx := context.Background()
	conn := NewFakeConn()
	conn.FailExecutions(2)

	stmt, err := conn.Prepare(ctx, "INSERT INTO `t` (`a`) VALUES (?)")
	require.NoError(t, err)
	values := []column.Value{column.IntegerValue(1)}

	for i := 0; i < 2; i++ {
		err := stmt.Execute(ctx, values)
		require.Error(t, err)
		assert.True(t, driver.IsKind(err, driver.KindExec))
		assert.ErrorIs(t, err, ErrInjected)
	}
	require.NoError(t, stmt.Execute(ctx, values))
	assert.Equal(t, 3, conn.Executions())
	assert.Len(t, conn.Bound(), 1)

	conn.FailAlways()
	assert.Error(t, stmt.Execute(ctx, values))
	assert.Error(t, stmt.Execute(ctx, values))
	assert.Equal(t, 5, conn.Executions())
}

func TestFakeDriverBindErrorIsNotAnExecution(t *testing.T) {
	ctx := context.Background()
	conn := NewFakeConn()
	stmt, err := conn.Prepare(ctx, "INSERT INTO `t` (`a`, `b`) VALUES (?, ?)")
	require.NoError(t, err)

	err = stmt.Execute(ctx, []column.Value{column.IntegerValue(1)})
	assert.True(t, driver.IsKind(err, driver.KindBind))
	assert.Equal(t, 0, conn.Executions())
}

func TestFakeDriverRows(t *testing.T) {
	ctx := context.Background()
	conn := NewFakeConn()
	conn.SetRows("SELECT * FROM `t`",
		driver.Record{column.IntegerValue(1)},
		driver.Record{column.IntegerValue(2)},
	)

	stmt, err := conn.Prepare(ctx, "SELECT * FROM `t`")
	require.NoError(t, err)

	for run := 0; run < 2; run++ {
		require.NoError(t, stmt.Execute(ctx, nil))
		first, err := stmt.Next()
		require.NoError(t, err)
		assert.Equal(t, column.IntegerValue(1), first[0])
		second, err := stmt.Next()
		require.NoError(t, err)
		assert.Equal(t, column.IntegerValue(2), second[0])
		end, err := stmt.Next()
		require.NoError(t, err)
		assert.Nil(t, end)
	}
}
