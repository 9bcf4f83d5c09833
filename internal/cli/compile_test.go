package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "create table",
			args: []string{"create-table", "--name", "foo", "--if-not-exists", "--column", "bar:float", "--column", "baz:integer"},
			want: "CREATE TABLE IF NOT EXISTS `foo` (`bar` REAL, `baz` INTEGER)\n",
		},
		{
			name: "create table without columns",
			args: []string{"create-table", "--name", "foo"},
			want: "CREATE TABLE `foo` ()\n",
		},
		{
			name: "insert",
			args: []string{"insert", "--table", "foo", "--column", "bar", "--column", "baz"},
			want: "INSERT INTO `foo` (`bar`, `baz`) VALUES (?, ?)\n",
		},
		{
			name: "insert multiplexed",
			args: []string{"insert", "--table", "foo", "--column", "bar", "--column", "baz", "--multiplex", "2"},
			want: "INSERT INTO `foo` (`bar`, `baz`) VALUES (?, ?), (?, ?)\n",
		},
		{
			name: "select all",
			args: []string{"select", "--table", "foo"},
			want: "SELECT * FROM `foo`\n",
		},
		{
			name: "select columns with limit",
			args: []string{"select", "--table", "foo", "--column", "bar", "--limit", "10"},
			want: "SELECT `bar` FROM `foo` LIMIT 10\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, NewCompileCommand(testOptions("text", "")), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCompileJSON(t *testing.T) {
	out, err := run(t, NewCompileCommand(testOptions("json", "")), "select", "--table", "foo")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok","data":{"query":"SELECT * FROM `+"`foo`"+`"},"trace_id":"test-trace-default"}`+"\n", out)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing table",
			args: []string{"select", "--column", "bar"},
			want: "Error [FIELD_NOT_SET]: compile failed: expected `table` to be set\n",
		},
		{
			name: "missing insert columns",
			args: []string{"insert", "--table", "foo"},
			want: "Error [FIELD_NOT_SET]: compile failed: expected `columns` to be set\n",
		},
		{
			name: "missing create name",
			args: []string{"create-table", "--column", "bar:float"},
			want: "Error [FIELD_NOT_SET]: compile failed: expected `name` to be set\n",
		},
		{
			name: "zero multiplex",
			args: []string{"insert", "--table", "foo", "--column", "bar", "--multiplex", "0"},
			want: "Error [INVALID_FIELD]: compile failed: invalid `multiplex`: must be at least 1, got 0\n",
		},
		{
			name: "bad column spec",
			args: []string{"create-table", "--name", "foo", "--column", "bar"},
			want: "Error [USAGE]: invalid column \"bar\": expected name:type\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, NewCompileCommand(testOptions("text", "")), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestParseColumnSpecs(t *testing.T) {
	columns, err := parseColumnSpecs([]string{"a:binary", "b:FLOAT", "c:integer", "d:string"})
	require.NoError(t, err)
	require.Len(t, columns, 4)
	assert.Equal(t, "b", columns[1].Name)
	assert.Equal(t, "float", columns[1].Kind.String())

	_, err = parseColumnSpecs([]string{":integer"})
	require.Error(t, err)

	_, err = parseColumnSpecs([]string{"a:decimal"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column type")
}
