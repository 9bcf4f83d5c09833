package statement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabula/internal/column"
)

func TestCompile(t *testing.T) {
	testCases := []struct {
		name     string
		stmt     Statement
		expected string
	}{
		{
			name: "create table if not exists",
			stmt: CreateTable().
				Name("foo").
				IfNotExists().
				Column(Column().Name("bar").Kind(column.Float)).
				Column(Column().Name("baz").Kind(column.String)),
			expected: "CREATE TABLE IF NOT EXISTS `foo` (`bar` REAL, `baz` TEXT)",
		},
		{
			name: "create table keeps column order",
			stmt: CreateTable().
				Name("foo").
				Column(Column().Name("bar").Kind(column.Float)).
				Column(Column().Name("baz").Kind(column.Integer)),
			expected: "CREATE TABLE `foo` (`bar` REAL, `baz` INTEGER)",
		},
		{
			name: "create table from columns",
			stmt: CreateTable().
				Name("blobs").
				Columns(column.New("data", column.Binary), column.New("n", column.Integer)),
			expected: "CREATE TABLE `blobs` (`data` BLOB, `n` INTEGER)",
		},
		{
			name:     "create table without columns",
			stmt:     CreateTable().Name("empty"),
			expected: "CREATE TABLE `empty` ()",
		},
		{
			name:     "insert multiplex",
			stmt:     InsertInto().Table("foo").Column("bar").Column("baz").Multiplex(3),
			expected: "INSERT INTO `foo` (`bar`, `baz`) VALUES (?, ?), (?, ?), (?, ?)",
		},
		{
			name:     "insert default multiplex",
			stmt:     InsertInto().Table("foo").Columns("bar", "baz"),
			expected: "INSERT INTO `foo` (`bar`, `baz`) VALUES (?, ?)",
		},
		{
			name:     "select all",
			stmt:     Select().Table("foo"),
			expected: "SELECT * FROM `foo`",
		},
		{
			name:     "select with limit",
			stmt:     Select().Table("foo").Limit(10),
			expected: "SELECT * FROM `foo` LIMIT 10",
		},
		{
			name:     "select columns",
			stmt:     Select().Table("foo").Column("bar").Column("baz"),
			expected: "SELECT `bar`, `baz` FROM `foo`",
		},
		{
			name:     "select columns with limit",
			stmt:     Select().Table("foo").Columns("bar").Limit(0),
			expected: "SELECT `bar` FROM `foo` LIMIT 0",
		},
		{
			name:     "raw",
			stmt:     Raw("DROP TABLE `foo`"),
			expected: "DROP TABLE `foo`",
		},
		{
			name:     "identifiers are not escaped",
			stmt:     Select().Table("a`b"),
			expected: "SELECT * FROM `a`b`",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, err := tc.stmt.Compile()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sql)
		})
	}
}

func TestCompileDeterministic(t *testing.T) {
	build := func() Statement {
		return CreateTable().
			Name("foo").
			IfNotExists().
			Columns(column.New("bar", column.Float), column.New("baz", column.Integer))
	}

	first, err := build().Compile()
	require.NoError(t, err)
	second, err := build().Compile()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSettersOverwriteScalars(t *testing.T) {
	sql, err := Select().Table("first").Table("second").Limit(1).Limit(5).Compile()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `second` LIMIT 5", sql)

	sql, err = InsertInto().Table("t").Column("a").Multiplex(4).Multiplex(2).Compile()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `t` (`a`) VALUES (?), (?)", sql)
}

func TestRequiredFields(t *testing.T) {
	testCases := []struct {
		name      string
		stmt      Statement
		statement string
		field     string
	}{
		{"create table name", CreateTable().IfNotExists(), "create_table", "name"},
		{"column name", CreateTable().Name("t").Column(Column().Kind(column.Float)), "column", "name"},
		{"column kind", CreateTable().Name("t").Column(Column().Name("c")), "column", "kind"},
		{"nil column", CreateTable().Name("t").Column(nil), "create_table", "columns[0]"},
		{"insert table", InsertInto().Column("a"), "insert_into", "table"},
		{"insert columns", InsertInto().Table("t"), "insert_into", "columns"},
		{"select table", Select().Column("a").Limit(1), "select", "table"},
		{"empty raw", Raw(""), "raw", "text"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, err := tc.stmt.Compile()
			require.Error(t, err)
			assert.Empty(t, sql)
			assert.True(t, errors.Is(err, ErrFieldNotSet))
			assert.True(t, IsFieldNotSet(err))

			var fe *FieldNotSetError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.statement, fe.Statement)
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestFieldNotSetMessage(t *testing.T) {
	_, err := Select().Compile()
	require.Error(t, err)
	assert.Equal(t, "expected `table` to be set", err.Error())
}

func TestInvalidFields(t *testing.T) {
	testCases := []struct {
		name  string
		stmt  Statement
		field string
	}{
		{"zero multiplex", InsertInto().Table("t").Column("a").Multiplex(0), "multiplex"},
		{"negative multiplex", InsertInto().Table("t").Column("a").Multiplex(-2), "multiplex"},
		{"unknown kind", CreateTable().Name("t").Column(Column().Name("c").Kind(column.Type(7))), "kind"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, err := tc.stmt.Compile()
			require.Error(t, err)
			assert.Empty(t, sql)
			assert.True(t, errors.Is(err, ErrInvalidField))
			assert.True(t, IsInvalidField(err))
			assert.False(t, IsFieldNotSet(err))

			var ie *InvalidFieldError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tc.field, ie.Field)
		})
	}
}

func TestCompileIsOneShot(t *testing.T) {
	testCases := []struct {
		name  string
		stmt  Statement
		field string
	}{
		{"create table", CreateTable().Name("foo").Columns(column.New("a", column.Integer)), "name"},
		{"column", Column().Name("a").Kind(column.Integer), "name"},
		{"insert", InsertInto().Table("foo").Column("a"), "table"},
		{"select", Select().Table("foo"), "table"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.stmt.Compile()
			require.NoError(t, err)

			_, err = tc.stmt.Compile()
			require.Error(t, err)
			var fe *FieldNotSetError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestCompileConsumesListFields(t *testing.T) {
	b := Select().Table("foo").Column("bar")
	_, err := b.Compile()
	require.NoError(t, err)

	sql, err := b.Table("foo").Compile()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `foo`", sql)
}

func TestRawIsReusable(t *testing.T) {
	raw := Raw("SELECT COUNT(*) FROM `foo`")
	for i := 0; i < 2; i++ {
		sql, err := raw.Compile()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM `foo`", sql)
	}
}
