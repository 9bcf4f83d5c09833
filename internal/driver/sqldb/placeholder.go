package sqldb

import (
	"context"
	"database/sql"
	sqldriver "database/sql/driver"
	"fmt"
	"strings"
)

// numInput returns the parameter count the backend reports for query.
// Backends that report -1 fall back to CountPlaceholders.
func numInput(ctx context.Context, conn *sql.Conn, query string) (int, error) {
	n := -1
	err := conn.Raw(func(dc any) error {
		var (
			ds  sqldriver.Stmt
			err error
		)
		if pc, ok := dc.(sqldriver.ConnPrepareContext); ok {
			ds, err = pc.PrepareContext(ctx, query)
		} else {
			ds, err = dc.(sqldriver.Conn).Prepare(query)
		}
		if err != nil {
			return err
		}
		n = ds.NumInput()
		return ds.Close()
	})
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return CountPlaceholders(query)
	}
	return n, nil
}

// CountPlaceholders returns the number of parameters query binds.
//
// A bare `?` takes the index after the largest seen so far and `?NNN`
// names its index, so the count is the largest index. Question marks
// inside '...', "..." and `...` literals, -- line comments and /* */
// block comments are skipped.
func CountPlaceholders(query string) (int, error) {
	count := 0
	for i := 0; i < len(query); i++ {
		switch c := query[i]; c {
		case '\'', '"', '`':
			end := strings.IndexByte(query[i+1:], c)
			if end < 0 {
				return 0, fmt.Errorf("unterminated %c literal", c)
			}
			i += end + 1
		case '-':
			if i+1 < len(query) && query[i+1] == '-' {
				end := strings.IndexByte(query[i+2:], '\n')
				if end < 0 {
					return count, nil
				}
				i += end + 2
			}
		case '/':
			if i+1 < len(query) && query[i+1] == '*' {
				end := strings.Index(query[i+2:], "*/")
				if end < 0 {
					return count, nil
				}
				i += end + 3
			}
		case '?':
			j := i + 1
			n := 0
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				n = n*10 + int(query[j]-'0')
				j++
			}
			if j == i+1 {
				count++
				continue
			}
			if n < 1 {
				return 0, fmt.Errorf("invalid parameter %q", query[i:j])
			}
			count = max(count, n)
			i = j - 1
		}
	}
	return count, nil
}
