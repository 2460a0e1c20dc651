package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docissuer/internal/repository"
)

// listing describes how one record table is searched, filtered and sorted.
// The record table is always aliased "r".
type listing struct {
	from          string
	columns       string
	searchable    []string
	orderable     map[string]string
	defaultOrder  string
	studentColumn string
}

// qualify prefixes every column of a comma separated list with alias.
func qualify(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (l listing) where(pq repository.PageQuery) (string, []any) {
	var conds []string
	var args []any
	if pq.StudentID != 0 && l.studentColumn != "" {
		args = append(args, pq.StudentID)
		conds = append(conds, fmt.Sprintf("%s = $%d", l.studentColumn, len(args)))
	}
	if term := strings.TrimSpace(pq.Search); term != "" && len(l.searchable) > 0 {
		args = append(args, "%"+likeEscaper.Replace(term)+"%")
		matches := make([]string, len(l.searchable))
		for i, col := range l.searchable {
			matches[i] = fmt.Sprintf("%s ILIKE $%d", col, len(args))
		}
		conds = append(conds, "("+strings.Join(matches, " OR ")+")")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy only ever emits column expressions from the whitelist.
func (l listing) orderBy(ordering string) string {
	field := strings.TrimPrefix(ordering, "-")
	col, ok := l.orderable[field]
	if !ok {
		return l.defaultOrder
	}
	dir := "ASC"
	if strings.HasPrefix(ordering, "-") {
		dir = "DESC"
	}
	return col + " " + dir + ", r.id " + dir
}

func (l listing) queries(pq repository.PageQuery) (count, list string, args []any) {
	where, args := l.where(pq)
	count = "SELECT COUNT(*) FROM " + l.from + where
	list = fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		l.columns, l.from, where, l.orderBy(pq.Ordering), len(args)+1, len(args)+2)
	return count, list, args
}

// listRows runs the count and page queries of l and scans each row.
func listRows[T any](ctx context.Context, db *sql.DB, l listing, pq repository.PageQuery, scan func(interface{ Scan(...any) error }) (*T, error)) (*repository.PageResult[T], error) {
	qCount, qList, args := l.queries(pq)

	var total int
	if err := db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[T]{Items: items, Total: total}, nil
}
