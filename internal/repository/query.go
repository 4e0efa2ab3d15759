package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applySearch ANDs the whitespace separated terms; each term ORs a
// case-insensitive substring match over columns. PostgreSQL uses ILIKE;
// other drivers compare LOWER(col), which SQLite folds for ASCII only.
func applySearch(db *gorm.DB, search string, columns ...string) *gorm.DB {
	match := func(col string) string { return "LOWER(" + col + `) LIKE ? ESCAPE '\'` }
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		match = func(col string) string { return col + ` ILIKE ? ESCAPE '\'` }
	}
	for _, term := range strings.Fields(search) {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = match(col)
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return db
}

// applyOrdering maps a public ordering field onto a column. Unknown fields
// fall back to the default ordering, which carries its own tiebreak. The
// primary key is always the last sort key.
func applyOrdering(db *gorm.DB, ordering string, allowed map[string]string, fallback, idColumn string) *gorm.DB {
	ordering = strings.TrimSpace(ordering)
	desc := strings.HasPrefix(ordering, "-")
	column, ok := allowed[strings.TrimPrefix(ordering, "-")]
	if ordering == "" || !ok {
		return db.Order(fallback)
	}
	if desc {
		return db.Order(column + " DESC").Order(idColumn + " DESC")
	}
	return db.Order(column + " ASC").Order(idColumn + " ASC")
}
