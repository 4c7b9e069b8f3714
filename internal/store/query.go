package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

// ErrNotFound is returned when an entry does not exist for the given user.
var ErrNotFound = errors.New("entry not found")

// dialect captures what differs between the SQL backends.
type dialect struct {
	placeholder func(n int) string
	like        string
	timeArg     func(time.Time) any
}

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	like:        "LIKE",
	timeArg:     func(t time.Time) any { return t.UnixNano() },
}

var postgresDialect = dialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	like:        "ILIKE",
	timeArg:     func(t time.Time) any { return t.UTC() },
}

const entryColumns = "id, user_id, text, mood, confidence, created_at, updated_at"

// sortColumns whitelists the ORDER BY expression for each sort field.
var sortColumns = map[domain.SortField]string{
	domain.SortCreatedAt:  "created_at",
	domain.SortMood:       "LOWER(mood)",
	domain.SortText:       "LOWER(text)",
	domain.SortConfidence: "confidence",
}

// listQuery builds the SELECT for ListEntries. user_id is always the first
// condition.
func (d dialect) listQuery(userID string, f domain.EntryFilter) (string, []any) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString("SELECT " + entryColumns + " FROM entries WHERE user_id = " + d.placeholder(1))

	add := func(cond string, arg any) {
		args = append(args, arg)
		sb.WriteString(" AND " + fmt.Sprintf(cond, d.placeholder(len(args))))
	}
	addIn := func(expr, op string, values []string) {
		ph := make([]string, len(values))
		for i, v := range values {
			args = append(args, v)
			ph[i] = d.placeholder(len(args))
		}
		sb.WriteString(" AND " + expr + " " + op + " (" + strings.Join(ph, ", ") + ")")
	}

	if !f.From.IsZero() {
		add("created_at >= %s", d.timeArg(f.From))
	}
	if !f.To.IsZero() {
		add("created_at < %s", d.timeArg(f.To))
	}
	if f.Mood != "" {
		// stored labels may predate the canonical taxonomy
		if f.Mood == mood.Unknown {
			addIn("LOWER(TRIM(mood))", "NOT IN", mood.KnownSpellings())
		} else {
			addIn("LOWER(TRIM(mood))", "IN", mood.Spellings(f.Mood))
		}
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		add("text "+d.like+" %s ESCAPE '\\'", "%"+escapeLike(q)+"%")
	}

	dir := "ASC"
	if f.Newest {
		dir = "DESC"
	}
	col, ok := sortColumns[f.Sort]
	if !ok || f.Sort == domain.SortCreatedAt {
		sb.WriteString(" ORDER BY created_at " + dir + ", id " + dir)
	} else {
		sb.WriteString(" ORDER BY " + col + " " + dir + ", created_at " + dir + ", id " + dir)
	}

	if f.Limit > 0 {
		args = append(args, f.Limit)
		sb.WriteString(" LIMIT " + d.placeholder(len(args)))
		if f.Offset > 0 {
			args = append(args, f.Offset)
			sb.WriteString(" OFFSET " + d.placeholder(len(args)))
		}
	}

	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
