package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// entryQueryKind enumerates the recognized entry listing shapes. The
// kind is resolved once at the boundary so each shape gets its own
// typed handler instead of falling through parameter checks.
type entryQueryKind int

const (
	queryByCategory entryQueryKind = iota + 1
	queryMilk
	queryByParent
	queryByMonth
)

// entryQuery is a parsed, validated entry listing request.
type entryQuery struct {
	kind       entryQueryKind
	categoryID int64
	parent     string
	from       *time.Time
	to         *time.Time
}

// parseEntryQuery resolves the query parameters into a tagged request.
// Parameter precedence follows the API contract: categoryId, then
// type=milk, then parentCategory, then bare month.
func parseEntryQuery(values url.Values) (entryQuery, error) {
	if raw := values.Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return entryQuery{}, fmt.Errorf("invalid categoryId %q", raw)
		}
		return entryQuery{kind: queryByCategory, categoryID: id}, nil
	}

	if values.Get("type") == "milk" {
		q := entryQuery{kind: queryMilk}
		start, end := values.Get("start"), values.Get("end")
		switch {
		case start != "" && end != "":
			from, to, err := dateRange(start, end)
			if err != nil {
				return entryQuery{}, err
			}
			q.from, q.to = &from, &to
		case values.Get("month") != "":
			from, to, err := monthRange(values.Get("month"))
			if err != nil {
				return entryQuery{}, err
			}
			q.from, q.to = &from, &to
		}
		return q, nil
	}

	if parent := values.Get("parentCategory"); parent != "" {
		q := entryQuery{kind: queryByParent, parent: parent}
		if month := values.Get("month"); month != "" {
			from, to, err := monthRange(month)
			if err != nil {
				return entryQuery{}, err
			}
			q.from, q.to = &from, &to
		}
		return q, nil
	}

	if month := values.Get("month"); month != "" {
		from, to, err := monthRange(month)
		if err != nil {
			return entryQuery{}, err
		}
		return entryQuery{kind: queryByMonth, from: &from, to: &to}, nil
	}

	return entryQuery{}, fmt.Errorf("invalid query parameters")
}

// monthRange resolves a YYYY-MM month to the half-open UTC interval
// covering the whole calendar month.
func monthRange(month string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// dateRange resolves explicit start/end days to a half-open UTC
// interval that includes the whole end day.
func dateRange(start, end string) (time.Time, time.Time, error) {
	from, err := parseDay(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDay, err := parseDay(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to := endDay.AddDate(0, 0, 1)
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %q precedes start date %q", end, start)
	}
	return from, to, nil
}

// parseDay reads a calendar day as a UTC midnight instant.
func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseDateTime reads an entry date either as RFC 3339 or as a bare
// calendar day.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return parseDay(s)
}
