// Package period handles the "MM/YYYY" tokens that key every billing and
// ledger row. Month boundaries are computed in the process-local timezone.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the time format that produces a month token.
const Layout = "01/2006"

// Current returns the token for the current local month.
func Current() string {
	return time.Now().Format(Layout)
}

// Valid reports whether s is a well-formed "MM/YYYY" token.
func Valid(s string) bool {
	_, _, err := split(s)
	return err == nil
}

// Next returns the following month's token; December rolls the year.
func Next(s string) (string, error) {
	month, year, err := split(s)
	if err != nil {
		return "", err
	}
	if month == 12 {
		return join(1, year+1), nil
	}
	return join(month+1, year), nil
}

// Previous returns the preceding month's token; January rolls the year back.
func Previous(s string) (string, error) {
	month, year, err := split(s)
	if err != nil {
		return "", err
	}
	if month == 1 {
		return join(12, year-1), nil
	}
	return join(month-1, year), nil
}

// OrderDesc is an ORDER BY fragment that sorts month tokens newest-first.
// Lexicographic sort on "MM/YYYY" misorders across years, so split the token.
const OrderDesc = "split_part(month_year, '/', 2) DESC, split_part(month_year, '/', 1) DESC"

func split(s string) (month, year int, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 4 {
		return 0, 0, fmt.Errorf("invalid month token %q, want MM/YYYY", s)
	}
	month, err = strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month in token %q", s)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("invalid year in token %q", s)
	}
	return month, year, nil
}

func join(month, year int) string {
	return fmt.Sprintf("%02d/%d", month, year)
}
