package view

import (
	"errors"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/dealdesk/internal/analytics"
)

// period is the creation-date window the dashboard reports on.
type period int

const (
	periodThisMonth period = iota
	periodLastMonth
	periodThisQuarter
	periodYearToDate
	periodAll
	periodCustom
)

var periods = []period{periodThisMonth, periodLastMonth, periodThisQuarter, periodYearToDate, periodAll, periodCustom}

func (p period) String() string {
	switch p {
	case periodThisMonth:
		return "This Month"
	case periodLastMonth:
		return "Last Month"
	case periodThisQuarter:
		return "This Quarter"
	case periodYearToDate:
		return "Year to Date"
	case periodAll:
		return "All Time"
	case periodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// bounds resolves a preset against now. End is the last day included.
func (p period) bounds(now time.Time) (time.Time, time.Time) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch p {
	case periodThisMonth:
		return monthStart, now
	case periodLastMonth:
		return monthStart.AddDate(0, -1, 0), monthStart.AddDate(0, 0, -1)
	case periodThisQuarter:
		q := (int(now.Month()) - 1) / 3
		return time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, now.Location()), now
	case periodYearToDate:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now
	}

	return time.Time{}, time.Time{}
}

// periodChoice holds the values bound to the range form.
type periodChoice struct {
	period period
	from   string
	to     string
}

// analyticsRange converts a submitted choice into whole UTC days.
// All Time yields the zero range.
func (c periodChoice) analyticsRange(now time.Time) (analytics.Range, error) {
	switch c.period {
	case periodAll:
		return analytics.Range{}, nil
	case periodCustom:
		start, err := time.Parse(time.DateOnly, c.from)
		if err != nil {
			return analytics.Range{}, errors.New("invalid start date (YYYY-MM-DD)")
		}

		end, err := time.Parse(time.DateOnly, c.to)
		if err != nil {
			return analytics.Range{}, errors.New("invalid end date (YYYY-MM-DD)")
		}

		if end.Before(start) {
			return analytics.Range{}, errors.New("end date is before start date")
		}

		return wholeDays(start, end), nil
	}

	return wholeDays(c.period.bounds(now)), nil
}

func wholeDays(start, end time.Time) analytics.Range {
	return analytics.Range{
		Start: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		End:   time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC),
	}
}

func describeRange(r analytics.Range) string {
	if r.Start.IsZero() {
		return periodAll.String()
	}

	return r.Start.Format(time.DateOnly) + " to " + r.End.Format(time.DateOnly)
}

func validDay(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

// newPeriodForm asks for a preset and, for Custom Range only, the two dates.
func newPeriodForm(c *periodChoice) *huh.Form {
	options := make([]huh.Option[period], 0, len(periods))
	for _, p := range periods {
		options = append(options, huh.NewOption(p.String(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[period]().
				Key("period").
				Title("Show deals created").
				Options(options...).
				Value(&c.period),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("from").
				Title("From").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&c.from).
				Validate(validDay),
			huh.NewInput().
				Key("to").
				Title("To").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&c.to).
				Validate(func(s string) error {
					if err := validDay(s); err != nil {
						return err
					}
					if s < c.from {
						return errors.New("end date is before start date")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return c.period != periodCustom }),
	).WithWidth(40).WithShowHelp(false)
}
