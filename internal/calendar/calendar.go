// Package calendar adapts the rickar/cal business calendar to the
// working-day predicate the scheduler needs.
package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ru"
)

type Calendar struct {
	cal *cal.BusinessCalendar
}

// New returns a calendar with Monday-Friday workdays and Russian public
// holidays excluded.
func New() *Calendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(ru.Holidays...)
	return &Calendar{cal: c}
}

func (c *Calendar) IsWorkingDay(t time.Time) bool {
	return c.cal.IsWorkday(t)
}
