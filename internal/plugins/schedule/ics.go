package schedule

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/plumbline-app/plumbline/internal/calendar"
)

// defaultEventDuration is used for ICS consumers that render zero-length
// events poorly. Deadline events get this block on the calendar.
const defaultEventDuration = time.Hour

// RenderICS serializes a window's events as an iCalendar feed so staff can
// subscribe from their own calendar clients.
func RenderICS(events []calendar.Event, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Plumbline//Schedule//EN")

	for _, e := range events {
		if e.Start == nil {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@plumbline", e.ID))
		ev.SetDtStampTime(now)
		ev.SetStartAt(*e.Start)
		if e.End != nil && e.End.After(*e.Start) {
			ev.SetEndAt(*e.End)
		} else {
			ev.SetEndAt(e.Start.Add(defaultEventDuration))
		}
		ev.SetSummary(e.DisplayTitle())
		if e.Address != "" {
			ev.SetLocation(e.Address)
		}
		if e.AssigneeName != "" {
			ev.SetDescription(fmt.Sprintf("%s · assigned to %s", e.Category.Label(), e.AssigneeName))
		} else {
			ev.SetDescription(e.Category.Label())
		}
	}

	return cal.Serialize()
}
