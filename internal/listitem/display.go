package listitem

import "github.com/christopherklint97/daylog/internal/timefmt"

// ShouldDisplayOnDate reports whether item belongs on the given day.
// A Todo is visible from its creation date through its completion date, or
// forever while incomplete. A CalendarEvent is visible on its start date only.
func ShouldDisplayOnDate(item ListItem, date string) bool {
	switch it := item.(type) {
	case CalendarEvent:
		if it.startTime == nil {
			return false
		}
		return timefmt.ExtractDate(*it.startTime) == date
	default:
		created := timefmt.ExtractDate(item.CreatedAt())
		if timefmt.CompareDates(date, created) < 0 {
			return false
		}
		completed := item.CompletedAt()
		if completed == nil {
			return true
		}
		return timefmt.CompareDates(date, timefmt.ExtractDate(*completed)) <= 0
	}
}

// FilterItemsByDate keeps the items visible on date, in their original order.
func FilterItemsByDate(items []ListItem, date string) []ListItem {
	out := make([]ListItem, 0, len(items))
	for _, it := range items {
		if ShouldDisplayOnDate(it, date) {
			out = append(out, it)
		}
	}
	return out
}
