package transform

import (
	"log/slog"
	"sort"

	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

// CalendarOutput is the cleaned calendar plus its per-listing aggregates
// and skip counters.
type CalendarOutput struct {
	Days        []domain.CalendarDay
	Aggregates  []domain.CalendarAggregate
	DroppedNoID int
	BadDates    int // kept, but with zero date parts
}

// CleanCalendar types the calendar entries and aggregates availability per
// listing: exactly one aggregate row per distinct listing id present in the
// input.
func CleanCalendar(raw []domain.CalendarEntry, logger *slog.Logger) *CalendarOutput {
	out := &CalendarOutput{}

	out.Days = make([]domain.CalendarDay, 0, len(raw))
	for _, e := range raw {
		id, ok := toInt64(e.ListingID)
		if !ok {
			out.DroppedNoID++
			continue
		}

		day := domain.CalendarDay{ListingID: id}
		if date, ok := toDate(e.Date); ok {
			day.Date = date
			day.Year = date.Year()
			day.Month = int(date.Month())
			day.Day = date.Day()
		} else {
			out.BadDates++
		}
		if flag, ok := toFlag(e.Available); ok {
			day.Available = flag
		}
		if price, ok := toFloat(e.Price); ok {
			day.Price = price
		}
		out.Days = append(out.Days, day)
	}

	out.Aggregates = AggregateCalendar(out.Days)

	logger.Info("calendar cleaned",
		slog.Int("rows", len(out.Days)),
		slog.Int("listings", len(out.Aggregates)),
		slog.Int("dropped_no_id", out.DroppedNoID),
		slog.Int("bad_dates", out.BadDates))
	return out
}

// AggregateCalendar groups calendar days by listing id and computes the
// availability rate (percentage, two decimals) and the count of available
// days. Output is sorted by listing id for deterministic downstream tables.
func AggregateCalendar(days []domain.CalendarDay) []domain.CalendarAggregate {
	type counter struct {
		available int
		total     int
	}
	byListing := make(map[int64]*counter)
	for _, d := range days {
		c := byListing[d.ListingID]
		if c == nil {
			c = &counter{}
			byListing[d.ListingID] = c
		}
		c.available += d.Available
		c.total++
	}

	aggs := make([]domain.CalendarAggregate, 0, len(byListing))
	for id, c := range byListing {
		aggs = append(aggs, domain.CalendarAggregate{
			ListingID: id,
			Rate:      round2(100 * float64(c.available) / float64(c.total)),
			Days:      c.available,
		})
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].ListingID < aggs[j].ListingID })
	return aggs
}
