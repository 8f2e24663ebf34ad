package domain

import "time"

// CalendarEntry is a raw per-listing per-date availability document.
type CalendarEntry struct {
	ListingID interface{} `bson:"listing_id"`
	Date      interface{} `bson:"date"`
	Available interface{} `bson:"available"`
	Price     interface{} `bson:"price"`
}

// CalendarDay is a cleaned calendar entry: typed identifier, parsed date
// with derived date parts, and availability as 0/1.
type CalendarDay struct {
	ListingID int64
	Date      time.Time
	Year      int
	Month     int
	Day       int
	Available int
	Price     float64
}

// CalendarAggregate summarises the calendar of a single listing. Rate is a
// percentage in [0, 100] rounded to two decimals; Days is the count of
// available days.
type CalendarAggregate struct {
	ListingID int64
	Rate      float64
	Days      int
}
