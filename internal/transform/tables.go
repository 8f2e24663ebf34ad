package transform

import (
	"strings"

	"github.com/JDavidPC/bi-etl/internal/dataset"
	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

// Output table and sheet names. These, like the derived column names below,
// are the data contract of the downstream BI dashboards and keep the names
// the consumers already query.
const (
	SheetListings = "listings_limpio"
	SheetReviews  = "reviews_analizados"
	SheetCalendar = "calendar_agregado"
)

var listingBaseColumns = []string{
	"id", "name", "neighbourhood", "latitude", "longitude",
	"property_type", "room_type", "accommodates",
	"bathrooms", "bedrooms", "beds", "price",
	"has_availability", "number_of_reviews",
	"review_scores_rating", "review_scores_accuracy", "review_scores_cleanliness",
	"review_scores_checkin", "review_scores_communication", "review_scores_location",
	"review_scores_value", "reviews_per_month", "host_response_speed",
}

var enrichedColumns = []string{
	"sentimiento_promedio", "numero_de_reviews_sentimiento",
	"tasa_disponibilidad_anual", "dias_disponibles_anual",
}

// ListingsTable builds the cleaned-listings sheet: fixed columns, then one
// verif_* column per verification method, one amen_* column per top amenity,
// and the amenity count.
func ListingsTable(out *ListingsOutput) *dataset.Table {
	t := dataset.New(SheetListings, listingColumns(out.VerificationColumns, out.AmenityColumns))
	for _, l := range out.Rows {
		_ = t.Append(listingRow(l, out.VerificationColumns, out.AmenityColumns))
	}
	return t
}

// EnrichedTable builds the final analytical table: the cleaned-listing
// columns plus the review-sentiment and calendar-availability aggregates.
func EnrichedTable(name string, rows []domain.EnrichedListing, verifCols, amenCols []string) *dataset.Table {
	columns := append(listingColumns(verifCols, amenCols), enrichedColumns...)
	t := dataset.New(name, columns)
	for _, e := range rows {
		row := listingRow(e.CleanListing, verifCols, amenCols)
		row = append(row,
			e.MeanSentiment,
			int64(e.SentimentReviews),
			e.AvailabilityRate,
			int64(e.AvailableDays),
		)
		_ = t.Append(row)
	}
	return t
}

// ReviewsTable builds the scored-reviews sheet.
func ReviewsTable(out *ReviewsOutput) *dataset.Table {
	t := dataset.New(SheetReviews, []string{
		"listing_id", "id", "date", "reviewer_name", "comments",
		"idioma", "sentimiento", "puntuacion_sentimiento",
	})
	for _, r := range out.Rows {
		date := interface{}(nil)
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		_ = t.Append([]interface{}{
			r.ListingID, r.ID, date, r.Reviewer, r.Comments,
			r.Language, r.Sentiment, r.Score,
		})
	}
	return t
}

// CalendarTable builds the three-column calendar aggregate sheet.
func CalendarTable(aggs []domain.CalendarAggregate) *dataset.Table {
	t := dataset.New(SheetCalendar, []string{
		"listing_id", "tasa_disponibilidad_anual", "dias_disponibles_anual",
	})
	for _, a := range aggs {
		_ = t.Append([]interface{}{a.ListingID, a.Rate, int64(a.Days)})
	}
	return t
}

func listingColumns(verifCols, amenCols []string) []string {
	columns := make([]string, 0, len(listingBaseColumns)+len(verifCols)+len(amenCols)+1)
	columns = append(columns, listingBaseColumns...)
	for _, v := range verifCols {
		columns = append(columns, "verif_"+safeColumnName(v))
	}
	for _, a := range amenCols {
		columns = append(columns, "amen_"+safeColumnName(a))
	}
	return append(columns, "amenities_count")
}

func listingRow(l domain.CleanListing, verifCols, amenCols []string) []interface{} {
	row := make([]interface{}, 0, len(listingBaseColumns)+len(verifCols)+len(amenCols)+1)
	row = append(row,
		l.ID, l.Name, l.Neighbourhood, l.Latitude, l.Longitude,
		l.PropertyType, l.RoomType, int64(l.Accommodates),
		l.Bathrooms, l.Bedrooms, l.Beds, l.Price,
		int64(l.HasAvailability), int64(l.NumberOfReviews),
		l.ScoreRating, l.ScoreAccuracy, l.ScoreCleanliness,
		l.ScoreCheckin, l.ScoreCommunication, l.ScoreLocation,
		l.ScoreValue, l.ReviewsPerMonth, l.HostResponseSpeed,
	)
	for _, v := range verifCols {
		row = append(row, oneHot(l.Verifications[v]))
	}
	for _, a := range amenCols {
		row = append(row, oneHot(l.Amenities[a]))
	}
	return append(row, int64(l.AmenitiesCount))
}

func oneHot(present bool) int64 {
	if present {
		return 1
	}
	return 0
}

// safeColumnName rewrites an amenity or verification label into a column
// identifier both SQLite and spreadsheet formulas tolerate.
func safeColumnName(label string) string {
	return strings.NewReplacer(" ", "_", "/", "_", "-", "_", ".", "_").Replace(label)
}
