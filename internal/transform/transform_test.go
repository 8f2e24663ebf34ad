package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JDavidPC/bi-etl/internal/config"
	"github.com/JDavidPC/bi-etl/internal/extract"
	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

// End-to-end transformation over a small but complete extract: three
// listings, calendar rows for two of them, five reviews across two of them.
func TestTransformerRun(t *testing.T) {
	res := &extract.Result{
		Listings: []domain.Listing{baseRaw(1), baseRaw(2), baseRaw(3)},
		Reviews: []domain.Review{
			{ID: int64(100), ListingID: int64(1), Comments: "Great location, spotless and the host is lovely"},
			{ID: int64(101), ListingID: int64(1), Comments: "Horrible, noisy and dirty"},
			{ID: int64(102), ListingID: int64(1), Comments: "The keys are under the mat"},
			{ID: int64(103), ListingID: int64(2), Comments: "Best stay of the whole trip, amazing"},
			{ID: int64(104), ListingID: int64(2), Comments: "Perfectly fine for one night"},
		},
		Calendar: []domain.CalendarEntry{
			{ListingID: int64(1), Date: "2024-01-01", Available: "t"},
			{ListingID: int64(1), Date: "2024-01-02", Available: "f"},
			{ListingID: int64(2), Date: "2024-01-01", Available: "t"},
		},
	}

	tr := NewTransformer(config.TransformConfig{ReviewSample: 15000}, "listings_analitica", discardLogger())
	out := tr.Run(res)

	assert.Equal(t, "listings_analitica", out.Final.Name)
	assert.Equal(t, 3, out.Final.RowCount())
	assert.Equal(t, 3, out.Listings.RowCount())
	assert.Equal(t, 5, out.Reviews.RowCount())
	assert.Equal(t, 2, out.CalendarAggregate.RowCount())
	assert.Zero(t, out.SkippedRecords)

	// every listing yields exactly one final row, with or without aggregates
	byID := make(map[interface{}][]interface{}, out.Final.RowCount())
	for _, row := range out.Final.Rows {
		byID[row[0]] = row
	}
	require.Len(t, byID, 3)

	cols := out.Final.Columns
	rateCol := indexOf(t, cols, "tasa_disponibilidad_anual")
	daysCol := indexOf(t, cols, "dias_disponibles_anual")
	countCol := indexOf(t, cols, "numero_de_reviews_sentimiento")

	assert.Equal(t, 50.0, byID[int64(1)][rateCol])
	assert.Equal(t, int64(1), byID[int64(1)][daysCol])
	assert.Equal(t, int64(3), byID[int64(1)][countCol])

	assert.Equal(t, 100.0, byID[int64(2)][rateCol])
	assert.Equal(t, int64(2), byID[int64(2)][countCol])

	// listing 3 has neither reviews nor calendar rows
	assert.Equal(t, 0.0, byID[int64(3)][rateCol])
	assert.Equal(t, int64(0), byID[int64(3)][daysCol])
	assert.Equal(t, int64(0), byID[int64(3)][countCol])

	// workbook sheets come out in fixed order
	sheets := out.SheetTables()
	require.Len(t, sheets, 3)
	assert.Equal(t, SheetListings, sheets[0].Name)
	assert.Equal(t, SheetReviews, sheets[1].Name)
	assert.Equal(t, SheetCalendar, sheets[2].Name)
}

func TestTransformerRunEmptyExtract(t *testing.T) {
	tr := NewTransformer(config.TransformConfig{ReviewSample: 15000}, "listings_analitica", discardLogger())
	out := tr.Run(&extract.Result{})

	assert.True(t, out.Final.Empty())
	assert.Zero(t, out.Reviews.RowCount())
	assert.Zero(t, out.CalendarAggregate.RowCount())
	// headers survive even with no rows
	assert.NotEmpty(t, out.Final.Columns)
	assert.NotEmpty(t, out.Reviews.Columns)
}

func TestEnrichedTableColumnLayout(t *testing.T) {
	out := CleanListings([]domain.Listing{baseRaw(1)}, discardLogger())
	table := EnrichedTable("final", Enrich(out.Rows, nil, nil), out.VerificationColumns, out.AmenityColumns)

	cols := table.Columns
	require.Len(t, cols, len(listingBaseColumns)+1+len(enrichedColumns))
	assert.Equal(t, "id", cols[0])
	assert.Equal(t, "amenities_count", cols[len(listingBaseColumns)])
	assert.Equal(t, "dias_disponibles_anual", cols[len(cols)-1])

	require.Equal(t, 1, table.RowCount())
	require.Len(t, table.Rows[0], len(cols))
}

func TestSafeColumnName(t *testing.T) {
	assert.Equal(t, "air_conditioning", safeColumnName("air conditioning"))
	assert.Equal(t, "tv_cable", safeColumnName("tv/cable"))
	assert.Equal(t, "self_check_in", safeColumnName("self check-in"))
}

func indexOf(t *testing.T, cols []string, name string) int {
	t.Helper()
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	t.Fatalf("column %q not found", name)
	return -1
}
