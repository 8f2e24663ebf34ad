package transform

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/montanaflynn/stats"
	"golang.org/x/text/runes"
	texttransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

// TopAmenities is how many of the most frequent amenities become one-hot
// columns in the output.
const TopAmenities = 12

// Hard upper bounds applied after the IQR filter. Values above these are
// data-entry noise regardless of the distribution.
const (
	maxBathrooms = 10
	maxBedrooms  = 10
	maxBeds      = 15
	maxPrice     = 400_000
)

// responseSpeed collapses the source's response-time vocabulary into three
// canonical buckets; anything unmapped becomes "Unknown".
var responseSpeed = map[string]string{
	"within an hour":     "Fast",
	"within a few hours": "Fast",
	"within a day":       "Moderate",
	"a few days or more": "Slow",
}

// ListingsOutput is the cleaned listing set plus the dynamic column layout
// derived from the data (verification methods, top amenities) and the
// data-quality skip counters.
type ListingsOutput struct {
	Rows                []domain.CleanListing
	VerificationColumns []string // alphabetical
	AmenityColumns      []string // frequency desc, then name asc
	DroppedNoID         int
	DroppedNoPrice      int
	DroppedOutliers     int
}

// Skipped returns the total number of listings dropped during cleaning.
func (o *ListingsOutput) Skipped() int {
	return o.DroppedNoID + o.DroppedNoPrice + o.DroppedOutliers
}

// CleanListings turns raw listing documents into typed, imputed, outlier-
// filtered records. Rows without a usable identifier or price are dropped
// and counted, never fatal.
func CleanListings(raw []domain.Listing, logger *slog.Logger) *ListingsOutput {
	out := &ListingsOutput{}

	type workRow struct {
		rec            domain.CleanListing
		bathroomsKnown bool
		bedroomsKnown  bool
		bedsKnown      bool
		availKnown     bool
	}

	work := make([]workRow, 0, len(raw))
	amenityFreq := make(map[string]int)
	verifSet := make(map[string]bool)

	for _, l := range raw {
		id, ok := toInt64(l.ID)
		if !ok {
			out.DroppedNoID++
			continue
		}
		price, ok := toFloat(l.Price)
		if !ok || price <= 0 {
			out.DroppedNoPrice++
			continue
		}

		w := workRow{rec: domain.CleanListing{
			ID:            id,
			Name:          strings.TrimSpace(l.Name),
			Neighbourhood: canonicalNeighbourhood(l.Neighbourhood),
			Latitude:      l.Latitude,
			Longitude:     l.Longitude,
			PropertyType:  strings.TrimSpace(l.PropertyType),
			RoomType:      strings.TrimSpace(l.RoomType),
			Price:         price,
		}}

		if speed, ok := responseSpeed[strings.ToLower(strings.TrimSpace(l.HostResponseTime))]; ok {
			w.rec.HostResponseSpeed = speed
		} else {
			w.rec.HostResponseSpeed = "Unknown"
		}

		w.rec.Verifications = make(map[string]bool)
		for _, v := range toStringList(l.HostVerifications) {
			v = strings.ToLower(v)
			w.rec.Verifications[v] = true
			verifSet[v] = true
		}

		w.rec.Amenities = make(map[string]bool)
		for _, a := range toStringList(l.Amenities) {
			a = strings.ToLower(a)
			if w.rec.Amenities[a] {
				continue
			}
			w.rec.Amenities[a] = true
			amenityFreq[a]++
		}
		w.rec.AmenitiesCount = len(w.rec.Amenities)

		if n, ok := toInt64(l.Accommodates); ok {
			w.rec.Accommodates = int(n)
		}
		if n, ok := toInt64(l.NumberOfReviews); ok {
			w.rec.NumberOfReviews = int(n)
		}
		w.rec.Bathrooms, w.bathroomsKnown = toFloat(l.Bathrooms)
		w.rec.Bedrooms, w.bedroomsKnown = toFloat(l.Bedrooms)
		w.rec.Beds, w.bedsKnown = toFloat(l.Beds)
		w.rec.HasAvailability, w.availKnown = toFlag(l.HasAvailability)

		w.rec.ScoreRating = floatOrZero(l.ReviewScores.Rating)
		w.rec.ScoreAccuracy = floatOrZero(l.ReviewScores.Accuracy)
		w.rec.ScoreCleanliness = floatOrZero(l.ReviewScores.Cleanliness)
		w.rec.ScoreCheckin = floatOrZero(l.ReviewScores.Checkin)
		w.rec.ScoreCommunication = floatOrZero(l.ReviewScores.Communication)
		w.rec.ScoreLocation = floatOrZero(l.ReviewScores.Location)
		w.rec.ScoreValue = floatOrZero(l.ReviewScores.Value)
		w.rec.ReviewsPerMonth = floatOrZero(l.ReviewsPerMonth)

		work = append(work, w)
	}

	// Median imputation for the sparse numeric columns, computed over the
	// rows where the value is present.
	bathroomsMedian := medianOf(work, func(w workRow) (float64, bool) { return w.rec.Bathrooms, w.bathroomsKnown })
	bedroomsMedian := medianOf(work, func(w workRow) (float64, bool) { return w.rec.Bedrooms, w.bedroomsKnown })
	bedsMedian := medianOf(work, func(w workRow) (float64, bool) { return w.rec.Beds, w.bedsKnown })

	// Availability flag gets the column mode; a tie resolves to 0.
	ones, zeros := 0, 0
	for _, w := range work {
		if !w.availKnown {
			continue
		}
		if w.rec.HasAvailability == 1 {
			ones++
		} else {
			zeros++
		}
	}
	availMode := 0
	if ones > zeros {
		availMode = 1
	}

	rows := make([]domain.CleanListing, 0, len(work))
	for _, w := range work {
		if !w.bathroomsKnown {
			w.rec.Bathrooms = bathroomsMedian
		}
		if !w.bedroomsKnown {
			w.rec.Bedrooms = bedroomsMedian
		}
		if !w.bedsKnown {
			w.rec.Beds = bedsMedian
		}
		if !w.availKnown {
			w.rec.HasAvailability = availMode
		}
		rows = append(rows, w.rec)
	}

	// Outliers: IQR fence per column, applied sequentially, then the hard
	// caps. The fences are recomputed on the surviving rows each time, the
	// same way a column-by-column filter behaves.
	before := len(rows)
	for _, sel := range []func(domain.CleanListing) float64{
		func(l domain.CleanListing) float64 { return l.Bathrooms },
		func(l domain.CleanListing) float64 { return l.Bedrooms },
		func(l domain.CleanListing) float64 { return l.Beds },
		func(l domain.CleanListing) float64 { return l.Price },
	} {
		rows = filterIQR(rows, sel)
	}
	rows = filterMax(rows, func(l domain.CleanListing) float64 { return l.Bathrooms }, maxBathrooms)
	rows = filterMax(rows, func(l domain.CleanListing) float64 { return l.Bedrooms }, maxBedrooms)
	rows = filterMax(rows, func(l domain.CleanListing) float64 { return l.Beds }, maxBeds)
	rows = filterMax(rows, func(l domain.CleanListing) float64 { return l.Price }, maxPrice)
	out.DroppedOutliers = before - len(rows)

	out.Rows = rows
	out.VerificationColumns = sortedKeys(verifSet)
	out.AmenityColumns = topByFrequency(amenityFreq, TopAmenities)

	logger.Info("listings cleaned",
		slog.Int("rows", len(out.Rows)),
		slog.Int("dropped_no_id", out.DroppedNoID),
		slog.Int("dropped_no_price", out.DroppedNoPrice),
		slog.Int("dropped_outliers", out.DroppedOutliers),
		slog.Int("unique_amenities", len(amenityFreq)))
	return out
}

// canonicalNeighbourhood keeps the first comma-separated token, folds
// diacritics to ASCII and lowercases, so "Condesa, Ciudad de México" and
// "condesa" collapse to the same value.
func canonicalNeighbourhood(raw string) string {
	first := strings.SplitN(raw, ",", 2)[0]

	fold := texttransform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := texttransform.String(fold, first)
	if err != nil {
		folded = first
	}

	var b strings.Builder
	for _, r := range folded {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}

func medianOf[T any](items []T, sel func(T) (float64, bool)) float64 {
	var values []float64
	for _, item := range items {
		if v, ok := sel(item); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Median(values)
	if err != nil {
		return 0
	}
	return m
}

func filterIQR(rows []domain.CleanListing, sel func(domain.CleanListing) float64) []domain.CleanListing {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = sel(r)
	}
	q, err := stats.Quartile(values)
	if err != nil {
		return rows
	}
	iqr := q.Q3 - q.Q1
	// Quartile yields NaN quartiles for a single-element input.
	if math.IsNaN(iqr) {
		return rows
	}
	lo, hi := q.Q1-1.5*iqr, q.Q3+1.5*iqr

	kept := rows[:0]
	for _, r := range rows {
		if v := sel(r); v >= lo && v <= hi {
			kept = append(kept, r)
		}
	}
	return kept
}

func filterMax(rows []domain.CleanListing, sel func(domain.CleanListing) float64, max float64) []domain.CleanListing {
	kept := rows[:0]
	for _, r := range rows {
		if sel(r) <= max {
			kept = append(kept, r)
		}
	}
	return kept
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topByFrequency returns the n most frequent keys, ordered by frequency
// descending and name ascending for determinism.
func topByFrequency(freq map[string]int, n int) []string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
