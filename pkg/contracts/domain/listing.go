package domain

// Listing is a raw listing document as stored in the source collection.
// The source data originates from CSV imports, so numeric fields can arrive
// as int32, int64, float64, string or null; those are decoded as interface{}
// and coerced during transformation.
type Listing struct {
	ID                 interface{}  `bson:"id"`
	Name               string       `bson:"name"`
	Neighbourhood      string       `bson:"neighbourhood"`
	Latitude           float64      `bson:"latitude"`
	Longitude          float64      `bson:"longitude"`
	PropertyType       string       `bson:"property_type"`
	RoomType           string       `bson:"room_type"`
	Accommodates       interface{}  `bson:"accommodates"`
	Bathrooms          interface{}  `bson:"bathrooms"`
	Bedrooms           interface{}  `bson:"bedrooms"`
	Beds               interface{}  `bson:"beds"`
	Price              interface{}  `bson:"price"`
	HasAvailability    interface{}  `bson:"has_availability"`
	NumberOfReviews    interface{}  `bson:"number_of_reviews"`
	ReviewScores       ReviewScores `bson:",inline"`
	ReviewsPerMonth    interface{}  `bson:"reviews_per_month"`
	HostResponseTime   string       `bson:"host_response_time"`
	HostResponseRate   interface{}  `bson:"host_response_rate"`
	HostAcceptanceRate interface{}  `bson:"host_acceptance_rate"`
	HostVerifications  interface{}  `bson:"host_verifications"`
	Amenities          interface{}  `bson:"amenities"`
}

// ReviewScores groups the per-category review score fields of a listing.
type ReviewScores struct {
	Rating        interface{} `bson:"review_scores_rating"`
	Accuracy      interface{} `bson:"review_scores_accuracy"`
	Cleanliness   interface{} `bson:"review_scores_cleanliness"`
	Checkin       interface{} `bson:"review_scores_checkin"`
	Communication interface{} `bson:"review_scores_communication"`
	Location      interface{} `bson:"review_scores_location"`
	Value         interface{} `bson:"review_scores_value"`
}

// CleanListing is a listing after cleaning: typed fields, imputed numeric
// values and canonical categorical values. One-hot columns derived from
// host verifications and amenities are kept as sets; the table builders turn
// them into ordered columns.
type CleanListing struct {
	ID                 int64
	Name               string
	Neighbourhood      string
	Latitude           float64
	Longitude          float64
	PropertyType       string
	RoomType           string
	Accommodates       int
	Bathrooms          float64
	Bedrooms           float64
	Beds               float64
	Price              float64
	HasAvailability    int
	NumberOfReviews    int
	ScoreRating        float64
	ScoreAccuracy      float64
	ScoreCleanliness   float64
	ScoreCheckin       float64
	ScoreCommunication float64
	ScoreLocation      float64
	ScoreValue         float64
	ReviewsPerMonth    float64
	HostResponseSpeed  string
	Verifications      map[string]bool
	Amenities          map[string]bool
	AmenitiesCount     int
}

// EnrichedListing is the final analytical record: a cleaned listing joined
// with its review-sentiment and calendar-availability aggregates. Listings
// without reviews or calendar rows keep zero-valued aggregates.
type EnrichedListing struct {
	CleanListing

	MeanSentiment    float64
	SentimentReviews int
	AvailabilityRate float64
	AvailableDays    int
}
