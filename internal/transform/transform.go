// Package transform turns the raw extracts into an analysis-ready listing
// table plus two side tables: sentiment-scored reviews and aggregated
// calendar availability. Malformed records are skipped and counted, never
// fatal; an empty final table is flagged as a data-quality issue.
package transform

import (
	"log/slog"

	"github.com/JDavidPC/bi-etl/internal/config"
	"github.com/JDavidPC/bi-etl/internal/dataset"
	"github.com/JDavidPC/bi-etl/internal/extract"
)

// Output holds the four tables the load stage persists: the enriched final
// table for the relational sink and the three sheets for the workbook.
type Output struct {
	Final             *dataset.Table
	Listings          *dataset.Table
	Reviews           *dataset.Table
	CalendarAggregate *dataset.Table
	SkippedRecords    int
}

// SheetTables returns the tables destined for the workbook, in sheet order.
func (o *Output) SheetTables() []*dataset.Table {
	return []*dataset.Table{o.Listings, o.Reviews, o.CalendarAggregate}
}

// Transformer runs the cleaning, scoring, aggregation and merge steps.
type Transformer struct {
	cfg      config.TransformConfig
	table    string
	analyzer *SentimentAnalyzer
	logger   *slog.Logger
}

// NewTransformer builds a Transformer. tableName names the final relational
// table the enriched output is built for.
func NewTransformer(cfg config.TransformConfig, tableName string, logger *slog.Logger) *Transformer {
	return &Transformer{
		cfg:      cfg,
		table:    tableName,
		analyzer: NewSentimentAnalyzer(),
		logger:   logger,
	}
}

// Run executes the full transformation over the extracts.
func (t *Transformer) Run(res *extract.Result) *Output {
	listings := CleanListings(res.Listings, t.logger)
	reviews := ScoreReviews(res.Reviews, t.cfg.ReviewSample, t.analyzer, t.logger)
	calendar := CleanCalendar(res.Calendar, t.logger)

	enriched := Enrich(listings.Rows, AggregateSentiment(reviews.Rows), calendar.Aggregates)

	out := &Output{
		Final:             EnrichedTable(t.table, enriched, listings.VerificationColumns, listings.AmenityColumns),
		Listings:          ListingsTable(listings),
		Reviews:           ReviewsTable(reviews),
		CalendarAggregate: CalendarTable(calendar.Aggregates),
		SkippedRecords:    listings.Skipped() + reviews.DroppedEmpty + reviews.DroppedNoID + calendar.DroppedNoID,
	}

	if out.Final.Empty() {
		t.logger.Warn("final table is empty after transformation; output files will carry headers only")
	}
	t.logger.Info("transformation completed",
		slog.Int("final_rows", out.Final.RowCount()),
		slog.Int("clean_listings", out.Listings.RowCount()),
		slog.Int("scored_reviews", out.Reviews.RowCount()),
		slog.Int("calendar_aggregates", out.CalendarAggregate.RowCount()),
		slog.Int("skipped_records", out.SkippedRecords))
	return out
}
