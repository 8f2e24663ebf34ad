package extract

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JDavidPC/bi-etl/internal/config"
	pipeerrors "github.com/JDavidPC/bi-etl/internal/errors"
)

func TestMissingCollections(t *testing.T) {
	required := []string{"listings", "reviews", "calendar"}

	tests := []struct {
		name      string
		available []string
		want      []string
	}{
		{"all present", []string{"calendar", "listings", "reviews", "extra"}, nil},
		{"one missing", []string{"listings", "calendar"}, []string{"reviews"}},
		{"all missing", nil, required},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingCollections(tt.available, required))
		})
	}
}

func TestExtractor_Connect_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping connection test in short mode")
	}

	cfg := config.MongoConfig{
		URI:            "mongodb://127.0.0.1:1", // nothing listens here
		Database:       "bi_mx",
		ConnectTimeout: 200 * time.Millisecond,
	}
	e := New(cfg, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := e.Connect(ctx)
	require.Error(t, err)
	assert.True(t, pipeerrors.IsKind(err, pipeerrors.KindConnection))

	e.Close(ctx) // must be safe after a failed connect
}
