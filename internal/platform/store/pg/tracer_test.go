package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		out = append(out, m)
	}
	return out
}

func TestTracer_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	// root filtered at error still gets query lines
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))

	ctx := context.Background()
	tr.OnQuery(ctx, QueryEvent{SQL: "SELECT id\n\t FROM deals\n WHERE source_hash = $1", Args: []any{"h"}, Elapsed: 1500 * time.Microsecond})
	tr.OnQuery(ctx, QueryEvent{SQL: "SELECT 1", Elapsed: time.Second, Slow: true})
	tr.OnQuery(ctx, QueryEvent{SQL: "INSERT INTO deals", Err: errors.New("duplicate key")})

	got := lines(t, &buf)
	require.Len(t, got, 3)

	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "SELECT id FROM deals WHERE source_hash = $1", got[0]["sql"])
	assert.Equal(t, 1.5, got[0]["elapsed_ms"])
	assert.Equal(t, "pg", got[0]["component"])

	assert.Equal(t, "warn", got[1]["level"])
	assert.Equal(t, true, got[1]["slow"])

	assert.Equal(t, "error", got[2]["level"])
	assert.Equal(t, "duplicate key", got[2]["error"])
}
