package sanitize_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descry-dev/descry/internal/sanitize"
)

func TestCleanScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "bool", in: true, want: true},
		{name: "int", in: 42, want: int64(42)},
		{name: "uint", in: uint8(7), want: int64(7)},
		{name: "float", in: 1.5, want: 1.5},
		{name: "string", in: "hello", want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitize.Clean(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanTime(t *testing.T) {
	ts := time.Date(2025, 1, 9, 12, 30, 0, 0, time.UTC)
	got, err := sanitize.Clean(ts)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-09T12:30:00Z", got)
}

func TestCleanUUID(t *testing.T) {
	id := uuid.MustParse("b8f0db6a-4b2e-43f6-b292-03b1a44e4a94")
	got, err := sanitize.Clean(id)
	require.NoError(t, err)
	assert.Equal(t, "b8f0db6a-4b2e-43f6-b292-03b1a44e4a94", got)
}

func TestCleanNaN(t *testing.T) {
	got, err := sanitize.Clean(math.NaN())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = sanitize.Clean(math.NaN(), sanitize.NaNAsString())
	require.NoError(t, err)
	assert.Equal(t, "nan", got)

	got, err = sanitize.Clean(math.Inf(-1), sanitize.NaNAsString())
	require.NoError(t, err)
	assert.Equal(t, "-inf", got)

	_, err = sanitize.Clean(math.NaN(), sanitize.Strict())
	assert.Error(t, err)
}

func TestCleanNested(t *testing.T) {
	in := map[string]any{
		"list":  []any{1, "two", []any{3.0}},
		"inner": map[string]any{"k": nil},
	}

	got, err := sanitize.Clean(in)
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{int64(1), "two", []any{3.0}}, m["list"])
	assert.Equal(t, map[string]any{"k": nil}, m["inner"])
}

func TestCleanIntKeys(t *testing.T) {
	got, err := sanitize.Clean(map[int]string{1: "one", 2: "two"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "one", "2": "two"}, got)
}

func TestCleanStruct(t *testing.T) {
	type inner struct {
		When time.Time `json:"when"`
	}
	type outer struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
		Inner inner  `json:"inner"`
		Skip  string `json:"-"`
	}

	got, err := sanitize.Clean(outer{
		Name:  "monty",
		Count: 3,
		Inner: inner{When: time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)},
		Skip:  "hidden",
	})
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "monty", m["name"])
	assert.NotContains(t, m, "Skip")

	innerMap, ok := m["inner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-01-09T00:00:00Z", innerMap["when"])
}

func TestCleanPointer(t *testing.T) {
	n := 5
	got, err := sanitize.Clean(&n)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	var nilPtr *int
	got, err = sanitize.Clean(nilPtr)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCleanOutputIsJSONEncodable(t *testing.T) {
	in := map[string]any{
		"ts":   time.Now(),
		"id":   uuid.New(),
		"nan":  math.NaN(),
		"nums": []float64{1, 2, math.Inf(1)},
	}

	got, err := sanitize.Clean(in)
	require.NoError(t, err)

	_, err = json.Marshal(got)
	assert.NoError(t, err)
}

func TestCleanStrictUnsupported(t *testing.T) {
	_, err := sanitize.Clean(make(chan int), sanitize.Strict())
	assert.Error(t, err)
}
