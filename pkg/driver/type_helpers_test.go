package driver

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsString(t *testing.T) {
	s, ok := AsString("Acme Corp")
	assert.True(t, ok)
	assert.Equal(t, "Acme Corp", s)

	_, ok = AsString(nil)
	assert.False(t, ok)

	_, ok = AsString(42)
	assert.False(t, ok)
}

func TestAsInt64(t *testing.T) {
	i, ok := AsInt64(int64(7))
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)

	_, ok = AsInt64(nil)
	assert.False(t, ok)

	_, ok = AsInt64(7.0)
	assert.False(t, ok)
}

func TestAsNumber(t *testing.T) {
	assert.Equal(t, 0.8, AsNumber(0.8))
	assert.Equal(t, 3.0, AsNumber(int64(3)))
	assert.Equal(t, 2.0, AsNumber(2))
	assert.Zero(t, AsNumber("not a number"))
	assert.Zero(t, AsNumber(nil))
}

func TestAsStringValues(t *testing.T) {
	values := AsStringValues([]any{"Acme Corp", "Globex Inc", 42})
	assert.Equal(t, []string{"Acme Corp", "Globex Inc"}, values)

	assert.Nil(t, AsStringValues("not a list"))
	assert.Nil(t, AsStringValues(nil))
}

func TestAsNumberValues(t *testing.T) {
	values := AsNumberValues([]any{0.8, int64(1), "bad"})
	assert.Equal(t, []float64{0.8, 1.0, 0}, values)

	assert.Nil(t, AsNumberValues(nil))
}

func TestMustRecordSlice(t *testing.T) {
	records := []*db.Record{{}}
	got, err := MustRecordSlice(records, "paths")
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = MustRecordSlice("wrong", "paths")
	require.Error(t, err)
	var convErr *TypeConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "paths", convErr.Field)
	assert.Contains(t, convErr.Error(), "paths")
}
