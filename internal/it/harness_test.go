package it

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLoads(t *testing.T) {
	out := []byte(`Histogram:
server: a, load: 60.00% (expected 50.00%)     ##############################
server: b, load: 40.00%                       ####################

Summary:
Min: 40

Removed: [b]
Histogram:
server: a, load: 100.00%
`)
	loads := parseLoads(out)
	assert.Equal(t, []map[string]float64{
		{"a": 60, "b": 40},
		{"a": 100},
	}, loads)
	assert.Empty(t, parseLoads([]byte("server: a, load: 1%\n")))
}
