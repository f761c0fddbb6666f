package it

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const binaryPath = "./ringsim"

func newSim(t *testing.T) *Sim {
	t.Helper()
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skip("Binary not found, skipping integration test. Build with: go build -o internal/it/ringsim ./cmd/ringsim")
	}
	sim, err := NewSim(binaryPath)
	require.NoError(t, err)
	return sim
}

func TestSmoke_DefaultHosts(t *testing.T) {
	sim := newSim(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := sim.Run(ctx, "default", "--seed", "1")
	require.NoError(t, err)
	require.Len(t, res.Loads, 1)

	loads := res.Loads[0]
	require.Len(t, loads, 6)
	// srv-01 has twice the weight of each other host: 4/14 of the ring.
	assert.InDelta(t, 28.57, loads["srv-01"], 8)
	for _, name := range []string{"srv-02", "srv-03", "srv-04", "srv-05", "srv-06"} {
		assert.InDelta(t, 14.29, loads[name], 6, "host %s", name)
	}
}

func TestSmoke_Deterministic(t *testing.T) {
	sim := newSim(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	args := []string{"--seed", "7", "--requests", "5000", "--hosts", "a=1,b=1,c=2", "--workers", "4"}
	first, err := sim.Run(ctx, "deterministic-1", args...)
	require.NoError(t, err)
	second, err := sim.Run(ctx, "deterministic-2", args...)
	require.NoError(t, err)

	assert.Equal(t, first.Stdout, second.Stdout, "separate processes must route identically")
}

func TestSmoke_Remove(t *testing.T) {
	sim := newSim(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := sim.Run(ctx, "remove",
		"--seed", "3", "--requests", "20000", "--hosts", "a=1,b=1,c=1", "--remove", "b")
	require.NoError(t, err)
	require.Len(t, res.Loads, 2)

	assert.Contains(t, res.Loads[0], "b")
	assert.NotContains(t, res.Loads[1], "b")
	assert.Contains(t, res.Stdout, "Keys moved off surviving hosts: 0")
}

func TestSmoke_InvalidReplicas(t *testing.T) {
	sim := newSim(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err := sim.Run(ctx, "invalid", "--replicas", "300")
	assert.Error(t, err)
}
