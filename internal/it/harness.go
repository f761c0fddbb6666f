package it

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
)

var loadLine = regexp.MustCompile(`^server: (\S*), load: ([0-9.]+)%`)

// Sim runs the ringsim binary and keeps its output.
type Sim struct {
	binaryPath string
	logDir     string
}

// Result is the parsed output of one ringsim run.
type Result struct {
	Stdout string
	// Loads holds one map per printed histogram: host -> percent.
	Loads []map[string]float64
}

// NewSim creates a harness for the binary at binaryPath.
func NewSim(binaryPath string) (*Sim, error) {
	logDir := filepath.Join(".local", "it-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &Sim{
		binaryPath: binaryPath,
		logDir:     logDir,
	}, nil
}

// Run executes ringsim with args. Stderr goes to a log file named after the run.
func (s *Sim) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	logPath := filepath.Join(s.logDir, fmt.Sprintf("%s.log", name))
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binaryPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = logFile

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ringsim %v failed (see %s): %w", args, logPath, err)
	}

	return &Result{
		Stdout: stdout.String(),
		Loads:  parseLoads(stdout.Bytes()),
	}, nil
}

func parseLoads(out []byte) []map[string]float64 {
	var loads []map[string]float64
	for _, line := range bytes.Split(out, []byte("\n")) {
		if bytes.Equal(line, []byte("Histogram:")) {
			loads = append(loads, make(map[string]float64))
			continue
		}
		m := loadLine.FindSubmatch(line)
		if m == nil || len(loads) == 0 {
			continue
		}
		pct, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			continue
		}
		loads[len(loads)-1][string(m[1])] = pct
	}
	return loads
}
