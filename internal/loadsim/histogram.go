package loadsim

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"ringrouter/internal/ring"
)

const histogramDisplayWidth = 50

// ErrNoHosts is returned by Summary when no key was routed to any host.
var ErrNoHosts = errors.New("no routed hosts")

// Histogram is the number of keys routed to each host.
type Histogram struct {
	Total    int
	Unrouted int
	Counts   map[string]int // host -> keys
}

// Summary describes the spread of per-host key counts.
type Summary struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

// Hosts returns the hosts that received keys, sorted by name.
func (h *Histogram) Hosts() []string {
	hosts := make([]string, 0, len(h.Counts))
	for host := range h.Counts {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// Load returns the percentage of all keys routed to host.
func (h *Histogram) Load(host string) float64 {
	if h.Total == 0 {
		return 0
	}
	return float64(h.Counts[host]) / float64(h.Total) * 100
}

// Summary computes statistics over the per-host counts.
func (h *Histogram) Summary() (Summary, error) {
	if len(h.Counts) == 0 {
		return Summary{}, ErrNoHosts
	}

	var data stats.Float64Data
	for _, host := range h.Hosts() {
		data = append(data, float64(h.Counts[host]))
	}

	var (
		s   Summary
		err error
	)
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = data.StandardDeviationPopulation(); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// ExpectedLoad returns each host's weight share of the ring as a
// percentage. Hosts of weight 0 still own one replica, so their share is
// reported as 0 here.
func ExpectedLoad(hosts []ring.Host) map[string]float64 {
	expected := make(map[string]float64, len(hosts))
	sum := 0.0
	for _, h := range hosts {
		sum += h.Weight
	}
	for _, h := range hosts {
		if sum == 0 {
			expected[h.Name] = 100 / float64(len(hosts))
			continue
		}
		expected[h.Name] = h.Weight / sum * 100
	}
	return expected
}

// Fprint writes the histogram with one bar per host. expected may be nil.
func (h *Histogram) Fprint(w io.Writer, expected map[string]float64) error {
	if _, err := fmt.Fprintln(w, "Histogram:"); err != nil {
		return err
	}
	for _, host := range h.Hosts() {
		load := h.Load(host)
		bar := strings.Repeat("#", int(load/100*histogramDisplayWidth))
		line := fmt.Sprintf("server: %s, load: %.2f%%", host, load)
		if want, ok := expected[host]; ok {
			line += fmt.Sprintf(" (expected %.2f%%)", want)
		}
		if _, err := fmt.Fprintf(w, "%-60s %s\n", line, bar); err != nil {
			return err
		}
	}
	if h.Unrouted > 0 {
		if _, err := fmt.Fprintf(w, "unrouted: %d\n", h.Unrouted); err != nil {
			return err
		}
	}

	s, err := h.Summary()
	if errors.Is(err, ErrNoHosts) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\nSummary:\nMin: %.0f\nMax: %.0f\nMean: %.2f\nMedian: %.0f\nStandard deviation: %.2f\nTotal keys: %d\n",
		s.Min, s.Max, s.Mean, s.Median, s.StdDev, h.Total)
	return err
}
