package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"ringrouter/internal/config"
	"ringrouter/internal/loadsim"
	"ringrouter/internal/ring"
)

var version = "undefined"

// flags holds command-line overrides. Zero values mean "not given".
type flags struct {
	configPath string
	replicas   int
	requests   int
	keyLength  int
	seed       int64
	workers    int
	hosts      string
	remove     []string
	logLevel   string
}

func main() {
	var f flags
	app := kingpin.New("ringsim", "Route random keys over a weighted consistent hashing ring and print the load per host.")
	app.Version(version)
	app.Flag("config", "TOML file with simulation settings").StringVar(&f.configPath)
	app.Flag("replicas", "Replicas for a host of weight 1.0 (1-256)").IntVar(&f.replicas)
	app.Flag("requests", "Number of random keys to route").IntVar(&f.requests)
	app.Flag("key-length", "Length of each random key").IntVar(&f.keyLength)
	app.Flag("seed", "Random seed for key generation (0 seeds from the clock)").Int64Var(&f.seed)
	app.Flag("workers", "Concurrent routing workers").IntVar(&f.workers)
	app.Flag("hosts", "Hosts as name=weight,name=weight").StringVar(&f.hosts)
	app.Flag("remove", "Host to remove after the first pass; repeatable").StringsVar(&f.remove)
	app.Flag("log-level", "Log level").Default(log.InfoLevel.String()).EnumVar(&f.logLevel, "debug", "info", "warn", "error")

	if _, err := app.Parse(os.Args[1:]); err != nil {
		app.Fatalf("%s", err)
	}

	lvl, err := log.ParseLevel(f.logLevel)
	if err != nil {
		app.Fatalf("could not parse log level %q", f.logLevel)
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)

	cfg, err := buildConfig(f)
	if err != nil {
		app.Fatalf("%s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log.StandardLogger(), os.Stdout); err != nil {
		log.Fatalf("Simulation failed: %s", err)
	}
}

// buildConfig layers flags over the config file over the defaults.
func buildConfig(f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.replicas != 0 {
		cfg.BaseReplicas = f.replicas
	}
	if f.requests != 0 {
		cfg.Requests = f.requests
	}
	if f.keyLength != 0 {
		cfg.KeyLength = f.keyLength
	}
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	if f.hosts != "" {
		hosts, err := config.ParseHosts(f.hosts)
		if err != nil {
			return nil, err
		}
		cfg.Hosts = hosts
	}
	if len(f.remove) > 0 {
		cfg.Remove = f.remove
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, out io.Writer) error {
	router, err := ring.NewRouter(cfg.BaseReplicas, ring.WithLogger(logger))
	if err != nil {
		return err
	}

	for _, h := range cfg.Hosts {
		if err := router.Add(h.Name, h.Weight); err != nil {
			logger.WithError(err).WithField("host", h.Name).Warn("Failed to add host")
			continue
		}
		logger.WithFields(log.Fields{
			"host":     h.Name,
			"weight":   h.Weight,
			"replicas": ring.ReplicaCount(cfg.BaseReplicas, h.Weight),
		}).Info("Added host")
	}
	logger.WithField("positions", router.Len()).Debug("Ring ready")

	keys := loadsim.NewKeyGenerator(cfg.KeyLength, cfg.Seed).Keys(cfg.Requests)
	hist, err := loadsim.Run(ctx, router, keys, cfg.Workers)
	if err != nil {
		return err
	}
	if err := hist.Fprint(out, loadsim.ExpectedLoad(router.Hosts())); err != nil {
		return err
	}

	if len(cfg.Remove) == 0 {
		return nil
	}

	before := loadsim.Assign(router, keys)
	for _, name := range cfg.Remove {
		if err := router.Remove(name); err != nil {
			logger.WithError(err).WithField("host", name).Warn("Failed to remove host")
			continue
		}
		logger.WithField("host", name).Info("Removed host")
	}
	after := loadsim.Assign(router, keys)

	d := loadsim.Compare(before, after, cfg.Remove)
	if _, err := fmt.Fprintf(out, "\nRemoved: %v\nKeys moved: %d of %d (%.2f%%)\nKeys moved off surviving hosts: %d\n\n",
		cfg.Remove, d.Moved, d.Total, d.Fraction()*100, d.Unexpected); err != nil {
		return err
	}

	hist, err = loadsim.Run(ctx, router, keys, cfg.Workers)
	if err != nil {
		return err
	}
	return hist.Fprint(out, loadsim.ExpectedLoad(router.Hosts()))
}
