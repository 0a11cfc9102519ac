package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/config"
	"github.com/meenmo/ratecurve/marketdata"
	"github.com/meenmo/ratecurve/metrics"
	"github.com/meenmo/ratecurve/piecewise"
)

type app struct {
	stdout, stderr io.Writer

	configPath  string
	verbose     bool
	showMetrics bool

	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Bootstrap
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ratecurve",
		Short:         "Bootstrap yield curves from a YAML market definition",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./config/ratecurve.yaml or ~/.ratecurve/ratecurve.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log every solved pillar")
	pf.BoolVar(&a.showMetrics, "metrics", false, "print bootstrap metrics in the Prometheus text format on exit")

	root.AddCommand(a.buildCmd(), a.repriceCmd(), a.shockCmd(), a.priceCmd(), a.versionCmd())
	return root
}

func (a *app) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFromFile(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	config.SetConfig(*cfg)

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return fmt.Errorf("logging.format: unknown format %q", cfg.Logging.Format)
	}
	a.logger = zap.New(zapcore.NewCore(enc, zapcore.AddSync(a.stderr), level))

	if a.showMetrics || cfg.Metrics.Enabled {
		a.showMetrics = true
		a.registry = prometheus.NewRegistry()
		if a.metrics, err = metrics.New(a.registry); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if !a.showMetrics || a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.stdout, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// load builds the market of a definition file. Curves are bootstrapped on first use.
func (a *app) load(path string) (*marketdata.Market, error) {
	if path == "" {
		return nil, fmt.Errorf("a market definition is required (-f)")
	}
	f, err := marketdata.Load(path)
	if err != nil {
		return nil, err
	}
	return marketdata.Build(f, marketdata.WithLogger(a.logger), marketdata.WithMetrics(a.metrics))
}

// selected returns the named curves, or every curve when names is empty.
func selected(m *marketdata.Market, names []string) ([]string, []*piecewise.Curve, error) {
	if len(names) == 0 {
		names = m.Names()
	}
	curves := make([]*piecewise.Curve, len(names))
	for i, name := range names {
		c, err := m.Curve(name)
		if err != nil {
			return nil, nil, err
		}
		curves[i] = c
	}
	return names, curves, nil
}

// tenorDates resolves tenors such as 1Y or 18M from a reference date.
func tenorDates(ref time.Time, tenors []string) ([]time.Time, error) {
	dates := make([]time.Time, len(tenors))
	for i, s := range tenors {
		p, err := calendar.ParsePeriod(s)
		if err != nil {
			return nil, err
		}
		dates[i] = p.AddTo(ref)
	}
	return dates, nil
}
