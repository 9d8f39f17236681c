package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mgeist/partydeck/internal/web"
)

type config struct {
	bind      string
	port      int
	publicURL string
	players   string
	content   string
	seed      int64
	verbose   bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PARTYDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "partydeck-web",
		Short:         "Shared-screen web frontend for the partydeck party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: PARTYDECK_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: PARTYDECK_PORT)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "URL encoded into the join QR code (env: PARTYDECK_PUBLIC_URL)")
	fs.StringVar(&cfg.players, "players", "", "comma-separated player names; empty waits for POST /api/game (env: PARTYDECK_PLAYERS)")
	fs.StringVar(&cfg.content, "content", "", "path to a content YAML file (env: PARTYDECK_CONTENT)")
	fs.Int64Var(&cfg.seed, "seed", 0, "RNG seed for a reproducible game (env: PARTYDECK_SEED)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: PARTYDECK_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func serve(cfg *config) error {
	logger := logrus.New()
	if cfg.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var names []string
	for _, p := range strings.Split(cfg.players, ",") {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}

	srv, err := web.NewServer(web.Config{
		Addr:        fmt.Sprintf("%s:%d", cfg.bind, cfg.port),
		PublicURL:   cfg.publicURL,
		PlayerNames: names,
		ContentFile: cfg.content,
		Seed:        cfg.seed,
	}, logger)
	if err != nil {
		return err
	}
	return srv.ListenAndServe()
}

func main() {
	cfg := &config{}
	if err := newCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
