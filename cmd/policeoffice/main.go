package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/policeoffice/policeoffice/internal/cliconfig"
	"github.com/policeoffice/policeoffice/pkg/policeoffice"
)

const helpDescription = `
Report failures to a collection endpoint, and keep them in a local JSON log
when the endpoint cannot be reached.

Configuration is read from police-office.json or police-office.toml in the
working directory (or POLICEOFFICE_CONFIG_FROM / POLICEOFFICE_CONFIG_FILE),
then POLICEOFFICE_* environment variables, then flags.
`

var exampleUsage = strings.TrimSpace(`
  policeoffice report --name TimeoutError --message "upstream slow" --field route=/orders
  policeoffice run --rethrow -- ./nightly-job.sh
  policeoffice watch --folder-path /var/lib/myapp
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the flag-backed configuration shared by all subcommands.
type cli struct {
	cfg cliconfig.Config
	log zerolog.Logger
}

// resolve loads the configuration once per invocation with flag precedence.
func (c *cli) resolve(cmd *cobra.Command) (cliconfig.Config, error) {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfg, err := cliconfig.NewLoader(c.cfg, changed).Resolve()
	if err != nil {
		return cliconfig.Config{}, err
	}
	if cfg.ConfigFile != "" {
		c.log.Debug().Str("file", cfg.ConfigFile).Msg("configuration file loaded")
	}
	return cfg, nil
}

// client builds a reporting client from the resolved configuration.
func (c *cli) client(cmd *cobra.Command) (*policeoffice.Client, cliconfig.Config, error) {
	cfg, err := c.resolve(cmd)
	if err != nil {
		return nil, cliconfig.Config{}, err
	}
	client, err := policeoffice.New(cfg.Config,
		policeoffice.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		policeoffice.WithLogger(policeoffice.NewZerologLogger(c.log)),
	)
	if err != nil {
		return nil, cliconfig.Config{}, fmt.Errorf("create client: %w", err)
	}
	return client, cfg, nil
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "policeoffice",
		Short:         "Report failures remotely, falling back to a local JSON log",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.ConfigFile, "config", "", "path to config file (default: search for police-office.json, police-office.toml)")
	flags.StringVar(&c.cfg.API.URL, "api-url", "", "endpoint receiving error reports")
	flags.StringVar(&c.cfg.API.PayloadErrorName, "payload-error-name", "", "payload key holding the error (default \"data\")")
	flags.StringVar(&c.cfg.Logs.FolderPath, "folder-path", "", "base directory of the fallback log (default \"./\")")
	flags.StringVar(&c.cfg.Logs.FolderName, "folder-name", "", "log directory under folder-path (default \"logs\")")
	flags.StringVar(&c.cfg.Logs.FileName, "file-name", "", "log file name without extension (default \"log\")")
	flags.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "HTTP timeout for one report")

	root.AddCommand(
		newReportCommand(c),
		newRunCommand(c),
		newWriteCommand(c),
		newWatchCommand(c),
		newConfigCommand(c),
	)
	return root
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig(), log: cliconfig.Logger()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand(c).ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	c.log.Error().Err(err).Msg("policeoffice")
	os.Exit(1)
}
