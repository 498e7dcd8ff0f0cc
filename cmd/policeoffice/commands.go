package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/policeoffice/policeoffice/internal/domain"
	"github.com/policeoffice/policeoffice/internal/watch"
	"github.com/policeoffice/policeoffice/pkg/policeoffice"
)

func newReportCommand(c *cli) *cobra.Command {
	var (
		props  policeoffice.ErrorProperties
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report a single error",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.client(cmd)
			if err != nil {
				return err
			}
			props.Fields, err = parseFields(fields)
			if err != nil {
				return err
			}
			res, err := client.Catch(cmd.Context(), props)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&props.Name, "name", "Error", "error name")
	cmd.Flags().StringVar(&props.Message, "message", "", "error message")
	cmd.Flags().StringVar(&props.Stack, "stack", "", "stack trace")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "extra context as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newRunCommand(c *cli) *cobra.Command {
	var (
		rethrow bool
		fields  []string
	)

	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a command and report a failing exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.client(cmd)
			if err != nil {
				return err
			}
			ctxFields, err := parseFields(fields)
			if err != nil {
				return err
			}
			if ctxFields == nil {
				ctxFields = map[string]any{}
			}
			ctxFields["command"] = strings.Join(args, " ")

			var opts []policeoffice.GuardOption
			if rethrow {
				opts = append(opts, policeoffice.WithRethrow())
			}

			_, err = policeoffice.TryCatch(cmd.Context(), client, func(ctx context.Context) (struct{}, error) {
				proc := exec.CommandContext(ctx, args[0], args[1:]...)
				proc.Stdin = os.Stdin
				proc.Stdout = cmd.OutOrStdout()
				proc.Stderr = cmd.ErrOrStderr()

				err := proc.Run()
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) {
					ctxFields["exit_code"] = exitErr.ExitCode()
				}
				return struct{}{}, err
			}, ctxFields, opts...)
			return err
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&rethrow, "rethrow", false, "exit with the command's status after reporting")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "extra context as key=value (repeatable)")
	return cmd
}

func newWriteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "write <path> <value>",
		Short: "Merge a JSON value into a file, or append a line to a non-JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.client(cmd)
			if err != nil {
				return err
			}
			got, err := client.Write(cmd.Context(), parseValue(args[1]), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), got)
		},
	}
}

func newWatchCommand(c *cli) *cobra.Command {
	var fromStart bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the fallback log and print new entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.client(cmd)
			if err != nil {
				return err
			}
			path, err := client.LogPath()
			if err != nil {
				return err
			}

			c.log.Info().Str("file", path).Msg("watching fallback log")
			f := watch.NewFollower(path, policeoffice.NewZerologLogger(c.log))
			f.FromStart = fromStart
			return f.Run(cmd.Context(), func(entry any) {
				m, ok := entry.(map[string]any)
				if !ok {
					c.log.Warn().Interface("entry", entry).Msg("unrecognised entry")
					return
				}
				c.log.Warn().
					Interface("when", m["when"]).
					Interface("error", m["error"]).
					Msgf("%v", m["message"])
			})
		},
	}

	cmd.Flags().BoolVar(&fromStart, "from-start", false, "print entries already in the log")
	return cmd
}

func newConfigCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := c.client(cmd)
			if err != nil {
				return err
			}
			path, err := client.LogPath()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"config_file":  cfg.ConfigFile,
				"api":          cfg.API,
				"logs":         cfg.Logs,
				"http_timeout": cfg.HTTPTimeout.String(),
				"log_path":     path,
			})
		},
	}
}

// parseFields turns key=value pairs into context fields. Values that are
// valid JSON keep their type; anything else is a string.
func parseFields(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q: want key=value", p)
		}
		fields[k] = parseValue(v)
	}
	return fields, nil
}

func parseValue(s string) any {
	v, err := domain.DecodeJSON([]byte(s))
	if err != nil {
		return s
	}
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
