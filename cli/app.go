// Package cli contains the bounds command line application: fitting bounding volumes to point clouds
// and querying files of packed volume records.
package cli

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"go.viam.com/bounds/config"
	"go.viam.com/bounds/logging"
)

const (
	// Flags.
	generalFlagDebug   = "debug"
	generalFlagConfig  = "config"
	generalFlagLogFile = "log-file"

	fitFlagInput  = "input"
	fitFlagOutput = "output"
	fitFlagJSON   = "json"

	cullFlagVolumes = "volumes"

	metadataKey = "bounds"
)

type appState struct {
	logger logging.Logger
	debug  bool
}

func stateOf(c *cli.Context) *appState {
	return c.App.Metadata[metadataKey].(*appState)
}

// readConfig loads the file named by --config, searching from the command up to the app, or returns
// the defaults. The configured log level applies unless --debug was given.
func readConfig(c *cli.Context) (*config.Config, error) {
	state := stateOf(c)
	path := lineageString(c, generalFlagConfig)
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.Read(path, state.logger)
	if err != nil {
		return nil, err
	}
	if !state.debug {
		state.logger.SetLevel(cfg.LogLevel())
	}
	return cfg, nil
}

// lineageString returns the value of the innermost context that explicitly set the flag.
func lineageString(c *cli.Context, name string) string {
	for _, ctx := range c.Lineage() {
		for _, set := range ctx.LocalFlagNames() {
			if set == name {
				return ctx.String(name)
			}
		}
	}
	return ""
}

func newConfigFlag() cli.Flag {
	return &cli.PathFlag{
		Name:    generalFlagConfig,
		Aliases: []string{"c"},
		Usage:   "load configuration from `FILE`",
	}
}

// NewApp returns the bounds application writing results to out and logs to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "bounds",
		Usage:     "fit and query bounding volumes of point clouds",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			newConfigFlag(),
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.PathFlag{
				Name:  generalFlagLogFile,
				Usage: "also write logs to `FILE`, rotated by size",
			},
		},
		Before: func(c *cli.Context) error {
			state := &appState{debug: c.Bool(generalFlagDebug)}
			level := logging.INFO
			if state.debug {
				level = logging.DEBUG
			}
			ws := zapcore.AddSync(c.App.ErrWriter)
			if path := c.Path(generalFlagLogFile); path != "" {
				ws = zapcore.NewMultiWriteSyncer(ws, logging.NewRotatingFileWriter(path))
			}
			state.logger = logging.NewWriterLogger("bounds", level, ws)
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]interface{}{}
			}
			c.App.Metadata[metadataKey] = state
			return nil
		},
		After: func(c *cli.Context) error {
			if state, ok := c.App.Metadata[metadataKey].(*appState); ok {
				//nolint:errcheck
				state.logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "fit",
				Usage:     "fit bounding volumes to a point cloud",
				UsageText: "bounds fit --input FILE [--config FILE] [--output FILE.bvd] [--json]",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:     fitFlagInput,
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "point cloud `FILE` (.las, ascii .ply or .pcd)",
					},
					&cli.PathFlag{
						Name:    fitFlagOutput,
						Aliases: []string{"o"},
						Usage:   "append the packed record to `FILE`",
					},
					&cli.BoolFlag{
						Name:  fitFlagJSON,
						Usage: "print json instead of a table",
					},
				},
				Action: FitAction,
			},
			{
				Name:      "inspect",
				Usage:     "print every record of a volumes file",
				ArgsUsage: "FILE.bvd",
				Action:    InspectAction,
			},
			{
				Name:      "intersect",
				Usage:     "test every pair of records in a volumes file",
				ArgsUsage: "FILE.bvd",
				Action:    IntersectAction,
			},
			{
				Name:      "cull",
				Usage:     "classify every record against the configured camera frustum",
				UsageText: "bounds cull --volumes FILE.bvd --config FILE",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:     cullFlagVolumes,
						Required: true,
						Usage:    "volumes `FILE`",
					},
					newConfigFlag(),
				},
				Action: CullAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the config file",
				Action: SchemaAction,
			},
		},
	}
}

// SchemaAction prints the config file schema.
func SchemaAction(c *cli.Context) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(config.Schema())
}

func singleFileArg(c *cli.Context) (string, error) {
	if c.Args().Len() != 1 {
		return "", errors.Errorf("%s expects exactly one volumes file, got %d arguments", c.Command.Name, c.Args().Len())
	}
	return c.Args().First(), nil
}
