// Package cmd implements the cfdate command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/config"
	"github.com/blockberries/cfdate/convert"
	cfdategrpc "github.com/blockberries/cfdate/grpc"
	"github.com/blockberries/cfdate/local"
	"github.com/blockberries/cfdate/server"
	"github.com/blockberries/cfdate/types"
)

var (
	cfgFile    string
	verbose    bool
	remoteAddr string

	appConfig *config.Config
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cfdate",
	Short: "Calendar-aware conversion of numeric time offsets",
	Long: `cfdate converts numeric offsets counted in seconds, minutes, hours
or days since an epoch into dates under CF calendars, rounded to the
nearest whole second.

Conversions run in-process unless --remote names a cfdate server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./cfdate.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&remoteAddr, "remote", "", "address of a cfdate gRPC server")
}

func setup() error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if verbose {
		appConfig.Log.Level = "debug"
	}
	logger, err = appConfig.Log.Logger(os.Stderr)
	return err
}

// connect opens the connection conversion commands run against.
func connect(ctx context.Context) (cfdate.Connection, error) {
	if remoteAddr != "" {
		return cfdategrpc.Dial(ctx, remoteAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conv := convert.New(convert.WithWorkers(appConfig.Convert.Workers))
	return local.NewConnection(conv,
		server.WithLogger(logger),
		server.WithMaxElements(appConfig.Server.MaxElements),
	), nil
}

// unitFlags adds --calendar, --resolution and --epoch to c. Unset
// flags fall back to the [defaults] config section.
func unitFlags(c *cobra.Command) {
	c.Flags().String("calendar", "", "calendar name, e.g. standard, 360_day, noleap")
	c.Flags().String("resolution", "", "seconds, minutes, hours or days")
	c.Flags().String("epoch", "", "epoch as Y-M-D[ h:m[:s]]")
}

func unitFromFlags(c *cobra.Command) (types.TimeUnit, error) {
	d := appConfig.Defaults
	if v, _ := c.Flags().GetString("calendar"); v != "" {
		d.Calendar = v
	}
	if v, _ := c.Flags().GetString("resolution"); v != "" {
		d.Resolution = v
	}
	if v, _ := c.Flags().GetString("epoch"); v != "" {
		d.Epoch = v
	}
	return d.Unit()
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
