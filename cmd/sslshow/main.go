package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"

	"github.com/chaintuts/sslshow/internal/log"
	"github.com/chaintuts/sslshow/internal/model"

	"github.com/spf13/cobra"
)

var (
	userConfigPath string // /default/config/path/sslshow on given OS
	configPath     string // actual config file used (if loaded)
	config         model.Config
	closeLog       = func() error { return nil }

	flagConfigFilePath string // value of --config flag
	flagVerbose        bool   // value of --verbose flag
	flagOutput         string // value of --output flag
)

func init() {
	if d, err := os.UserConfigDir(); err == nil {
		userConfigPath = filepath.Join(d, "sslshow")
	}

	// root flags
	rootCmd.PersistentFlags().StringVar(&flagConfigFilePath, "config", "", "Config file to load - default is sslshow.yaml in current directory or in "+userConfigPath)
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", model.OutputText, "output format: text or cyclonedx")

	// never print messages
	rootCmd.SilenceErrors = true

	// parse config, setup logging
	rootCmd.PersistentPreRunE = initSSLShow
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return closeLog()
	}

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("sslshow failed", "err", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "sslshow",
	Short:        "Show the certificate a TLS server presents, valid or not",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print build and version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Fprintln(out, "sslshow: version info not available")
			return
		}

		if configPath != "" {
			fmt.Fprintf(out, "config:  %s\n", configPath)
		}
		fmt.Fprintf(out, "sslshow: %s\n", info.Main.Version)
		fmt.Fprintf(out, "go:      %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Fprintf(out, "commit:  %s\n", s.Value)
			case "vcs.time":
				fmt.Fprintf(out, "date:    %s\n", s.Value)
			case "vcs.modified":
				fmt.Fprintf(out, "dirty:   %s\n", s.Value)
			}
		}
	},
}

func initSSLShow(cmd *cobra.Command, _ []string) error {
	configPath = ""
	if envConfig, ok := os.LookupEnv("SSLSHOWCONFIG"); ok {
		configPath = envConfig
	} else if flagConfigFilePath != "" {
		configPath = flagConfigFilePath
	} else {
		for _, d := range []string{userConfigPath, "."} {
			if d == "" {
				continue
			}
			path := filepath.Join(d, "sslshow.yaml")
			if exists(path) {
				configPath = path
				break
			}
		}
	}

	if configPath == "" {
		config = model.DefaultConfig()
	} else {
		f, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("opening config file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		config, err = model.LoadConfig(f)
		if err != nil {
			for _, d := range model.CueErrDetails(err) {
				slog.Error(d.String(), d.Attr("config"))
			}
			return fmt.Errorf("parsing config %s: %w", configPath, err)
		}
	}

	if config.Service == nil {
		config.Service = &model.Service{}
	}
	// flags have a precedence over config file
	if flagVerbose {
		config.Service.Verbose = &flagVerbose
	}
	if cmd.Flags().Changed("output") {
		output := flagOutput
		config.Service.Output = &output
	}

	// initialize logging
	w, closeFn, err := log.Open(config.Service.GetLog())
	if err != nil {
		return err
	}
	closeLog = closeFn
	slog.SetDefault(log.New(w, config.Service.GetVerbose()))

	slog.Debug("sslshow run", "configPath", configPath)
	return nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
