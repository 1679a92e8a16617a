package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rift-labs-inc/vkey"
)

const CACHE_DIR_ENV = "VKEY_CACHE_DIR"

func defaultCacheDir() string {
	if dir := os.Getenv(CACHE_DIR_ENV); dir != "" {
		return dir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hypernode-vkey")
}

func newCommand() *cobra.Command {
	var elfPath, cacheDir, logLevel, vkOut string
	var progress bool

	cmd := &cobra.Command{
		Use:           "vkey",
		Short:         "Print the verification key of the hypernode program",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vkey.SetupLogger(cmd.ErrOrStderr(), logLevel); err != nil {
				return err
			}
			src := vkey.DefaultSource
			if elfPath != "" {
				src = vkey.File(elfPath)
			}
			cfg := vkey.SetupConfig{CacheDir: cacheDir}
			if progress {
				cfg.Progress = cmd.ErrOrStderr()
			}
			setup := vkey.NewSetup(cfg)
			if vkOut != "" {
				setup = vkey.WithVerifyingKeyFile(setup, vkOut)
			}
			return vkey.Run(cmd.OutOrStdout(), src, setup)
		},
	}

	cmd.Flags().StringVar(&elfPath, "elf", "", "Path to the program ELF (default: embedded program)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", defaultCacheDir(), "Directory caching generated SRS files, empty to disable (env "+CACHE_DIR_ENV+")")
	cmd.Flags().StringVar(&logLevel, "log-level", os.Getenv(vkey.LOG_ENV), "Diagnostic log level (env "+vkey.LOG_ENV+")")
	cmd.Flags().StringVar(&vkOut, "vk-out", "", "Also write the binary verifying key to this file")
	cmd.Flags().BoolVar(&progress, "progress", true, "Show progress while generating the SRS")

	return cmd
}

// run executes the command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
