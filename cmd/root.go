package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/vkterm/internal/app"
	"github.com/zhubert/vkterm/internal/config"
	"github.com/zhubert/vkterm/internal/logger"
	"github.com/zhubert/vkterm/internal/ui"
	"github.com/zhubert/vkterm/internal/vk"
)

var (
	debugMode             bool
	quietMode             bool
	demoMode              bool
	widthFlag             int
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "vkterm",
	Short: "Terminal dashboard for VK messages",
	Long: `vkterm is a terminal client for VK: browse friends and conversations,
see who is online and chat, all from the keyboard.

The access token is read from the TOKEN environment variable or a .env file
in the working directory. Use --demo to try it without an account.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.Flags().BoolVar(&demoMode, "demo", false, "Run against built-in sample data instead of the API")
	rootCmd.Flags().IntVar(&widthFlag, "width", 0, "Display width in columns (overrides TWIDTH)")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("vkterm %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("vkterm %s\n", version)
}

// loadConfig loads the configuration and applies the command line overrides.
// A token is required unless demo is set.
func loadConfig(demo bool, width int) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if width > 0 {
		cfg.Width = width
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if !demo {
		if err := cfg.RequireToken(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newClient returns the API the app talks to.
func newClient(cfg *config.Config, demo bool) vk.API {
	if demo {
		return vk.NewDemoClient()
	}
	return vk.NewClient(cfg.Token,
		vk.WithBaseURL(cfg.APIURL),
		vk.WithVersion(cfg.APIVersion),
	)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(demoMode, widthFlag)
	if err != nil {
		return err
	}

	if cfg.LogPath != "" {
		if err := logger.Init(cfg.LogPath); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
	}
	defer logger.Close()

	logger.WithComponent("cmd").Info("starting", "version", version, "demo", demoMode, "width", cfg.Width)

	m := app.New(ui.Deps{Client: newClient(cfg, demoMode), Config: cfg}, version)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
