package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"labelsync/internal/browser"
	"labelsync/internal/web"
)

var (
	serveAddr   string
	serveAPIURL string
	serveOpen   bool
)

// opener is replaced in tests
var opener browser.Opener = browser.NewOpener()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser form for interactive runs",
	Long: `Start an HTTP server with a form for running a label sync from the browser.

The token and organization are entered in the form and used only for the run
they start; nothing is stored. The run log is streamed to the page as it
happens.

The listen address defaults to LABELSYNC_LISTEN_ADDR or :8080. Use --open to
launch the form in the default browser.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides LABELSYNC_LISTEN_ADDR)")
	serveCmd.Flags().StringVar(&serveAPIURL, "api-url", "", "GitHub REST API base URL (overrides GITHUB_API_URL)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open the form in the default browser once listening")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	apiURL := cfg.GitHub.APIURL
	if serveAPIURL != "" {
		apiURL = serveAPIURL
	}

	srv, err := web.NewServer(addr, web.NewClientFactory(apiURL))
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	url := browser.LocalURL(ln.Addr())
	fmt.Fprintf(cmd.OutOrStdout(), "🌐 Serving labelsync on %s\n", url)

	if serveOpen {
		if err := opener.Open(url); err != nil {
			pslog.Ctx(cmd.Context()).Warn("could not open browser", "url", url, "err", err)
		}
	}

	return web.Serve(cmd.Context(), srv, ln)
}
