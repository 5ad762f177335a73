package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/procdeck/internal/server"
	"github.com/matzehuels/procdeck/pkg/buildinfo"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	uploadDir string
	noCache   bool
}

// serveCommand creates the command running the web front end.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload and download front end",
		Long: `Serve accepts table uploads over HTTP, renders them with every policy and
offers the combined document for download. It runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.serverConfig()
			if cmd.Flags().Changed("addr") {
				cfg.Addr = opts.addr
			}
			if cmd.Flags().Changed("upload-dir") {
				cfg.UploadDir = opts.uploadDir
			}

			runner, release, err := c.newRunner(ctx, c.Config.PipelineOptions(), opts.noCache)
			if err != nil {
				return err
			}
			defer release()

			logger := loggerFromContext(ctx)
			logger.Debug("starting server", "build", buildinfo.Get().String())
			srv, err := server.New(cfg, runner, logger)
			if err != nil {
				return err
			}
			printInfo("Serving on http://%s", srv.Addr())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.uploadDir, "upload-dir", "uploads", "directory for uploads and their outputs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the tagger cache")

	return cmd
}
