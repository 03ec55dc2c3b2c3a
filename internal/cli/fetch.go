package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/teamtree/pkg/api"
	pkgio "github.com/matzehuels/teamtree/pkg/io"
)

// fetchCommand creates the fetch command for downloading clustering results.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		baseURL string
		req     api.ClusteringRequest
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a clustering result from the prediction API",
		Long: `Download a clustering result from the prediction API.

The API address and token come from the config file ([api] base_url and
token) or TEAMTREE_API_URL and TEAMTREE_API_TOKEN. Responses are cached;
use --refresh to bypass the cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = c.Config.API.BaseURL
			}
			return c.runFetch(cmd.Context(), baseURL, req, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&req.League, "league", "l", "", "league code, e.g. EPL (required)")
	cmd.Flags().StringVarP(&req.Season, "season", "s", "", "season, e.g. 2024-25 (default: current)")
	cmd.Flags().StringVar(&req.Metric, "metric", "", "feature set the backend clusters on")
	cmd.Flags().StringVarP(&req.Method, "method", "m", "", "linkage method: single, complete, average")
	cmd.Flags().BoolVar(&req.Refresh, "refresh", false, "bypass the response cache")
	cmd.Flags().StringVar(&baseURL, "api-url", "", "prediction API base URL (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <league>[-<season>].clustering.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("league")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, baseURL string, req api.ClusteringRequest, output string, noCache bool) error {
	if err := req.Validate(); err != nil {
		return err
	}

	cc, keyer, err := c.openCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	opts := []api.Option{
		api.WithCache(cc, keyer),
		api.WithLogger(c.Logger),
		api.WithTimeout(c.Config.API.Timeout.Duration),
	}
	if c.Config.API.Token != "" {
		opts = append(opts, api.WithToken(c.Config.API.Token))
	}
	client, err := api.NewClient(baseURL, opts...)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s clustering...", req.League))
	spinner.Start()

	res, err := client.FetchClustering(ctx, req)
	if err != nil {
		spinner.StopWithFailure("Fetch")
		return fmt.Errorf("fetch %s: %w", req.League, err)
	}
	spinner.Stop()

	outputPath := output
	if outputPath == "" {
		name := strings.ToLower(req.League)
		if req.Season != "" {
			name += "-" + req.Season
		}
		outputPath = name + ".clustering.json"
	}
	if err := pkgio.ExportClustering(res, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Fetched clustering from %s", StyleHighlight.Render(client.BaseURL()))
	printKeyValue("League", req.League)
	if req.Season != "" {
		printKeyValue("Season", req.Season)
	}
	printFile(outputPath, fileSize(outputPath))
	printStats(res.LeafCount(), res.MergeCount(), false, 0)
	printNewline()
	printNextStep("Preview", appName+" preview "+outputPath)
	return nil
}
