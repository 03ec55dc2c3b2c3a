package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	tterrors "github.com/matzehuels/teamtree/pkg/errors"
	pkgio "github.com/matzehuels/teamtree/pkg/io"
	"github.com/matzehuels/teamtree/pkg/linkage"
)

// clusterCommand creates the cluster command for clustering team statistics.
func (c *CLI) clusterCommand() *cobra.Command {
	var (
		output      string
		method      string
		standardize bool
	)

	cmd := &cobra.Command{
		Use:   "cluster [teams.json]",
		Short: "Cluster team statistics into a dendrogram",
		Long: `Cluster team statistics into a dendrogram.

The input lists teams with a feature vector each (JSON or YAML):

  {"teams": [{"name": "Arsenal", "features": [2.1, 0.8, 61.2]}, ...]}

The output is a clustering result (icoord, dcoord, ivl, leaves) that the
layout, render and preview commands accept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCluster(cmd.Context(), args[0], output, method, standardize)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.clustering.json)")
	cmd.Flags().StringVarP(&method, "method", "m", string(linkage.Average), "linkage method: single, complete, average")
	cmd.Flags().BoolVar(&standardize, "standardize", true, "scale every feature to zero mean and unit variance")

	return cmd
}

func (c *CLI) runCluster(ctx context.Context, input, output, methodName string, standardize bool) error {
	if err := tterrors.ValidatePath(input); err != nil {
		return err
	}
	method, err := linkage.ParseMethod(methodName)
	if err != nil {
		return tterrors.Wrap(tterrors.ErrCodeInvalidMethod, err, "%v", err)
	}

	teams, err := pkgio.ImportTeams(input)
	if err != nil {
		return fmt.Errorf("load teams %s: %w", input, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	prog := newProgress(c.Logger)
	res, _, err := linkage.Cluster(teams, linkage.Options{Method: method, Standardize: standardize})
	if err != nil {
		return fmt.Errorf("cluster: %w", err)
	}
	prog.done(fmt.Sprintf("Clustered %d teams using %s linkage", len(teams), method))

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".clustering.json"
	}
	if err := pkgio.ExportClustering(res, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Clustering complete")
	printFile(outputPath, fileSize(outputPath))
	printStats(res.LeafCount(), res.MergeCount(), false, 0)
	printNewline()
	printNextStep("Lay out", appName+" layout "+outputPath)
	return nil
}
