package graphquery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	gq "github.com/soundprediction/graphquery"
	"github.com/soundprediction/graphquery/pkg/config"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a single question and print the result as JSON",
	Long: `Answer a single natural language question against the knowledge graph
and print the ranked results as JSON to stdout.

Example:
  graphquery query "How is Acme Corp related to Globex Inc?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().String("db-uri", "", "Neo4j URI (bolt://host:port)")
	queryCmd.Flags().String("db-username", "", "Neo4j username")
	queryCmd.Flags().String("db-password", "", "Neo4j password")
	queryCmd.Flags().String("db-database", "", "Neo4j database name")
	queryCmd.Flags().Int("max-hops", 0, "Maximum path search depth (1-5)")
	queryCmd.Flags().Int("result-limit", 0, "Maximum ranked results (1-100)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("db-uri"); v != "" {
		cfg.Database.URI = v
	}
	if v, _ := cmd.Flags().GetString("db-username"); v != "" {
		cfg.Database.Username = v
	}
	if v, _ := cmd.Flags().GetString("db-password"); v != "" {
		cfg.Database.Password = v
	}
	if v, _ := cmd.Flags().GetString("db-database"); v != "" {
		cfg.Database.Database = v
	}
	if v, _ := cmd.Flags().GetInt("max-hops"); v != 0 {
		cfg.Query.MaxHops = v
	}
	if v, _ := cmd.Flags().GetInt("result-limit"); v != 0 {
		cfg.Query.ResultLimit = v
	}
	cfg.Query = cfg.Query.Clamped()

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	store, err := newStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to graph store: %w", err)
	}
	defer store.Close(context.Background())

	client := gq.NewClient(store, cfg.Query, logger)
	response, err := client.Query(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(response)
}
