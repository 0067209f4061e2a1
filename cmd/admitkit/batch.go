package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/matcher"
)

var batchInput string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many queries from a YAML file",
	Long:  "Reads a list of queries from a YAML (or JSON) file, runs them concurrently and prints one outcome per query in input order.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		queries, err := readQueries(batchInput)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer env.Close()
		defer env.logMetrics()

		timeout := time.Duration(cfg.Batch.TimeoutSecs) * time.Second
		outcomes, err := runBatch(ctx, env.Matcher, queries, cfg.Batch.Concurrency, timeout)
		if err != nil {
			return err
		}
		return writeJSON(os.Stdout, outcomes)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "queries.yaml", "query file")
	rootCmd.AddCommand(batchCmd)
}

// batchFile 是批量查询文件格式：
//
//	queries:
//	  - {rank: "4000", category: OC, gender: male, branch: CSE, max_results: "5"}
type batchFile struct {
	Queries []core.RawQuery `yaml:"queries"`
}

func readQueries(path string) ([]core.RawQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: read input")
	}
	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "batch: parse input")
	}
	return f.Queries, nil
}

// runBatch 并发执行查询，输出顺序与输入一致。每个查询都有自己的超时。
func runBatch(ctx context.Context, m *matcher.Matcher, queries []core.RawQuery, concurrency int, timeout time.Duration) ([]matcher.Outcome, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	zap.L().Info("processing batch",
		zap.Int("queries", len(queries)),
		zap.Int("concurrency", concurrency),
	)

	outcomes := make([]matcher.Outcome, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			qctx := gctx
			if timeout > 0 {
				var cancel context.CancelFunc
				qctx, cancel = context.WithTimeout(gctx, timeout)
				defer cancel()
			}
			outcomes[i] = m.Match(qctx, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
