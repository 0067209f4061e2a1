package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rushteam/admitkit/table"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Load the cutoff table from file and store it as a snapshot",
	Long:  "Reads the configured CSV/XLSX table and writes it to the configured store, so other processes can load it with table.source=store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if cfg.Table.Source == table.KindStore {
			return eris.New("snapshot: table.source must be a file (csv or xlsx)")
		}

		env, err := initEnv(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer env.Close()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := table.SaveSnapshot(ctx, st, cfg.Table.Key, env.Table, cfg.Store.TTLSecs); err != nil {
			return err
		}
		zap.L().Info("snapshot saved",
			zap.String("store", st.Name()),
			zap.String("key", cfg.Table.Key),
			zap.Int("rows", env.Table.Len()),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
