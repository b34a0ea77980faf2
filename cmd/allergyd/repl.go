package main

import (
	"github.com/spf13/cobra"

	"github.com/leengari/allergy-lookup/internal/engine"
	"github.com/leengari/allergy-lookup/internal/repl"
	"github.com/leengari/allergy-lookup/internal/storage/manager"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive lookups against the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeFn, err := a.setup()
			if err != nil {
				return err
			}
			defer closeFn()

			store := manager.NewStore(cfg.Dataset.Path, logger)
			_ = store.Load()

			term := repl.NewTerminal()
			defer term.Close()

			return repl.Start(cmd.Context(), term, cmd.OutOrStdout(), store, engine.New(store))
		},
	}
}
