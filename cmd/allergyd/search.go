package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	domainerrors "github.com/leengari/allergy-lookup/internal/domain/errors"
	"github.com/leengari/allergy-lookup/internal/engine"
	"github.com/leengari/allergy-lookup/internal/network"
	"github.com/leengari/allergy-lookup/internal/storage/manager"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>...",
		Short: "Run one lookup against the dataset and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeFn, err := a.setup()
			if err != nil {
				return err
			}
			defer closeFn()

			store := manager.NewStore(cfg.Dataset.Path, logger)
			_ = store.Load()

			eng := engine.New(store)
			eng.AddObserver(engine.NewLoggingObserver(logger))
			return runSearch(cmd.Context(), cmd.OutOrStdout(), eng, strings.Join(args, " "))
		},
	}
}

// runSearch prints the same bodies the HTTP API returns. Errors are
// printed and also returned so the process exits non-zero.
func runSearch(ctx context.Context, w io.Writer, eng *engine.Engine, text string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	result, err := eng.Search(ctx, text)
	switch {
	case errors.Is(err, domainerrors.ErrEmptyQuery):
		_ = enc.Encode(map[string]string{"error": network.MsgNoText})
		return err
	case errors.Is(err, domainerrors.ErrDatasetUnavailable):
		_ = enc.Encode(map[string]string{"error": network.MsgDatasetNotLoaded})
		return err
	case err != nil:
		return err
	}

	if result.NoMatches() {
		return enc.Encode(map[string]string{"result": network.MsgNoMatches})
	}
	return enc.Encode(map[string]interface{}{"matches": result.Matches})
}
