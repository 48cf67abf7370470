package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoreleaf/scoreleaf/internal/config"
)

func addInit(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "init [scores directory]",
		Short: "Create the scoreleaf configuration.",
		Example: `
scoreleaf init
scoreleaf init ~/music/scores
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			} else {
				var err error
				dir, err = config.DefaultScoresDir()
				if err != nil {
					return err
				}
			}

			cfg := config.Config{ScoresDir: dir}
			if existing, err := config.Load(); err == nil {
				// Keep tuning and zoom settings a user already saved.
				existing.ScoresDir = dir
				cfg = existing
			}
			if err := config.Save(cfg); err != nil {
				return err
			}

			saved, err := config.Load()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(saved.ScoresDir, 0o755); err != nil {
				return fmt.Errorf("create scores dir: %w", err)
			}
			fmt.Printf("scores directory: %s\n", saved.ScoresDir)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
