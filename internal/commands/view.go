package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scoreleaf/scoreleaf/internal/app"
	"github.com/scoreleaf/scoreleaf/internal/config"
)

func addView(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "view <score file>",
		Short: "Open a score in the paged viewer.",
		Example: `
scoreleaf view night-air.score
scoreleaf view ~/scores/night-air.score
`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runView(args[0])
		},
	}

	topLevel.AddCommand(cmd)
}

// runView resolves the score path against the configured scores directory
// and opens the viewer. A missing config is fine; viewing works with
// defaults.
func runView(path string) error {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return err
	}
	return app.Run(cfg, resolveScorePath(cfg, path))
}

// resolveScorePath tries the path as given, then relative to the scores
// directory. The original path wins ties so `scoreleaf view ./x.score`
// always means the local file.
func resolveScorePath(cfg config.Config, path string) string {
	if _, err := os.Stat(path); err == nil || cfg.ScoresDir == "" {
		return path
	}
	inLibrary := filepath.Join(cfg.ScoresDir, path)
	if _, err := os.Stat(inLibrary); err == nil {
		return inLibrary
	}
	return path
}
