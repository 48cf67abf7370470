package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/scoreleaf/scoreleaf/internal/config"
	"github.com/scoreleaf/scoreleaf/internal/score"
	"github.com/scoreleaf/scoreleaf/internal/store"
)

type scoreRow struct {
	title    string
	composer string
	measures int
	file     string
	lastRead string
}

func addList(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the scores in the configured library.",
		Example: `
scoreleaf list
`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return errors.New("no scores directory configured, run `scoreleaf init` first")
				}
				return err
			}
			rows, err := collectScores(cfg.ScoresDir)
			if err != nil {
				return err
			}
			printScores(cfg.ScoresDir, rows)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

// collectScores parses every .score file under dir. Unparseable files are
// listed with an error marker rather than failing the whole listing.
func collectScores(dir string) ([]scoreRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scores dir: %w", err)
	}

	var positions *store.Store
	if base, err := store.DefaultBasePath(); err == nil {
		positions = store.Open(base)
	}

	var rows []scoreRow
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".score") {
			continue
		}
		row := scoreRow{file: entry.Name(), lastRead: "-"}
		if positions != nil {
			if pos, err := positions.Lookup(filepath.Join(dir, entry.Name())); err == nil {
				row.lastRead = fmt.Sprintf("p.%d", pos.Page+1)
			}
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err == nil {
			if sc, perr := score.Parse(string(data)); perr == nil {
				row.title = sc.Title
				row.composer = sc.Composer
				row.measures = len(sc.Measures)
			} else {
				row.title = "(invalid)"
			}
		}
		if row.title == "" {
			row.title = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		}
		rows = append(rows, row)
	}

	// Titles sort by locale-aware collation so accented composers' work
	// lands where a reader expects it.
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		return c.CompareString(rows[i].title, rows[j].title) < 0
	})
	return rows, nil
}

func printScores(dir string, rows []scoreRow) {
	heading := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)

	_, _ = heading.Println("Scores")
	_, _ = faint.Println(dir)
	if len(rows) == 0 {
		_, _ = faint.Println("  none")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("TITLE", "COMPOSER", "MEASURES", "LAST READ", "FILE")
	for _, r := range rows {
		tbl.AddRow(r.title, r.composer, fmt.Sprintf("%d", r.measures), r.lastRead, r.file)
	}
	fmt.Println(tbl)
}
