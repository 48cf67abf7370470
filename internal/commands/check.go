package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/scoreleaf/scoreleaf/internal/engine"
	"github.com/scoreleaf/scoreleaf/internal/render"
	"github.com/scoreleaf/scoreleaf/internal/score"
)

// Nominal page geometry for the check dry run. Letter-ish proportions at
// zoom 1 so the band and page counts are stable across terminals.
const (
	checkWidth  = 800.0
	checkHeight = 1000.0
)

func addCheck(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check <score file>",
		Short: "Validate score markup and summarize its contents.",
		Example: `
scoreleaf check night-air.score
`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			report, parseErr := checkReport(args[0], string(data))
			fmt.Print(renderReport(report))
			return parseErr
		},
	}

	topLevel.AddCommand(cmd)
}

// checkReport builds the markdown report for one score file. The report is
// produced for failures too, with the parse error in place of the summary.
func checkReport(path, markup string) (string, error) {
	sc, err := score.Parse(markup)
	if err != nil {
		var pe *score.ParseError
		if errors.As(err, &pe) {
			return fmt.Sprintf("# %s\n\n**Invalid markup.**\n\nLine %d: %s\n", path, pe.Line, pe.Msg), err
		}
		return fmt.Sprintf("# %s\n\n**Invalid markup.**\n\n%s\n", path, err), err
	}

	var beats float64
	for _, m := range sc.Measures {
		beats += m.Beats()
	}
	title := sc.Title
	if title == "" {
		title = "(untitled)"
	}
	report := fmt.Sprintf(`# %s

Valid score markup.

| Field | Value |
| --- | --- |
| Title | %s |
| Composer | %s |
| Tempo | %d |
| Measures | %d |
| Total beats | %.2f |
`, path, title, sc.Composer, sc.Tempo, len(sc.Measures), beats)

	if bands, pages, err := dryRunLayout(markup); err == nil {
		report += fmt.Sprintf(`
Layout at %.0f x %.0f px:

| Metric | Value |
| --- | --- |
| Bands | %d |
| Pages | %d |
`, checkWidth, checkHeight, bands, pages)
	}
	return report, nil
}

// dryRunLayout renders the score at the nominal check geometry and runs the
// pagination over it, so check catches layout problems before the viewer
// opens the file.
func dryRunLayout(markup string) (bands, pages int, err error) {
	eng := render.NewEngraver()
	if err := eng.Load(context.Background(), markup); err != nil {
		return 0, 0, err
	}
	surface, err := eng.Render(checkWidth)
	if err != nil {
		return 0, 0, err
	}
	tun := engine.DefaultTuning()
	scanned := engine.ScanBands(surface.Groups(), engine.Container{
		Width:      checkWidth,
		Height:     checkHeight,
		PixelRatio: 1,
	}, tun)
	starts := engine.ComputeStarts(scanned, checkHeight, tun)
	return len(scanned), len(starts), nil
}

func renderReport(report string) string {
	out, err := glamour.Render(report, "dark")
	if err != nil {
		return report
	}
	return out
}
