package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parlo-app/parlo/go/pkg/analysis"
	"github.com/parlo-app/parlo/go/pkg/cli"
	"github.com/parlo-app/parlo/go/pkg/mediastore"
	"github.com/parlo-app/parlo/go/pkg/practice"
)

var (
	renderWidth int
	renderStart float64
	renderEnd   float64
	renderPitch bool
)

var renderCmd = &cobra.Command{
	Use:   "render <clip>",
	Short: "Draw a clip's envelope in the terminal",
	Long: `Decode a clip and draw its loudness envelope as a sparkline, one
column per envelope point. With --pitch a second line tracks the voiced
pitch contour.

Examples:
  parlo render clip.mp3 --width 100
  parlo render clip.mp3 --start 12.5 --end 14.2 --pitch`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.IntVar(&renderWidth, "width", 80, "columns to draw")
	f.Float64Var(&renderStart, "start", -1, "region start in seconds")
	f.Float64Var(&renderEnd, "end", -1, "region end in seconds")
	f.BoolVar(&renderPitch, "pitch", false, "draw the pitch contour too")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	clip := args[0]
	data, err := os.ReadFile(clip)
	if err != nil {
		return fmt.Errorf("read clip: %w", err)
	}

	session := practice.Session{
		Media: mediastore.Source{MediaID: filepath.Base(clip), Data: data},
		Envelope: analysis.EnvelopeOptions{
			Points:          renderWidth,
			Strategy:        analysis.StrategyHybrid,
			EnhanceContrast: true,
		},
		Pitch: renderPitch,
	}
	if renderStart >= 0 && renderEnd > renderStart {
		session.Region = practice.Region{Active: true, Start: renderStart, End: renderEnd}
	}

	engine := practice.NewEngine(practice.Config{Logger: newLogger()})
	res, err := engine.Analyze(cmd.Context(), session)
	if err != nil {
		return err
	}
	ref := res.Reference

	styles := cli.NewStyles(cli.DefaultTheme)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, styles.Label.Render(fmt.Sprintf("%s  %s  %s  %d points",
		filepath.Base(clip), cli.FormatSeconds(ref.Duration),
		cli.FormatBytes(int64(len(data))), len(ref.Envelope))))

	amps := make([]float64, len(ref.Envelope))
	for i, p := range ref.Envelope {
		amps[i] = p.Amp
	}
	fmt.Fprintln(out, styles.Bar.Render(cli.Sparkline(amps)))

	if renderPitch {
		line, summary := cli.PitchContour(ref.Pitch)
		if line != "" {
			fmt.Fprintln(out, styles.Pitch.Render(line))
		}
		fmt.Fprintln(out, styles.Label.Render(summary))
	}
	return nil
}
