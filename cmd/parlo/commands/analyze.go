package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parlo-app/parlo/go/pkg/analysis"
	"github.com/parlo-app/parlo/go/pkg/mediastore"
	"github.com/parlo-app/parlo/go/pkg/practice"
)

var (
	analyzeStart     float64
	analyzeEnd       float64
	analyzePoints    int
	analyzeStrategy  string
	analyzeContrast  bool
	analyzePitch     bool
	analyzeFrame     int
	analyzeHop       int
	analyzeThreshold float64
	analyzeCompare   string
	analyzeQuery     string
	analyzeOutput    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <clip>",
	Short: "Decode a clip and print its envelope and pitch series",
	Long: `Decode a clip, reduce it to a loudness envelope and an optional
pitch track, and print the result as JSON.

Examples:
  # 400-point hybrid envelope with pitch
  parlo analyze clip.mp3 --points 400 --strategy hybrid --pitch

  # Only the echo region between 12.5s and 14.2s
  parlo analyze clip.mp3 --start 12.5 --end 14.2

  # Lay a learner recording alongside and pull one number out
  parlo analyze clip.mp3 --compare attempt.wav --query '.user.duration'`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.Float64Var(&analyzeStart, "start", -1, "region start in seconds")
	f.Float64Var(&analyzeEnd, "end", -1, "region end in seconds")
	f.IntVar(&analyzePoints, "points", 0, "envelope resolution (default 200)")
	f.StringVar(&analyzeStrategy, "strategy", "", "bucket reduction: rms, peak or hybrid (default rms)")
	f.BoolVar(&analyzeContrast, "contrast", false, "enhance envelope contrast")
	f.BoolVar(&analyzePitch, "pitch", false, "extract a pitch track")
	f.IntVar(&analyzeFrame, "frame-size", 0, "pitch analysis frame size in samples")
	f.IntVar(&analyzeHop, "hop-size", 0, "pitch analysis hop size in samples")
	f.Float64Var(&analyzeThreshold, "voiced-threshold", 0, "minimum voicing probability to accept a pitch")
	f.StringVar(&analyzeCompare, "compare", "", "learner recording to analyze alongside the clip")
	f.StringVar(&analyzeQuery, "query", "", "jq expression applied to the result")
	f.StringVar(&analyzeOutput, "output", "", "write the result to a file instead of stdout")

	rootCmd.AddCommand(analyzeCmd)
}

// buildSession assembles the analysis request from flags, falling back to
// the config file for reduction parameters the flags leave unset.
func buildSession(cmd *cobra.Command, clip string) (practice.Session, error) {
	data, err := os.ReadFile(clip)
	if err != nil {
		return practice.Session{}, fmt.Errorf("read clip: %w", err)
	}

	s := practice.Session{
		SessionID: filepath.Base(clip),
		Media:     mediastore.Source{MediaID: filepath.Base(clip), Data: data},
		Envelope: analysis.EnvelopeOptions{
			Points:          analyzePoints,
			Strategy:        analysis.Strategy(analyzeStrategy),
			EnhanceContrast: analyzeContrast,
		},
		Pitch: analyzePitch,
		PitchOpts: analysis.PitchOptions{
			FrameSize:       analyzeFrame,
			HopSize:         analyzeHop,
			VoicedThreshold: analyzeThreshold,
		},
	}

	if cfg, err := GetConfig(); err == nil {
		a := cfg.Analysis
		if !cmd.Flags().Changed("points") && a.Points != 0 {
			s.Envelope.Points = a.Points
		}
		if !cmd.Flags().Changed("strategy") && a.Strategy != "" {
			s.Envelope.Strategy = analysis.Strategy(a.Strategy)
		}
		if !cmd.Flags().Changed("contrast") {
			s.Envelope.EnhanceContrast = a.EnhanceContrast
		}
		if !cmd.Flags().Changed("pitch") {
			s.Pitch = a.Pitch
		}
		if !cmd.Flags().Changed("frame-size") {
			s.PitchOpts.FrameSize = a.FrameSize
		}
		if !cmd.Flags().Changed("hop-size") {
			s.PitchOpts.HopSize = a.HopSize
		}
		if !cmd.Flags().Changed("voiced-threshold") {
			s.PitchOpts.VoicedThreshold = a.VoicedThreshold
		}
	}

	if analyzeStart >= 0 && analyzeEnd > analyzeStart {
		s.Region = practice.Region{Active: true, Start: analyzeStart, End: analyzeEnd}
	}

	if analyzeCompare != "" {
		rec, err := os.ReadFile(analyzeCompare)
		if err != nil {
			return practice.Session{}, fmt.Errorf("read recording: %w", err)
		}
		s.Recording = &mediastore.Source{MediaID: filepath.Base(analyzeCompare), Data: rec}
	}
	return s, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	session, err := buildSession(cmd, args[0])
	if err != nil {
		return err
	}

	engine := practice.NewEngine(practice.Config{Logger: newLogger()})
	res, err := engine.Analyze(cmd.Context(), session)
	if err != nil {
		return err
	}

	if analyzeQuery != "" {
		return runQuery(cmd.OutOrStdout(), analyzeQuery, res)
	}
	return printJSON(cmd.OutOrStdout(), res, analyzeOutput)
}
