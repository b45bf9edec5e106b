package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/parlo-app/parlo/go/pkg/echo"
)

var (
	regionsProfile  string
	regionStartLine int
	regionEndLine   int
	regionStartTime float64
	regionEndTime   float64
	regionsAll      bool
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Inspect and edit saved echo regions",
	Long: `Saved echo regions are keyed by profile and session and survive
restarts in the local badger database.

Examples:
  parlo regions list
  parlo regions set ep01 --start-line 4 --end-line 6 --start 12.5 --end 18.0
  parlo regions clear ep01
  parlo regions clear --all`,
}

var regionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved regions for a profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openState()
		if err != nil {
			return err
		}
		defer db.Close()

		regions, err := db.Regions().List(cmd.Context(), regionsProfile)
		if err != nil {
			return fmt.Errorf("list regions: %w", err)
		}
		if len(regions) == 0 {
			fmt.Println("No regions saved.")
			return nil
		}

		sessions := make([]string, 0, len(regions))
		for s := range regions {
			sessions = append(sessions, s)
		}
		sort.Strings(sessions)

		for _, s := range sessions {
			r := regions[s]
			fmt.Printf("%-24s lines %d-%d  %.2fs-%.2fs\n",
				s, r.StartLineIndex, r.EndLineIndex, r.StartTime, r.EndTime)
		}
		return nil
	},
}

var regionsSetCmd = &cobra.Command{
	Use:   "set <session>",
	Short: "Save a region for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if regionEndLine < regionStartLine {
			return fmt.Errorf("end line %d before start line %d", regionEndLine, regionStartLine)
		}
		if regionEndTime <= regionStartTime {
			return fmt.Errorf("end time %.2f not after start time %.2f", regionEndTime, regionStartTime)
		}

		db, err := openState()
		if err != nil {
			return err
		}
		defer db.Close()

		st := echo.RegionState{
			StartLineIndex: regionStartLine,
			EndLineIndex:   regionEndLine,
			StartTime:      regionStartTime,
			EndTime:        regionEndTime,
		}
		if err := db.Regions().Put(cmd.Context(), regionsProfile, args[0], st); err != nil {
			return fmt.Errorf("save region: %w", err)
		}
		fmt.Printf("Saved region for %s: lines %d-%d, %.2fs-%.2fs\n",
			args[0], st.StartLineIndex, st.EndLineIndex, st.StartTime, st.EndTime)
		return nil
	},
}

var regionsClearCmd = &cobra.Command{
	Use:   "clear [session]",
	Short: "Delete a saved region (or all of a profile's with --all)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !regionsAll {
			return fmt.Errorf("name a session or pass --all")
		}

		db, err := openState()
		if err != nil {
			return err
		}
		defer db.Close()

		if regionsAll {
			regions, err := db.Regions().List(cmd.Context(), regionsProfile)
			if err != nil {
				return fmt.Errorf("list regions: %w", err)
			}
			for s := range regions {
				if err := db.Regions().Delete(cmd.Context(), regionsProfile, s); err != nil {
					return fmt.Errorf("delete region %s: %w", s, err)
				}
			}
			fmt.Printf("Cleared %d region(s).\n", len(regions))
			return nil
		}

		if err := db.Regions().Delete(cmd.Context(), regionsProfile, args[0]); err != nil {
			return fmt.Errorf("delete region: %w", err)
		}
		fmt.Printf("Cleared region for %s.\n", args[0])
		return nil
	},
}

func init() {
	regionsCmd.PersistentFlags().StringVar(&regionsProfile, "profile", "default", "profile the regions belong to")

	f := regionsSetCmd.Flags()
	f.IntVar(&regionStartLine, "start-line", 0, "first transcript line of the region")
	f.IntVar(&regionEndLine, "end-line", 0, "last transcript line of the region")
	f.Float64Var(&regionStartTime, "start", 0, "region start in seconds")
	f.Float64Var(&regionEndTime, "end", 0, "region end in seconds")

	regionsClearCmd.Flags().BoolVar(&regionsAll, "all", false, "clear every region of the profile")

	regionsCmd.AddCommand(regionsListCmd, regionsSetCmd, regionsClearCmd)
	rootCmd.AddCommand(regionsCmd)
}
