package main

import (
	"context"

	"github.com/spf13/cobra"
)

var syncUser, syncCourse string

// syncProgressCmd recomputes course progress from module records
var syncProgressCmd = &cobra.Command{
	Use:   "sync-progress",
	Short: "Recompute a learner's course progress",
	Long:  `Rebuild a learner's course progress from their module progress and the current syllabus.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		svcs, closeAll, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer closeAll()

		lp, err := svcs.Progress.SyncCourseProgress(ctx, syncUser, syncCourse)
		if err != nil {
			return err
		}
		return printJSON(lp)
	},
}

func init() {
	syncProgressCmd.Flags().StringVar(&syncUser, "user", "", "Learner id (required)")
	syncProgressCmd.Flags().StringVar(&syncCourse, "course", "", "Course id (required)")
	_ = syncProgressCmd.MarkFlagRequired("user")
	_ = syncProgressCmd.MarkFlagRequired("course")
}
