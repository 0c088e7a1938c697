package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/freshlearn/filter"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Report on course progress",
}

var coursesCompletedCmd = &cobra.Command{
	Use:   "completed",
	Short: "List completed courses",
	Long: `List courses members have completed, optionally narrowed by a filter expression.

Examples:
  freshlearn courses completed --filter 'CourseID == "go-101"'
  freshlearn courses completed --filter 'daysSince(CompletedAt) <= 7'`,
	RunE: runCoursesCompleted,
}

func init() {
	coursesCompletedCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")

	coursesCmd.AddCommand(coursesCompletedCmd)
	rootCmd.AddCommand(coursesCmd)
}

func runCoursesCompleted(cmd *cobra.Command, args []string) error {
	f, err := compileFilter(filterExpr)
	if err != nil {
		return err
	}

	resp, err := client.GetCompletedCourses(cmd.Context(), requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to list completed courses: %w", err)
	}

	courses := resp.Data
	if f != nil {
		courses = filter.Courses(f, courses)
	}

	return printCourses(cmd.OutOrStdout(), courses, outputFormat)
}
