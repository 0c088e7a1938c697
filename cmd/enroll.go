package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/freshlearn/freshlearn"
)

var (
	bundleID  string
	batchFile string
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll a member in a course plan",
	Long: `Enroll an existing member in a course plan.

Use the bundle subcommand to enroll in a product bundle, or batch to enroll
many members from a CSV file.`,
	RunE: runEnroll,
}

var enrollBundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Enroll a member in every course of a product bundle",
	RunE:  runEnrollBundle,
}

var enrollBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enroll members listed in a CSV file",
	Long: `Enroll members listed in a CSV file with a header row.

Required columns: courseId, planId, memberEmail, transactionId.
An optional source column falls back to freshlearn.source.

Requests run concurrently, bounded by batch.concurrency. A failed row does not
stop the batch; failures are reported at the end.`,
	RunE: runEnrollBatch,
}

var unenrollCmd = &cobra.Command{
	Use:   "unenroll",
	Short: "Remove a member from a course",
	RunE:  runUnenroll,
}

func init() {
	enrollCmd.Flags().StringVar(&courseID, "course", "", "course ID")
	enrollCmd.Flags().StringVar(&planID, "plan", "", "plan ID")
	enrollCmd.Flags().StringVar(&memberEmail, "email", "", "member email")
	enrollCmd.Flags().StringVar(&transactionID, "transaction", "", "transaction ID")
	enrollCmd.Flags().StringVar(&memberSource, "source", "", "record source (default freshlearn.source)")

	enrollBundleCmd.Flags().StringVar(&bundleID, "bundle", "", "product bundle ID")
	enrollBundleCmd.Flags().StringVar(&memberEmail, "email", "", "member email")
	enrollBundleCmd.Flags().StringVar(&transactionID, "transaction", "", "transaction ID")
	enrollBundleCmd.Flags().StringVar(&memberSource, "source", "", "record source (default freshlearn.source)")

	enrollBatchCmd.Flags().StringVar(&batchFile, "file", "", "CSV file with enrollments")
	_ = enrollBatchCmd.MarkFlagRequired("file")

	unenrollCmd.Flags().StringVar(&courseID, "course", "", "course ID")
	unenrollCmd.Flags().StringVar(&memberEmail, "email", "", "member email")

	enrollCmd.AddCommand(enrollBundleCmd, enrollBatchCmd)
	rootCmd.AddCommand(enrollCmd, unenrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	req := freshlearn.EnrollMemberRequest{
		CourseID:      courseID,
		PlanID:        planID,
		MemberEmail:   memberEmail,
		TransactionID: transactionID,
		Source:        source(memberSource),
	}
	if err := freshlearn.Validate(req); err != nil {
		return err
	}

	if dryRun {
		return printDryRun(cmd.OutOrStdout(), http.MethodPost, freshlearn.EnrollMemberPath, req)
	}

	resp, err := client.EnrollMember(cmd.Context(), req, requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to enroll member: %w", err)
	}

	logger.Info().Str("email", req.MemberEmail).Str("course", req.CourseID).Msg("Enrolled member")
	return printPayload(cmd.OutOrStdout(), fmt.Sprintf("Enrolled %s in %s", req.MemberEmail, req.CourseID), resp.Data, outputFormat)
}

func runEnrollBundle(cmd *cobra.Command, args []string) error {
	req := freshlearn.EnrollProductBundleRequest{
		ProductBundleID: bundleID,
		MemberEmail:     memberEmail,
		TransactionID:   transactionID,
		Source:          source(memberSource),
	}
	if err := freshlearn.Validate(req); err != nil {
		return err
	}

	if dryRun {
		return printDryRun(cmd.OutOrStdout(), http.MethodPost, freshlearn.EnrollProductBundlePath, req)
	}

	resp, err := client.EnrollProductBundle(cmd.Context(), req, requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to enroll member in bundle: %w", err)
	}

	logger.Info().Str("email", req.MemberEmail).Str("bundle", req.ProductBundleID).Msg("Enrolled member in bundle")
	return printPayload(cmd.OutOrStdout(), fmt.Sprintf("Enrolled %s in bundle %s", req.MemberEmail, req.ProductBundleID), resp.Data, outputFormat)
}

func runUnenroll(cmd *cobra.Command, args []string) error {
	req := freshlearn.UnenrollMemberRequest{
		CourseID:    courseID,
		MemberEmail: memberEmail,
	}
	if err := freshlearn.Validate(req); err != nil {
		return err
	}

	if dryRun {
		return printDryRun(cmd.OutOrStdout(), http.MethodPost, freshlearn.UnenrollCoursePath, req)
	}

	resp, err := client.UnenrollMember(cmd.Context(), req, requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to unenroll member: %w", err)
	}

	logger.Info().Str("email", req.MemberEmail).Str("course", req.CourseID).Msg("Unenrolled member")
	return printPayload(cmd.OutOrStdout(), fmt.Sprintf("Unenrolled %s from %s", req.MemberEmail, req.CourseID), resp.Data, outputFormat)
}

func runEnrollBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(batchFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", batchFile, err)
	}
	defer f.Close()

	enrollments, err := readEnrollments(f, cfg.Freshlearn.Source)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", batchFile, err)
	}

	for i, e := range enrollments {
		if err := freshlearn.Validate(e); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintf(out, "[DRY RUN] Would enroll %d member(s):\n", len(enrollments))
		for _, e := range enrollments {
			fmt.Fprintf(out, "  - %s → %s (plan %s)\n", e.MemberEmail, e.CourseID, e.PlanID)
		}
		return nil
	}

	logger.Info().
		Int("count", len(enrollments)).
		Int("concurrency", cfg.Batch.Concurrency).
		Msg("Enrolling members...")

	result := client.EnrollMembers(cmd.Context(), enrollments, cfg.Batch.Concurrency, requestOptions()...)

	fmt.Fprintf(out, "\n✓ Enrolled %d of %d member(s)\n", len(result.Successful), result.Requested)
	if len(result.Failed) > 0 {
		fmt.Fprintf(out, "✗ %d enrollment(s) failed:\n", len(result.Failed))
		for _, failure := range result.Failed {
			fmt.Fprintf(out, "  - %s\n", failure.Error())
		}
		return fmt.Errorf("%d of %d enrollments failed", len(result.Failed), result.Requested)
	}

	return nil
}

// enrollmentColumns are the CSV headers read by readEnrollments
var enrollmentColumns = []string{"courseId", "planId", "memberEmail", "transactionId"}

// readEnrollments parses a CSV with a header row into enrollment requests.
// Column order is free and header matching ignores case.
func readEnrollments(r io.Reader, defaultSource string) ([]freshlearn.EnrollMemberRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range enrollmentColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var enrollments []freshlearn.EnrollMemberRequest
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		src := field(record, "source")
		if src == "" {
			src = defaultSource
		}

		enrollments = append(enrollments, freshlearn.EnrollMemberRequest{
			CourseID:      field(record, "courseId"),
			PlanID:        field(record, "planId"),
			MemberEmail:   field(record, "memberEmail"),
			TransactionID: field(record, "transactionId"),
			Source:        src,
		})
	}

	return enrollments, nil
}
