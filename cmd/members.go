package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/s0up4200/freshlearn/filter"
	"github.com/s0up4200/freshlearn/freshlearn"
)

var (
	filterExpr string

	memberID     string
	memberEmail  string
	memberName   string
	memberSource string
	memberPhone  string
	memberCity   string

	courseID      string
	planID        string
	transactionID string
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List, create and update members",
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	Long: `List all members, optionally narrowed by a filter expression.

Examples:
  freshlearn members list --filter 'City == "Berlin"'
  freshlearn members list --filter 'domain == "example.com" and daysSince(CreatedAt) < 30'`,
	RunE: runMembersList,
}

var membersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a member",
	RunE:  runMembersCreate,
}

var membersUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a member",
	RunE:  runMembersUpdate,
}

var membersCreateAndEnrollCmd = &cobra.Command{
	Use:   "create-and-enroll",
	Short: "Create a member and enroll them in a course plan",
	RunE:  runMembersCreateAndEnroll,
}

func init() {
	membersListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")

	for _, c := range []*cobra.Command{membersCreateCmd, membersUpdateCmd, membersCreateAndEnrollCmd} {
		addMemberFlags(c)
	}
	membersUpdateCmd.Flags().StringVar(&memberID, "id", "", "member ID")

	membersCreateAndEnrollCmd.Flags().StringVar(&courseID, "course", "", "course ID")
	membersCreateAndEnrollCmd.Flags().StringVar(&planID, "plan", "", "plan ID")
	membersCreateAndEnrollCmd.Flags().StringVar(&transactionID, "transaction", "", "transaction ID")

	membersCmd.AddCommand(membersListCmd, membersCreateCmd, membersUpdateCmd, membersCreateAndEnrollCmd)
	rootCmd.AddCommand(membersCmd)
}

func addMemberFlags(c *cobra.Command) {
	c.Flags().StringVar(&memberEmail, "email", "", "member email")
	c.Flags().StringVar(&memberName, "name", "", "member full name")
	c.Flags().StringVar(&memberSource, "source", "", "record source (default freshlearn.source)")
	c.Flags().StringVar(&memberPhone, "phone", "", "member phone number")
	c.Flags().StringVar(&memberCity, "city", "", "member city")
}

// source falls back to the configured default when the flag is empty
func source(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Freshlearn.Source
}

func memberRequest() freshlearn.CreateMemberRequest {
	return freshlearn.CreateMemberRequest{
		Email:    memberEmail,
		FullName: memberName,
		Source:   source(memberSource),
		Phone:    memberPhone,
		City:     memberCity,
	}
}

// filterCompiler is shared by every command that takes --filter
var filterCompiler = filter.NewExprCompiler(filter.WithCache(32))

// compileFilter returns nil when no expression was given
func compileFilter(expression string) (filter.Filter, error) {
	if expression == "" {
		return nil, nil
	}
	f, err := filterCompiler.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter: %w", err)
	}
	return f, nil
}

func runMembersList(cmd *cobra.Command, args []string) error {
	f, err := compileFilter(filterExpr)
	if err != nil {
		return err
	}

	resp, err := client.GetMembers(cmd.Context(), requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	members := resp.Data
	if f != nil {
		members = filter.Members(f, members)
		logger.Debug().
			Str("filter", filterExpr).
			Int("total", len(resp.Data)).
			Int("matched", len(members)).
			Msg("Applied member filter")
	}

	return printMembers(cmd.OutOrStdout(), members, outputFormat)
}

func runMembersCreate(cmd *cobra.Command, args []string) error {
	req := memberRequest()
	if err := freshlearn.Validate(req); err != nil {
		return err
	}

	if dryRun {
		return printDryRun(cmd.OutOrStdout(), http.MethodPost, freshlearn.MembersPath, req)
	}

	resp, err := client.CreateMember(cmd.Context(), req, requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	logger.Info().Str("email", req.Email).Msg("Created member")
	return printMember(cmd.OutOrStdout(), resp.Data, outputFormat)
}

func runMembersUpdate(cmd *cobra.Command, args []string) error {
	req := freshlearn.UpdateMemberRequest{
		CreateMemberRequest: memberRequest(),
		ID:                  memberID,
	}
	if err := freshlearn.Validate(req); err != nil {
		return err
	}

	if dryRun {
		return printDryRun(cmd.OutOrStdout(), http.MethodPut, freshlearn.UpdateMemberPath, req)
	}

	resp, err := client.UpdateMember(cmd.Context(), req, requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	logger.Info().Str("email", req.Email).Str("id", req.ID).Msg("Updated member")
	return printMember(cmd.OutOrStdout(), resp.Data, outputFormat)
}

func runMembersCreateAndEnroll(cmd *cobra.Command, args []string) error {
	req := freshlearn.CreateMemberAndEnrollRequest{
		Email:         memberEmail,
		FullName:      memberName,
		Source:        source(memberSource),
		Phone:         memberPhone,
		City:          memberCity,
		CourseID:      courseID,
		PlanID:        planID,
		TransactionID: transactionID,
	}
	if err := freshlearn.Validate(req); err != nil {
		return err
	}

	if dryRun {
		return printDryRun(cmd.OutOrStdout(), http.MethodPost, freshlearn.CreateMemberAndEnrollPath, req)
	}

	resp, err := client.CreateMemberAndEnroll(cmd.Context(), req, requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("failed to create and enroll member: %w", err)
	}

	logger.Info().
		Str("email", req.Email).
		Str("course", req.CourseID).
		Msg("Created and enrolled member")
	return printPayload(cmd.OutOrStdout(), fmt.Sprintf("Created %s and enrolled in %s", req.Email, req.CourseID), resp.Data, outputFormat)
}
