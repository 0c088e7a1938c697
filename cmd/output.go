package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/s0up4200/freshlearn/freshlearn"
)

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	return table
}

// printMembers renders members as a table or JSON
func printMembers(w io.Writer, members []freshlearn.Member, format string) error {
	if format == "json" {
		return writeJSON(w, members)
	}

	if len(members) == 0 {
		fmt.Fprintln(w, "No members found.")
		return nil
	}

	table := newTable(w, []string{"ID", "Email", "Name", "Phone", "City", "Source", "Created"})
	for _, m := range members {
		table.Append([]string{m.ID, m.Email, m.FullName, m.Phone, m.City, m.Source, m.CreatedAt})
	}
	table.Render()

	fmt.Fprintf(w, "\n%d member(s)\n", len(members))
	return nil
}

// printCourses renders completed courses as a table or JSON
func printCourses(w io.Writer, courses []freshlearn.CompletedCourse, format string) error {
	if format == "json" {
		return writeJSON(w, courses)
	}

	if len(courses) == 0 {
		fmt.Fprintln(w, "No completed courses found.")
		return nil
	}

	table := newTable(w, []string{"Course ID", "Course", "Member", "Email", "Completed"})
	for _, c := range courses {
		table.Append([]string{c.CourseID, c.CourseName, c.MemberName, c.MemberEmail, c.CompletedAt})
	}
	table.Render()

	fmt.Fprintf(w, "\n%d completion(s)\n", len(courses))
	return nil
}

// printMember renders a single member
func printMember(w io.Writer, member freshlearn.Member, format string) error {
	return printMembers(w, []freshlearn.Member{member}, format)
}

// printPayload renders an opaque API result
func printPayload(w io.Writer, action string, payload freshlearn.Payload, format string) error {
	if format == "json" {
		return writeJSON(w, payload)
	}

	fmt.Fprintf(w, "✓ %s\n", action)
	if !payload.IsNull() {
		fmt.Fprintf(w, "Response: %s\n", payload.String())
	}
	return nil
}

// printDryRun shows the request that would have been sent
func printDryRun(w io.Writer, method, path string, body any) error {
	fmt.Fprintf(w, "[DRY RUN] Would send %s %s\n", method, path)
	return writeJSON(w, body)
}
