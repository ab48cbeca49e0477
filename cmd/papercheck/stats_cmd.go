package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Service statistics (teacher and above)",
}

var statsOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show service-wide counters",
	RunE:  runStatsOverview,
}

var statsDepartmentCmd = &cobra.Command{
	Use:   "department",
	Short: "Show paper counts per department (director)",
	RunE:  runStatsDepartment,
}

var statsSupervisorCmd = &cobra.Command{
	Use:   "supervisor",
	Short: "Show supervised paper counts per teacher (director)",
	RunE:  runStatsSupervisor,
}

func init() {
	statsCmd.AddCommand(statsOverviewCmd, statsDepartmentCmd, statsSupervisorCmd)
}

func runStatsOverview(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	stats, err := client.OverviewStatistics(ctx)
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("Papers:  %d (%d graduation, %d course)\n",
		stats.TotalPapers, stats.GraduationPapers, stats.CoursePapers)
	fmt.Printf("Checks:  %d\n", stats.TotalChecks)
	fmt.Printf("Users:   %d\n", stats.TotalUsers)
	return nil
}

// printCountTable renders a name->count map sorted by count descending.
func printCountTable(header string, counts map[string]int) {
	type row struct {
		name  string
		count int
	}
	rows := make([]row, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, row{name, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPAPERS\n", header)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", r.name, r.count)
	}
	w.Flush()
}

func runStatsDepartment(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	stats, err := client.DepartmentStatistics(ctx)
	if err != nil {
		return friendly(err)
	}
	if len(stats.Departments) == 0 {
		fmt.Println("No department data")
		return nil
	}
	printCountTable("DEPARTMENT", stats.Departments)
	return nil
}

func runStatsSupervisor(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	stats, err := client.SupervisorStatistics(ctx)
	if err != nil {
		return friendly(err)
	}
	if len(stats.Teachers) == 0 {
		fmt.Println("No supervisor data")
		return nil
	}
	printCountTable("SUPERVISOR", stats.Teachers)
	return nil
}
