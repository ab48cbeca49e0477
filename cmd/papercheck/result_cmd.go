package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/papercheck/internal/api"
	"github.com/fentz26/papercheck/internal/export"
	"github.com/spf13/cobra"
)

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Browse check results",
}

var resultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List check results",
	RunE:  runResultList,
}

var resultShowCmd = &cobra.Command{
	Use:   "show [result-id]",
	Short: "Show a result with its issues",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultShow,
}

var resultExportCmd = &cobra.Command{
	Use:   "export [output.csv|output.json]",
	Short: "Export the result listing to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultExport,
}

var resultListPage int

func init() {
	resultCmd.AddCommand(resultListCmd, resultShowCmd, resultExportCmd)

	resultListCmd.Flags().IntVar(&resultListPage, "page", 1, "Page number")
}

func runResultList(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	list, err := client.ListResults(ctx, api.ListParams{Page: resultListPage})
	if err != nil {
		return friendly(err)
	}

	if len(list.Data) == 0 {
		fmt.Println("No results found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPAPER\tGRADE\tSCORE\tISSUES\tCHECKED")
	for _, r := range list.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\t%s\n",
			truncateID(r.ID), truncate(r.PaperTitle, 36), r.Grade, r.Score, r.TotalIssues,
			r.CheckedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	fmt.Printf("\n%d of %d results\n", len(list.Data), list.Total)
	return nil
}

func runResultShow(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	res, err := client.GetResult(ctx, args[0])
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("Result:  %s\n", res.ID)
	fmt.Printf("Paper:   %s (%s)\n", res.PaperTitle, res.PaperID)
	fmt.Printf("Grade:   %s (%.1f)\n", res.Grade, res.Score)
	fmt.Printf("Issues:  %d\n", res.TotalIssues)

	if len(res.Issues) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SEVERITY\tTYPE\tLOCATION\tDESCRIPTION")
		for _, issue := range res.Issues {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				issue.Severity, issue.Type, issue.Location, truncate(issue.Description, 60))
		}
		w.Flush()
	}
	return nil
}

func runResultExport(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	list, err := client.ListResults(ctx, api.ListParams{})
	if err != nil {
		return friendly(err)
	}

	if err := export.ToFile(args[0], list.Data); err != nil {
		return err
	}
	fmt.Printf("Exported %d results to %s\n", len(list.Data), args[0])
	return nil
}
