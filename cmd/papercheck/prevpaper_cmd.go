package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/papercheck/internal/api"
	"github.com/spf13/cobra"
)

var prevPaperCmd = &cobra.Command{
	Use:   "previous-paper",
	Short: "Manage the previous-years paper library",
	Long: `The previous-years paper library is the corpus the duplicate
detection compares new papers against. Teacher role or above can add
and remove entries; everyone can browse.`,
}

var prevPaperUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Add a past paper to the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrevPaperUpload,
}

var prevPaperListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library entries",
	RunE:  runPrevPaperList,
}

var prevPaperShowCmd = &cobra.Command{
	Use:   "show [paper-id]",
	Short: "Show a library entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrevPaperShow,
}

var prevPaperDeleteCmd = &cobra.Command{
	Use:   "delete [paper-id]",
	Short: "Remove a library entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrevPaperDelete,
}

var (
	prevTitle      string
	prevAuthor     string
	prevYear       int
	prevDepartment string
	prevKeywords   []string
	prevSummary    string
	prevListYear   int
	prevListDept   string
	prevListPage   int
)

func init() {
	prevPaperCmd.AddCommand(prevPaperUploadCmd, prevPaperListCmd, prevPaperShowCmd, prevPaperDeleteCmd)

	prevPaperUploadCmd.Flags().StringVar(&prevTitle, "title", "", "Paper title (required)")
	prevPaperUploadCmd.Flags().StringVar(&prevAuthor, "author", "", "Author name (required)")
	prevPaperUploadCmd.Flags().IntVar(&prevYear, "year", 0, "Graduation year (required)")
	prevPaperUploadCmd.Flags().StringVar(&prevDepartment, "department", "", "Department")
	prevPaperUploadCmd.Flags().StringSliceVar(&prevKeywords, "keyword", nil, "Keyword (repeatable)")
	prevPaperUploadCmd.Flags().StringVar(&prevSummary, "summary", "", "Short summary")
	prevPaperUploadCmd.MarkFlagRequired("title")
	prevPaperUploadCmd.MarkFlagRequired("author")
	prevPaperUploadCmd.MarkFlagRequired("year")

	prevPaperListCmd.Flags().IntVar(&prevListYear, "year", 0, "Filter by year")
	prevPaperListCmd.Flags().StringVar(&prevListDept, "department", "", "Filter by department")
	prevPaperListCmd.Flags().IntVar(&prevListPage, "page", 1, "Page number")
}

func runPrevPaperUpload(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	paper, err := client.UploadPreviousPaper(ctx, args[0], api.PreviousPaperMeta{
		Title:      prevTitle,
		Author:     prevAuthor,
		Year:       prevYear,
		Department: prevDepartment,
		Keywords:   prevKeywords,
		Summary:    prevSummary,
	})
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("Added previous paper: %s\n", paper.ID)
	return nil
}

func runPrevPaperList(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	list, err := client.ListPreviousPapers(ctx, prevListPage, prevListYear, prevListDept)
	if err != nil {
		return friendly(err)
	}
	if len(list.Data) == 0 {
		fmt.Println("No previous papers found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tYEAR\tDEPARTMENT")
	for _, p := range list.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			truncateID(p.ID), truncate(p.Title, 40), p.Author, p.Year, p.Department)
	}
	w.Flush()
	fmt.Printf("\n%d of %d previous papers\n", len(list.Data), list.Total)
	return nil
}

func runPrevPaperShow(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	p, err := client.GetPreviousPaper(ctx, args[0])
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("ID:         %s\n", p.ID)
	fmt.Printf("Title:      %s\n", p.Title)
	fmt.Printf("Author:     %s\n", p.Author)
	fmt.Printf("Year:       %d\n", p.Year)
	if p.Department != "" {
		fmt.Printf("Department: %s\n", p.Department)
	}
	if len(p.Keywords) > 0 {
		fmt.Printf("Keywords:   %s\n", strings.Join(p.Keywords, ", "))
	}
	if p.Summary != "" {
		fmt.Printf("Summary:    %s\n", p.Summary)
	}
	return nil
}

func runPrevPaperDelete(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := client.DeletePreviousPaper(ctx, args[0]); err != nil {
		return friendly(err)
	}
	fmt.Printf("Removed previous paper %s\n", args[0])
	return nil
}
