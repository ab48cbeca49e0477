package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/papercheck/internal/api"
	"github.com/fentz26/papercheck/internal/models"
	"github.com/spf13/cobra"
)

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Manage papers",
}

var paperUploadCmd = &cobra.Command{
	Use:   "upload [file.docx]",
	Short: "Upload a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaperUpload,
}

var paperListCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers",
	RunE:  runPaperList,
}

var paperShowCmd = &cobra.Command{
	Use:   "show [paper-id]",
	Short: "Show paper details",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaperShow,
}

var paperDeleteCmd = &cobra.Command{
	Use:   "delete [paper-id]",
	Short: "Delete a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaperDelete,
}

var (
	paperUploadType    string
	paperUploadTitle   string
	paperUploadStudent string
	paperListType      string
	paperListPage      int
)

func init() {
	paperCmd.AddCommand(paperUploadCmd, paperListCmd, paperShowCmd, paperDeleteCmd)

	paperUploadCmd.Flags().StringVar(&paperUploadType, "type", "graduation", "Paper type (graduation, course)")
	paperUploadCmd.Flags().StringVar(&paperUploadTitle, "title", "", "Paper title (required)")
	paperUploadCmd.Flags().StringVar(&paperUploadStudent, "student", "", "Student name")
	paperUploadCmd.MarkFlagRequired("title")

	paperListCmd.Flags().StringVar(&paperListType, "type", "", "Filter by type (graduation, course)")
	paperListCmd.Flags().IntVar(&paperListPage, "page", 1, "Page number")
}

func runPaperUpload(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	if !strings.EqualFold(filepath.Ext(filePath), ".docx") {
		return fmt.Errorf("only .docx papers are supported, got %q", filepath.Ext(filePath))
	}

	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	paper, err := client.UploadPaper(ctx, models.PaperType(paperUploadType), filePath, paperUploadTitle, paperUploadStudent)
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("Uploaded paper: %s\n", paper.ID)
	fmt.Printf("Submit a check with: papercheck check submit --paper %s --template <template-id>\n", paper.ID)
	return nil
}

func runPaperList(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	list, err := client.ListPapers(ctx, api.ListParams{Page: paperListPage, Type: paperListType})
	if err != nil {
		return friendly(err)
	}

	if len(list.Data) == 0 {
		fmt.Println("No papers found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTUDENT\tUPLOADED")
	for _, p := range list.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(p.ID), truncate(p.Title, 40), p.PaperType, p.StudentName,
			p.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	fmt.Printf("\n%d of %d papers\n", len(list.Data), list.Total)
	return nil
}

func runPaperShow(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	paper, err := client.GetPaper(ctx, args[0])
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("ID:       %s\n", paper.ID)
	fmt.Printf("Title:    %s\n", paper.Title)
	fmt.Printf("Type:     %s\n", paper.PaperType)
	if paper.StudentName != "" {
		fmt.Printf("Student:  %s\n", paper.StudentName)
	}
	fmt.Printf("File:     %s (%d bytes)\n", paper.FileName, paper.FileSize)
	fmt.Printf("Uploaded: %s\n", paper.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runPaperDelete(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := client.DeletePaper(ctx, args[0]); err != nil {
		return friendly(err)
	}
	fmt.Printf("Deleted paper %s\n", args[0])
	return nil
}
