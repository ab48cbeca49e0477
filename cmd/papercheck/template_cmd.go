package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/papercheck/internal/api"
	"github.com/fentz26/papercheck/internal/models"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage check templates",
}

var templateUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateUpload,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE:  runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show [template-id]",
	Short: "Show template details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update [template-id]",
	Short: "Update template metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateUpdate,
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete [template-id]",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateDelete,
}

var (
	templateName       string
	templateDesc       string
	templateType       string
	templateVisibility string
)

func init() {
	templateCmd.AddCommand(templateUploadCmd, templateListCmd, templateShowCmd, templateUpdateCmd, templateDeleteCmd)

	templateUploadCmd.Flags().StringVar(&templateName, "name", "", "Template name (required)")
	templateUploadCmd.Flags().StringVar(&templateDesc, "desc", "", "Template description")
	templateUploadCmd.Flags().StringVar(&templateType, "type", "graduation", "Template type (graduation, course)")
	templateUploadCmd.MarkFlagRequired("name")

	templateListCmd.Flags().StringVar(&templateType, "type", "", "Filter by type (graduation, course)")

	templateUpdateCmd.Flags().StringVar(&templateName, "name", "", "New name")
	templateUpdateCmd.Flags().StringVar(&templateDesc, "desc", "", "New description")
	templateUpdateCmd.Flags().StringVar(&templateVisibility, "visibility", "", "Visibility (public, private)")
}

func runTemplateUpload(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	tpl, err := client.UploadTemplate(ctx, args[0], templateName, templateDesc, models.PaperType(templateType))
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("Uploaded template: %s\n", tpl.ID)
	return nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	list, err := client.ListTemplates(ctx, models.PaperType(templateType))
	if err != nil {
		return friendly(err)
	}

	if len(list.Data) == 0 {
		fmt.Println("No templates found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tVISIBILITY\tDESCRIPTION")
	for _, tpl := range list.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(tpl.ID), truncate(tpl.Name, 30), tpl.TemplateType, tpl.Visibility,
			truncate(tpl.Description, 40))
	}
	w.Flush()
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	tpl, err := client.GetTemplate(ctx, args[0])
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("ID:          %s\n", tpl.ID)
	fmt.Printf("Name:        %s\n", tpl.Name)
	fmt.Printf("Type:        %s\n", tpl.TemplateType)
	fmt.Printf("Visibility:  %s\n", tpl.Visibility)
	if tpl.Description != "" {
		fmt.Printf("Description: %s\n", tpl.Description)
	}
	return nil
}

func runTemplateUpdate(cmd *cobra.Command, args []string) error {
	upd := api.TemplateUpdate{
		Name:        templateName,
		Description: templateDesc,
		Visibility:  templateVisibility,
	}
	if upd == (api.TemplateUpdate{}) {
		return fmt.Errorf("nothing to update: pass --name, --desc or --visibility")
	}

	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	tpl, err := client.UpdateTemplate(ctx, args[0], upd)
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("Updated template %s\n", tpl.ID)
	return nil
}

func runTemplateDelete(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := client.DeleteTemplate(ctx, args[0]); err != nil {
		return friendly(err)
	}
	fmt.Printf("Deleted template %s\n", args[0])
	return nil
}
