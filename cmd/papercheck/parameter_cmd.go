package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/papercheck/internal/api"
	"github.com/spf13/cobra"
)

var parameterCmd = &cobra.Command{
	Use:   "parameter",
	Short: "Manage grading parameter sets (director and above)",
}

var parameterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a parameter set",
	RunE:  runParameterCreate,
}

var parameterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parameter sets",
	RunE:  runParameterList,
}

var parameterShowCmd = &cobra.Command{
	Use:   "show [parameter-id]",
	Short: "Show a parameter set",
	Args:  cobra.ExactArgs(1),
	RunE:  runParameterShow,
}

var parameterUpdateCmd = &cobra.Command{
	Use:   "update [parameter-id]",
	Short: "Update a parameter set (refused while locked)",
	Args:  cobra.ExactArgs(1),
	RunE:  runParameterUpdate,
}

var parameterLockCmd = &cobra.Command{
	Use:   "lock [parameter-id]",
	Short: "Lock a parameter set against modification (dean)",
	Args:  cobra.ExactArgs(1),
	RunE:  runParameterLock,
}

var parameterUnlockCmd = &cobra.Command{
	Use:   "unlock [parameter-id]",
	Short: "Unlock a parameter set (dean)",
	Args:  cobra.ExactArgs(1),
	RunE:  runParameterUnlock,
}

var parameterDeleteCmd = &cobra.Command{
	Use:   "delete [parameter-id]",
	Short: "Delete a parameter set",
	Args:  cobra.ExactArgs(1),
	RunE:  runParameterDelete,
}

var (
	paramName     string
	paramDupRate  float64
	paramScope    string
	paramScopeID  string
	paramFmtBands []int
	paramTtlBands []int
)

func init() {
	parameterCmd.AddCommand(parameterCreateCmd, parameterListCmd, parameterShowCmd,
		parameterUpdateCmd, parameterLockCmd, parameterUnlockCmd, parameterDeleteCmd)

	parameterCreateCmd.Flags().StringVar(&paramName, "name", "", "Parameter set name (required)")
	parameterCreateCmd.Flags().Float64Var(&paramDupRate, "dup-rate", 15.0, "Duplicate rate threshold (percent)")
	parameterCreateCmd.Flags().StringVar(&paramScope, "scope", "global", "Application scope (global, department, major)")
	parameterCreateCmd.Flags().StringVar(&paramScopeID, "scope-id", "", "Department/major name for non-global scopes")
	parameterCreateCmd.Flags().IntSliceVar(&paramFmtBands, "format-bands", []int{0, 3, 10, 20},
		"Format issue counts for excellent,good,passing,failure")
	parameterCreateCmd.Flags().IntSliceVar(&paramTtlBands, "title-bands", []int{0, 1, 3, 5},
		"Title issue counts for excellent,good,passing,failure")
	parameterCreateCmd.MarkFlagRequired("name")

	parameterUpdateCmd.Flags().StringVar(&paramName, "name", "", "New name")
	parameterUpdateCmd.Flags().Float64Var(&paramDupRate, "dup-rate", 0, "New duplicate rate threshold")
	parameterUpdateCmd.Flags().StringVar(&paramScope, "scope", "", "New scope")
	parameterUpdateCmd.Flags().StringVar(&paramScopeID, "scope-id", "", "New scope id")
}

func runParameterCreate(cmd *cobra.Command, args []string) error {
	if len(paramFmtBands) != 4 || len(paramTtlBands) != 4 {
		return fmt.Errorf("threshold bands need exactly 4 values: excellent,good,passing,failure")
	}

	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	param, err := client.CreateParameter(ctx, api.ParameterSpec{
		Name:                     paramName,
		DuplicateRateThreshold:   paramDupRate,
		FormatExcellentThreshold: paramFmtBands[0],
		FormatGoodThreshold:      paramFmtBands[1],
		FormatPassingThreshold:   paramFmtBands[2],
		FormatFailureThreshold:   paramFmtBands[3],
		TitleExcellentThreshold:  paramTtlBands[0],
		TitleGoodThreshold:       paramTtlBands[1],
		TitlePassingThreshold:    paramTtlBands[2],
		TitleFailureThreshold:    paramTtlBands[3],
		ApplicationScope:         paramScope,
		ScopeID:                  paramScopeID,
	})
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("Created parameter set: %s\n", param.ID)
	return nil
}

func runParameterList(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	params, err := client.ListParameters(ctx)
	if err != nil {
		return friendly(err)
	}
	if len(params) == 0 {
		fmt.Println("No parameter sets found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSCOPE\tDUP-RATE\tLOCKED")
	for _, p := range params {
		scope := p.ApplicationScope
		if p.ScopeID != "" {
			scope += ":" + p.ScopeID
		}
		locked := ""
		if p.Locked {
			locked = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%s\n",
			truncateID(p.ID), truncate(p.Name, 30), scope, p.DuplicateRateThreshold, locked)
	}
	w.Flush()
	return nil
}

func runParameterShow(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	p, err := client.GetParameter(ctx, args[0])
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("ID:        %s\n", p.ID)
	fmt.Printf("Name:      %s\n", p.Name)
	fmt.Printf("Scope:     %s", p.ApplicationScope)
	if p.ScopeID != "" {
		fmt.Printf(" (%s)", p.ScopeID)
	}
	fmt.Println()
	fmt.Printf("Dup rate:  %.1f%%\n", p.DuplicateRateThreshold)
	fmt.Printf("Format:    excellent<=%d good<=%d passing<=%d failure>%d\n",
		p.FormatExcellentThreshold, p.FormatGoodThreshold, p.FormatPassingThreshold, p.FormatFailureThreshold)
	fmt.Printf("Title:     excellent<=%d good<=%d passing<=%d failure>%d\n",
		p.TitleExcellentThreshold, p.TitleGoodThreshold, p.TitlePassingThreshold, p.TitleFailureThreshold)
	if p.Locked {
		fmt.Printf("Locked:    yes")
		if p.LockedBy != "" {
			fmt.Printf(" (by %s)", p.LockedBy)
		}
		fmt.Println()
	}
	return nil
}

func runParameterUpdate(cmd *cobra.Command, args []string) error {
	var upd api.ParameterUpdate
	if cmd.Flags().Changed("name") {
		upd.Name = &paramName
	}
	if cmd.Flags().Changed("dup-rate") {
		upd.DuplicateRateThreshold = &paramDupRate
	}
	if cmd.Flags().Changed("scope") {
		upd.ApplicationScope = &paramScope
	}
	if cmd.Flags().Changed("scope-id") {
		upd.ScopeID = &paramScopeID
	}
	if upd == (api.ParameterUpdate{}) {
		return fmt.Errorf("nothing to update: pass --name, --dup-rate, --scope or --scope-id")
	}

	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	p, err := client.UpdateParameter(ctx, args[0], upd)
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("Updated parameter set %s\n", p.ID)
	return nil
}

func runParameterLock(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := client.LockParameter(ctx, args[0]); err != nil {
		return friendly(err)
	}
	fmt.Printf("Locked parameter set %s\n", args[0])
	return nil
}

func runParameterUnlock(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := client.UnlockParameter(ctx, args[0]); err != nil {
		return friendly(err)
	}
	fmt.Printf("Unlocked parameter set %s\n", args[0])
	return nil
}

func runParameterDelete(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := client.DeleteParameter(ctx, args[0]); err != nil {
		return friendly(err)
	}
	fmt.Printf("Deleted parameter set %s\n", args[0])
	return nil
}
