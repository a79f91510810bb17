package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-recordlayout/internal/prompt"
	"github.com/goliatone/go-recordlayout/pkg/record"
	"github.com/goliatone/go-recordlayout/pkg/render"
)

var editCmd = &cobra.Command{
	Use:   "edit [flags] sobject recordid",
	Short: "Edit a record through its edit layout in the terminal",
	Long: `Edit prompts for every editable field of the object's edit layout and
prints the updated record as a records fixture on stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("recordtype", "", "record type id used to select the layout")
}

func runEdit(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("edit needs an interactive terminal")
	}
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	recordType, _ := cmd.Flags().GetString("recordtype")

	instance, err := env.pipeline.Run(cmd.Context(), render.Attributes{
		SObject:      args[0],
		RecordID:     args[1],
		ForEdit:      true,
		RecordTypeID: recordType,
	})
	if err != nil {
		return err
	}
	defer instance.Close()

	editor := prompt.NewEditor(prompt.NewSurveyDriver(os.Stderr), prompt.WithLogger(env.logger))
	changed, err := editor.Edit(cmd.Context(), instance)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		env.logger.Info("no changes", "object", args[0], "record", args[1])
		return nil
	}

	model, ok := instance.Model.(*record.Memory)
	if !ok {
		return fmt.Errorf("record %s cannot be saved", args[1])
	}
	env.records.Save(args[0], model)

	doc := map[string]any{
		"records": map[string]any{
			args[0]: map[string]any{model.ID(): model.Snapshot()},
		},
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
