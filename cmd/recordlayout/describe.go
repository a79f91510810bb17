package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe sobject",
	Short: "List the fields of an object",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	desc, err := env.pipeline.Describer().DescribeObject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s (%s)\n\n", desc.Name, desc.Label)
	fmt.Fprintln(w, "NAME\tTYPE\tLABEL\tUPDATEABLE\tREFERENCES")
	for _, field := range desc.Fields {
		refs := strings.Join(field.ReferenceTo, ",")
		if field.RelationshipName != "" {
			refs = field.RelationshipName + " -> " + refs
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", field.Name, field.Type, field.Label, field.Updateable, refs)
	}
	if len(desc.RecordTypeInfos) > 0 {
		fmt.Fprintln(w, "\nRECORD TYPE\tNAME\tDEFAULT")
		for _, info := range desc.RecordTypeInfos {
			fmt.Fprintf(w, "%s\t%s\t%t\n", info.ID, info.Name, info.Default)
		}
	}
	return w.Flush()
}
