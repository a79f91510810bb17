package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recordlayout/pkg/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] sobject [recordid]",
	Short: "Render a record layout as HTML",
	Long: `Render compiles the layout of an object, binds it to a record and writes
the HTML to stdout. Without --page only the layout fragment is written.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("fields", "", "comma separated field paths rendered instead of the layout")
	renderCmd.Flags().Bool("edit", false, "render the edit layout")
	renderCmd.Flags().String("recordtype", "", "record type id used to select the layout")
	renderCmd.Flags().Bool("page", false, "wrap the layout in a themed HTML page")
	renderCmd.Flags().String("theme", "", "theme name used with --page")
	renderCmd.Flags().String("variant", "", "theme variant used with --page")
	renderCmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
}

func runRender(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	attrs := render.Attributes{SObject: args[0]}
	if len(args) > 1 {
		attrs.RecordID = args[1]
	}
	attrs.FieldList, _ = cmd.Flags().GetString("fields")
	attrs.ForEdit, _ = cmd.Flags().GetBool("edit")
	attrs.RecordTypeID, _ = cmd.Flags().GetString("recordtype")

	page, _ := cmd.Flags().GetBool("page")
	var th render.Theme
	if page {
		name, _ := cmd.Flags().GetString("theme")
		variant, _ := cmd.Flags().GetString("variant")
		th, err = render.SelectTheme(env.themes, name, variant)
		if err != nil {
			return err
		}
	}

	var out io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}
	buffered := bufio.NewWriter(out)

	var mountErr error
	host := render.NewHost(env.pipeline, render.ContainerFunc(func(instance *render.Instance) error {
		if page {
			mountErr = instance.Page(buffered, render.PageData{Theme: th.Name, Stylesheet: th.Stylesheet()})
		} else {
			mountErr = instance.Render(buffered)
		}
		return mountErr
	}),
		render.WithDebounce(env.cfg.Debounce),
		render.WithHostLogger(env.logger),
		render.WithContext(cmd.Context()),
	)
	defer host.Close()

	host.SetAttributes(attrs)
	host.Wait()

	if mountErr != nil {
		return mountErr
	}
	if host.Current() == nil {
		return fmt.Errorf("nothing rendered for %s %s", attrs.SObject, attrs.RecordID)
	}
	return buffered.Flush()
}
