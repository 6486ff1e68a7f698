package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillsql/quill/internal/config"
	"github.com/quillsql/quill/internal/watch"
	"github.com/quillsql/quill/query/sqlgen"
	"github.com/quillsql/quill/schema/dsl"
)

// NewDDLCommand creates the ddl command.
func NewDDLCommand() *cobra.Command {
	var schemaPath string
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print CREATE TABLE statements for a schema file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if schemaPath == "" {
				schemaPath = cfg.SchemaPath
			}

			render := func() error { return renderDDL(schemaPath) }

			if watchMode {
				w, err := watch.New(schemaPath, render)
				if err != nil {
					return err
				}
				defer w.Stop()
				color.Cyan("Watching %s for changes...", schemaPath)
				return w.Start()
			}
			return render()
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "path to the schema file")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-render on schema changes")
	return cmd
}

func renderDDL(path string) error {
	s, err := dsl.ParseFile(config.AppFs, path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	statements, err := sqlgen.GenerateSchema(s)
	if err != nil {
		return err
	}
	for _, ddl := range statements {
		fmt.Println(ddl + ";")
	}
	color.Green("✓ %d table(s)", len(statements))
	return nil
}
