// Package commands implements CLI commands.
package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/quillsql/quill/internal/config"
)

const defaultSchema = `// quill schema definition

table users {
  id uuid pk
  email string
  name string nullable
  role enum(admin, user, guest) default "user"
  tags string[]
  profile json nullable
  created_at date
}
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new quill project",
		Long:  "Create a starter schema file, config file and .env",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	fs := config.AppFs

	if exists, _ := afero.Exists(fs, "quill.schema"); exists {
		return fmt.Errorf("schema file already exists: quill.schema")
	}

	provider := "postgresql"
	prompt := &survey.Select{
		Message: "Database provider:",
		Options: []string{"postgresql", "sqlite"},
		Default: "postgresql",
	}
	if err := survey.AskOne(prompt, &provider); err != nil {
		return err
	}

	databaseURL := ""
	urlPrompt := &survey.Input{
		Message: "Database URL (leave empty to set later):",
	}
	if err := survey.AskOne(urlPrompt, &databaseURL); err != nil {
		return err
	}

	if err := afero.WriteFile(fs, "quill.schema", []byte(defaultSchema), 0644); err != nil {
		return fmt.Errorf("failed to create schema file: %w", err)
	}

	configYAML := fmt.Sprintf("provider: %s\nschema_path: quill.schema\n", provider)
	if err := afero.WriteFile(fs, ".quill.yaml", []byte(configYAML), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if exists, _ := afero.Exists(fs, ".env"); !exists {
		env := fmt.Sprintf("DATABASE_URL=%s\n", databaseURL)
		if err := afero.WriteFile(fs, ".env", []byte(env), 0644); err != nil {
			return fmt.Errorf("failed to create .env: %w", err)
		}
	}

	color.Green("✓ Created quill.schema, .quill.yaml and .env")
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit quill.schema to describe your tables")
	fmt.Println("2. Run `quill ddl` to inspect the generated DDL")
	fmt.Println("3. Run `quill ping` to verify the database connection")

	return nil
}
