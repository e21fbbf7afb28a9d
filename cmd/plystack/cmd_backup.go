package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlyStack/internal/project"
)

func newBackupCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the config, material library and saved studies",
	}

	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write all application data to a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := project.LoadOrCreateMaterialLibrary(o.config.MaterialsDB)
			if err != nil {
				return err
			}
			studies, err := project.LoadStudies(project.DefaultStudiesPath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], o.config, lib, studies); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore application data from a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			materials := o.config.MaterialsDB
			if materials == "" {
				materials = project.DefaultMaterialsPath()
			}
			if err := project.RestoreAllData(backup, o.configPath, materials, project.DefaultStudiesPath()); err != nil {
				return err
			}
			o.logger.Info("backup restored", "created_at", backup.CreatedAt,
				"materials", len(backup.Materials.Materials), "studies", len(backup.Studies.Studies))
			return nil
		},
	}

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}
