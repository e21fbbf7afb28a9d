package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlyStack/internal/importer"
	"github.com/piwi3910/PlyStack/internal/model"
	"github.com/piwi3910/PlyStack/internal/project"
)

func newMaterialsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "Manage the ply material library",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the materials in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := project.LoadOrCreateMaterialLibrary(o.config.MaterialsDB)
			if err != nil {
				return err
			}
			return printMaterials(cmd, lib)
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge materials from a JSON library, CSV or Excel catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runMaterialsImport(cmd, args[0])
		},
	}

	cmd.AddCommand(listCmd, importCmd)
	return cmd
}

func printMaterials(cmd *cobra.Command, lib model.MaterialLibrary) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tE1\tE2\tG12\tNU12\tXT\tXC\tYT\tYC\tS\tRHO")
	for _, m := range lib.Materials {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\n",
			m.Name, m.ID, m.E1, m.E2, m.G12, m.Nu12, m.Xt, m.Xc, m.Yt, m.Yc, m.S, m.Rho)
	}
	return tw.Flush()
}

func (o *options) runMaterialsImport(cmd *cobra.Command, file string) error {
	lib, path, err := project.LoadOrCreateMaterialLibrary(o.config.MaterialsDB)
	if err != nil {
		return err
	}

	var added int
	if strings.EqualFold(filepath.Ext(file), ".json") {
		lib, added, err = project.ImportMaterialLibrary(file, lib)
		if err != nil {
			return err
		}
	} else {
		result := importer.Import(file)
		for _, w := range result.Warnings {
			o.logger.Warn("import", "file", file, "detail", w)
		}
		for _, e := range result.Errors {
			o.logger.Error("import", "file", file, "detail", e)
		}
		if len(result.Materials) == 0 {
			return fmt.Errorf("no materials imported from %s", file)
		}
		lib, added, err = project.MergeMaterials(lib, result.Materials)
		if err != nil {
			return err
		}
	}

	if err := project.SaveMaterialLibrary(path, lib); err != nil {
		return fmt.Errorf("failed to save material library: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d material(s) into %s\n", added, path)
	return nil
}
