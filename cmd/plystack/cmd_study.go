package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlyStack/internal/project"
)

func newStudyCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Manage saved studies",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved studies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadStudies(project.DefaultStudiesPath())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tID\tSTRATEGY\tMATERIAL\tREQUIREMENTS\tUPDATED")
			for _, s := range store.Studies {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					s.Name, s.ID, s.Settings.Algorithm, s.Settings.Material, s.RequirementCount(), s.UpdatedAt)
			}
			return tw.Flush()
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Save a study file under its name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			study, err := project.LoadStudy(args[0])
			if err != nil {
				return err
			}
			if study.ID == "" {
				study.ID = study.Name
			}
			study.Touch()
			if study.CreatedAt == "" {
				study.CreatedAt = study.UpdatedAt
			}

			path := project.DefaultStudiesPath()
			store, err := project.LoadStudies(path)
			if err != nil {
				return err
			}
			store.Add(study)
			if err := project.SaveStudies(path, store); err != nil {
				return fmt.Errorf("failed to save studies: %w", err)
			}
			o.logger.Info("study saved", "name", study.Name, "requirements", study.RequirementCount())
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a saved study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := project.DefaultStudiesPath()
			store, err := project.LoadStudies(path)
			if err != nil {
				return err
			}
			id := args[0]
			if s := store.FindByName(id); s != nil {
				id = s.ID
			}
			if !store.Remove(id) {
				return fmt.Errorf("no saved study %q", args[0])
			}
			return project.SaveStudies(path, store)
		},
	}

	cmd.AddCommand(listCmd, addCmd, removeCmd)
	return cmd
}
