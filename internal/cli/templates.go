package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/piwi3910/PosterCut/internal/project"
)

// templatesCommand manages saved poster setups.
func (c *CLI) templatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Manage saved poster setups",
		Long: `Manage saved poster setups.

A template stores a goal and the sheet settings under a name. Use it with
--template on layout, compare and batch; flags given next to --template
override the stored values.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(c.paths().Templates)
			if err != nil {
				return err
			}
			if len(store.Templates) == 0 {
				c.printInfo("No templates. Save one with 'postercut templates save NAME'.")
				return nil
			}
			rows := make([][]string, len(store.Templates))
			for i, t := range store.Templates {
				rows[i] = []string{t.ID, t.Name, t.Goal.String(), t.Settings.Paper, t.Settings.Strategy.String(), t.Description}
			}
			c.printTable([]string{"ID", "Name", "Goal", "Paper", "Strategy", "Description"}, rows, nil)
			return nil
		},
	}

	var (
		req         requestFlags
		description string
	)
	save := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a goal and sheet settings as a template",
		Example: `  postercut templates save a2-wall --size 420x594 --paper A4 --overlap 15
  postercut templates save budget --pages 6 --strategy complex -d "six sheets max"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, base, err := c.settings(cmd, &req)
			if err != nil {
				return err
			}
			goal, ok, err := req.goal(cmd)
			if err != nil {
				return err
			}
			if !ok {
				if base == nil {
					return fmt.Errorf("%w: a template needs a goal", model.ErrInvalidGoal)
				}
				goal = base.Goal
			}

			path := c.paths().Templates
			store, err := project.LoadTemplates(path)
			if err != nil {
				return err
			}
			if store.FindByName(args[0]) != nil {
				return fmt.Errorf("a template named %q already exists", args[0])
			}
			t := model.NewJobTemplate(args[0], description, goal, settings)
			store.Add(t)
			if err := project.SaveTemplates(path, store); err != nil {
				return err
			}
			c.printSuccess("Saved template %s (%s)", t.Name, t.ID)
			return nil
		},
	}
	req.registerGoal(save)
	req.registerSheet(save)
	save.Flags().StringVarP(&description, "description", "d", "", "short description")

	del := &cobra.Command{
		Use:     "delete ID|NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.paths().Templates
			store, err := project.LoadTemplates(path)
			if err != nil {
				return err
			}
			t := store.FindByID(args[0])
			if t == nil {
				t = store.FindByName(args[0])
			}
			if t == nil {
				return fmt.Errorf("no template %q", args[0])
			}
			name := t.Name
			store.Remove(t.ID)
			if err := project.SaveTemplates(path, store); err != nil {
				return err
			}
			c.printSuccess("Deleted template %s", name)
			return nil
		},
	}

	cmd.AddCommand(list, save, del)
	return cmd
}
