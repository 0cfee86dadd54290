package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PosterCut/internal/importer"
	"github.com/piwi3910/PosterCut/internal/model"
	"github.com/piwi3910/PosterCut/internal/project"
)

// papersCommand lists every paper size --paper accepts.
func (c *CLI) papersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "papers",
		Short: "List the paper sizes --paper accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printPapers(model.AllPapers())
			return nil
		},
	}
}

func (c *CLI) printPapers(papers []model.PaperSize) {
	rows := make([][]string, len(papers))
	for i, p := range papers {
		kind := "custom"
		if p.IsBuiltIn {
			kind = "built-in"
		}
		rows[i] = []string{p.Name, fmt.Sprintf("%.1f x %.1f", p.Width, p.Height), p.Description, kind}
	}
	c.printTable([]string{"Name", "Size (mm)", "Description", "Kind"}, rows, nil)
}

// profilesCommand manages the user's own paper sizes.
func (c *CLI) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage custom paper sizes",
		Long: `Manage custom paper sizes.

Profiles are stored in papers.json in the config directory and can be used
with --paper like the built-in sizes. A profile may not reuse the name of
a built-in size.`,
	}

	var description string
	add := &cobra.Command{
		Use:     "add NAME WxH",
		Short:   "Add or replace a paper size",
		Example: `  postercut profiles add Plotter36 914x1219 --description "36 inch roll"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := importer.ParseSize(args[1])
			if err != nil {
				return err
			}
			return c.updatePapers(func(papers []model.PaperSize) ([]model.PaperSize, error) {
				p := model.PaperSize{Name: args[0], Description: description, Width: size.Width, Height: size.Height}
				papers, err := project.AddCustomPaper(papers, p)
				if err == nil {
					c.printSuccess("Saved paper %s (%s)", p.Name, size)
				}
				return papers, err
			})
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "short description")

	remove := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a custom paper size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.updatePapers(func(papers []model.PaperSize) ([]model.PaperSize, error) {
				papers, ok := project.RemoveCustomPaper(papers, args[0])
				if !ok {
					return papers, fmt.Errorf("no custom paper %q", args[0])
				}
				c.printSuccess("Removed paper %s", args[0])
				return papers, nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List custom paper sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			papers, err := project.LoadCustomPapers(c.paths().Papers)
			if err != nil {
				return err
			}
			if len(papers) == 0 {
				c.printInfo("No custom paper sizes. Add one with 'postercut profiles add NAME WxH'.")
				return nil
			}
			c.printPapers(papers)
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export NAME FILE",
		Short: "Write one custom paper size to a file for sharing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			papers, err := project.LoadCustomPapers(c.paths().Papers)
			if err != nil {
				return err
			}
			for _, p := range papers {
				if p.Name == args[0] {
					if err := project.ExportPaper(args[1], p); err != nil {
						return err
					}
					c.printFile(args[1])
					return nil
				}
			}
			return fmt.Errorf("no custom paper %q", args[0])
		},
	}

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add a paper size exported with 'profiles export'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.ImportPaper(args[0])
			if err != nil {
				return err
			}
			return c.updatePapers(func(papers []model.PaperSize) ([]model.PaperSize, error) {
				papers, err := project.AddCustomPaper(papers, p)
				if err == nil {
					c.printSuccess("Imported paper %s", p.Name)
				}
				return papers, err
			})
		},
	}

	cmd.AddCommand(list, add, remove, exportCmd, importCmd)
	return cmd
}

// updatePapers loads the custom papers, applies fn and saves the result.
func (c *CLI) updatePapers(fn func([]model.PaperSize) ([]model.PaperSize, error)) error {
	path := c.paths().Papers
	papers, err := project.LoadCustomPapers(path)
	if err != nil {
		return err
	}
	papers, err = fn(papers)
	if err != nil {
		return err
	}
	if err := project.SaveCustomPapers(path, papers); err != nil {
		return err
	}
	model.CustomPapers = papers
	return nil
}
