package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"myersadmin/internal/core"
	"myersadmin/pkg/domain"
)

func newKnowledgeCmd(a *app) *cobra.Command {
	root := &cobra.Command{Use: "kb", Aliases: []string{"knowledge"}, Short: "Manage knowledge base entries"}

	var q core.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List knowledge base entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.svc.ListKnowledgeBase(cmd.Context(), a.principal(cmd), q)
			if err != nil {
				return done(err)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, e := range page.Items {
				rows = append(rows, []string{e.ID, e.Title, string(e.Category), string(e.Status), firstLink(e)})
			}
			a.table([]string{"ID", "TITLE", "CATEGORY", "STATUS", "LINK"}, rows)
			a.pageFooter(page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	queryFlags(list, &q)
	list.Flags().StringVar(&q.Category, "category", "", "filter by category")

	var in domain.KnowledgeBaseEntry
	var category, status string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Category, in.Status = domain.KnowledgeCategory(category), domain.EntryStatus(status)
			out, res, err := a.svc.CreateKnowledgeBaseEntry(cmd.Context(), a.principal(cmd), in)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	entryFlags(add, &in, &category, &status)
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("category")

	var patch domain.KnowledgeBaseEntry
	var patchCategory, patchStatus string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, actor := cmd.Context(), a.principal(cmd)
			current, err := a.svc.GetKnowledgeBaseEntry(ctx, actor, args[0])
			if err != nil {
				return done(err)
			}
			f := cmd.Flags()
			for name, apply := range map[string]func(){
				"title":       func() { current.Title = patch.Title },
				"description": func() { current.Description = patch.Description },
				"video":       func() { current.VideoURL = patch.VideoURL },
				"blog":        func() { current.BlogURL = patch.BlogURL },
				"file":        func() { current.FileURL = patch.FileURL },
				"category":    func() { current.Category = domain.KnowledgeCategory(patchCategory) },
				"status":      func() { current.Status = domain.EntryStatus(patchStatus) },
			} {
				if f.Changed(name) {
					apply()
				}
			}
			out, res, err := a.svc.UpdateKnowledgeBaseEntry(ctx, actor, current)
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			fmt.Fprintln(a.stdout, out.ID)
			return nil
		},
	}
	entryFlags(edit, &patch, &patchCategory, &patchStatus)

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.DeleteKnowledgeBaseEntry(cmd.Context(), a.principal(cmd), args[0])
			if err != nil {
				return done(err)
			}
			a.warnings(res)
			return nil
		},
	}

	root.AddCommand(list, add, edit, remove)
	return root
}

func entryFlags(cmd *cobra.Command, e *domain.KnowledgeBaseEntry, category, status *string) {
	f := cmd.Flags()
	f.StringVar(&e.Title, "title", "", "entry title")
	f.StringVarP(&e.Description, "description", "d", "", "summary")
	f.StringVar(&e.VideoURL, "video", "", "video URL")
	f.StringVar(&e.BlogURL, "blog", "", "blog URL")
	f.StringVar(&e.FileURL, "file", "", "file URL")
	f.StringVar(category, "category", "", "Services, Case Studies or Testimonials")
	f.StringVar(status, "status", "", "active or inactive")
}

func firstLink(e domain.KnowledgeBaseEntry) string {
	for _, link := range []string{e.VideoURL, e.BlogURL, e.FileURL} {
		if link != "" {
			return link
		}
	}
	return "-"
}
