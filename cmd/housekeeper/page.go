package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"housekeeper/internal/confluence"
	"housekeeper/internal/layout"
	"housekeeper/internal/pipeline"

	"github.com/spf13/cobra"
)

const requestBudget = 2 * time.Minute

var (
	sectionHeading string
	sectionText    string
	fragmentFile   string
	beforeHeadings []string
	afterHeadings  []string

	watchFile bool

	diagramBase     string
	diagramRef      string
	diagramTokenEnv string
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Read, create and edit Confluence pages",
}

func init() {
	insertSectionCmd.Flags().StringVar(&sectionHeading, "heading", "", "Heading of a generated single-column section")
	insertSectionCmd.Flags().StringVar(&sectionText, "text", "", "Paragraph of a generated single-column section")
	insertSectionCmd.Flags().StringVar(&fragmentFile, "fragment-file", "", "File holding a complete ac:layout-section")
	// Headings may contain commas, so anchors are repeated flags rather than CSV lists.
	insertSectionCmd.Flags().StringArrayVar(&beforeHeadings, "before", nil, "Insert after the last section with this heading (repeatable)")
	insertSectionCmd.Flags().StringArrayVar(&afterHeadings, "after", nil, "Insert before the first section with this heading (repeatable)")

	appendSectionCmd.Flags().StringVar(&sectionHeading, "heading", "", "Heading of a generated single-column section")
	appendSectionCmd.Flags().StringVar(&sectionText, "text", "", "Paragraph of a generated single-column section")
	appendSectionCmd.Flags().StringVar(&fragmentFile, "fragment-file", "", "File holding a complete ac:layout-section")

	pushCmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Keep running and push again whenever the file changes")

	addDiagramsCmd.Flags().StringVar(&diagramBase, "source-base", "", "GitLab files API URL of the diagram directory (URL-escaped path)")
	addDiagramsCmd.Flags().StringVar(&diagramRef, "ref", "main", "Git ref the diagrams are read from")
	addDiagramsCmd.Flags().StringVar(&diagramTokenEnv, "token-env", "GITLAB_TOKEN", "Environment variable holding the GitLab token")
	_ = addDiagramsCmd.MarkFlagRequired("source-base")

	pageCmd.AddCommand(getPageCmd)
	pageCmd.AddCommand(sectionsCmd)
	pageCmd.AddCommand(createPageCmd)
	pageCmd.AddCommand(pushCmd)
	pageCmd.AddCommand(insertSectionCmd)
	pageCmd.AddCommand(appendSectionCmd)
	pageCmd.AddCommand(addDiagramsCmd)
}

var getPageCmd = &cobra.Command{
	Use:   "get <page-id>",
	Short: "Print a page's metadata and storage body",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sync, _ := initPageSync()
		ctx, cancel := context.WithTimeout(context.Background(), requestBudget)
		defer cancel()

		page, _, err := sync.ListSections(ctx, args[0])
		if err != nil {
			log.Fatalf("Failed to get page: %v", err)
		}
		fmt.Printf("📄 %s (id %s, space %s, version %d)\n", page.Title, page.ID, page.SpaceKey, page.Version)
		if page.WebURL != "" {
			fmt.Printf("🔗 %s\n", page.WebURL)
		}
		fmt.Println(page.Body)
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections <page-id>",
	Short: "List the layout sections of a page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sync, _ := initPageSync()
		ctx, cancel := context.WithTimeout(context.Background(), requestBudget)
		defer cancel()

		page, doc, err := sync.ListSections(ctx, args[0])
		if err != nil {
			log.Fatalf("Failed to get page: %v", err)
		}
		if !doc.HasLayout() {
			fmt.Printf("ℹ️  %s has no page layout\n", page.Title)
			return
		}

		fmt.Printf("📐 %s (version %d)\n", page.Title, page.Version)
		for i, s := range doc.Sections() {
			heading, ok := s.Heading()
			if !ok {
				heading = "(no heading)"
			}
			fmt.Printf("  %2d. [%s, %d cells] %s\n", i+1, s.Layout, len(s.Cells), heading)
		}
	},
}

var createPageCmd = &cobra.Command{
	Use:   "create <title> [file]",
	Short: "Create a page in the configured space from a .md/.html file or an empty body",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		sync, _ := initPageSync()
		ctx, cancel := context.WithTimeout(context.Background(), requestBudget)
		defer cancel()

		body := "<p></p>"
		if len(args) == 2 {
			var err error
			if body, err = pipeline.ReadContent(args[1]); err != nil {
				log.Fatalf("Failed to read content: %v", err)
			}
		}

		page, err := sync.CreatePage(ctx, args[0], body)
		if err != nil {
			log.Fatalf("Failed to create page: %v", err)
		}
		fmt.Printf("✅ Created page %s: %s\n", page.ID, page.WebURL)
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <file> <title>",
	Short: "Create or update the page titled <title> from a .md/.html file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sync, _ := initPageSync()
		file, title := args[0], args[1]

		if watchFile {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			fmt.Printf("👀 Watching %s (Ctrl+C to stop)\n", file)
			err := sync.Watch(ctx, file, title, func(page *confluence.Page, created bool, err error) {
				if err != nil {
					log.Printf("❌ Push failed: %v", err)
					return
				}
				reportPush(page, created)
			})
			if err != nil {
				log.Fatalf("Watch failed: %v", err)
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestBudget)
		defer cancel()
		page, created, err := sync.PushFile(ctx, file, title)
		if err != nil {
			log.Fatalf("Push failed: %v", err)
		}
		reportPush(page, created)
	},
}

func reportPush(page *confluence.Page, created bool) {
	verb := "Updated"
	if created {
		verb = "Created"
	}
	fmt.Printf("✅ %s %q (version %d) %s\n", verb, page.Title, page.Version, page.WebURL)
}

var insertSectionCmd = &cobra.Command{
	Use:   "insert-section <page-id>",
	Short: "Insert a layout section relative to existing section headings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sync, _ := initPageSync()
		fragment := sectionFragment()
		ctx, cancel := context.WithTimeout(context.Background(), requestBudget)
		defer cancel()

		page, err := sync.EditSection(ctx, args[0], fragment, beforeHeadings, afterHeadings)
		reportEdit(page, err)
	},
}

var appendSectionCmd = &cobra.Command{
	Use:   "append-section <page-id>",
	Short: "Append a layout section at the end of the page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sync, _ := initPageSync()
		fragment := sectionFragment()
		ctx, cancel := context.WithTimeout(context.Background(), requestBudget)
		defer cancel()

		page, err := sync.AppendSection(ctx, args[0], fragment)
		reportEdit(page, err)
	},
}

var addDiagramsCmd = &cobra.Command{
	Use:   "add-diagrams <page-id> <file>...",
	Short: "Append one html-bobswift diagram section per file",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sync, _ := initPageSync()
		src := pipeline.DiagramSource{
			BaseURL: diagramBase,
			Ref:     diagramRef,
			Token:   os.Getenv(diagramTokenEnv),
		}
		if src.Token == "" {
			log.Printf("⚠️  %s is not set; diagrams will be fetched without a token", diagramTokenEnv)
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestBudget)
		defer cancel()

		page, err := sync.AddDiagrams(ctx, args[0], args[1:], src)
		reportEdit(page, err)
	},
}

func sectionFragment() string {
	if fragmentFile != "" {
		raw, err := os.ReadFile(fragmentFile)
		if err != nil {
			log.Fatalf("Failed to read fragment: %v", err)
		}
		return string(raw)
	}
	if strings.TrimSpace(sectionHeading) == "" {
		log.Fatalf("Either --fragment-file or --heading is required")
	}
	return layout.BuildSimpleSection(sectionHeading, sectionText)
}

func reportEdit(page *confluence.Page, err error) {
	var conflict *confluence.ConflictError
	var malformed *layout.MalformedFragmentError
	switch {
	case errors.As(err, &conflict):
		log.Fatalf("❌ Page was edited by someone else since version %d; nothing was written. Run again to retry.", conflict.Version)
	case errors.As(err, &malformed):
		log.Fatalf("❌ %v", malformed)
	case err != nil:
		log.Fatalf("❌ Edit failed: %v", err)
	}
	fmt.Printf("✅ %q is now at version %d %s\n", page.Title, page.Version, page.WebURL)
}
