package main

import (
	"fmt"
	"log"

	"housekeeper/internal/crawler"
	"housekeeper/internal/extractor"

	"github.com/spf13/cobra"
)

var datesCmd = &cobra.Command{
	Use:   "dates [folder]",
	Short: "List the date each photo or video in a folder was taken",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		root := cfg.Photos.Root
		if len(args) > 0 {
			root = args[0]
		}

		ext := extractor.NewExtractor(extractor.Options{
			ImageExts:    cfg.Photos.ImageExts,
			VideoExts:    cfg.Photos.VideoExts,
			ExiftoolPath: cfg.Photos.ExiftoolPath,
		})
		defer ext.Close()

		found, total := 0, 0
		err := crawler.NewCrawler(ext).ScanFolder(root, func(md extractor.MediaDate) {
			total++
			if md.Found {
				found++
			}
			fmt.Println(md)
		})
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		log.Printf("%d of %d files have a date", found, total)
	},
}
