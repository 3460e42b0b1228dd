/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/notion-import/importer"
	"github.com/toothbrush/notion-import/markdown"
	"github.com/toothbrush/notion-import/plugins"
)

var importUsage = strings.TrimSpace(`
Import every Markdown file matching --glob below --base-path into Notion, under a page you choose.

The page is found by searching for --base-page (you'll be asked to pick if there are several), or
given directly with --base-page-id.  Failed files don't stop the import; they're listed in the
error report at the end.
`)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import Markdown files into Notion",
	Long:  importUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runImport(ctx)
	},
}

var (
	BasePath    string
	Glob        string
	BasePage    string
	BasePageID  string
	PluginNames []string
	RowOrder    string
	FolderCache string
	ErrorReport string
	WithVCR     bool
	StrictImage bool

	ImagesPath       string
	AzureBlobURL     string
	AzureBlobAccount string
	S3Endpoint       string
	S3Bucket         string
	S3AccessKey      string
	S3SecretKey      string
	S3PublicURL      string
	S3Insecure       bool
	DevOpsUserCache  string
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&BasePath, "base-path", ".", "directory the glob is relative to")
	importCmd.Flags().StringVar(&Glob, "glob", "**/*.md", "files to import, quote it so your shell leaves it alone")
	importCmd.Flags().StringVar(&BasePage, "base-page", "", "search for the page to import under")
	importCmd.Flags().StringVar(&BasePageID, "base-page-id", "", "ID of the page to import under, skips the search")
	importCmd.Flags().StringSliceVar(&PluginNames, "plugins", []string{}, "plugins to run, in order (see `list plugins`), or none")
	importCmd.Flags().StringVar(&RowOrder, "row-order", "forward", "order table rows are added to databases: forward or reverse")
	importCmd.Flags().StringVar(&FolderCache, "folder-cache", "segment", "how folder pages are reused: segment (same-named directories share one page, wherever they are) or path")
	importCmd.Flags().StringVar(&ErrorReport, "error-report", "import-errors.json", "where to write the list of failed files")
	importCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	importCmd.Flags().BoolVar(&StrictImage, "strict-images", false, "drop images that aren't absolute http(s) URLs")

	importCmd.Flags().StringVar(&ImagesPath, "images-path", "", "where local images live (default: next to each document)")
	importCmd.Flags().StringVar(&AzureBlobURL, "azure-blob-url", "", "URL images uploaded to Azure blob storage are served from")
	importCmd.Flags().StringVar(&AzureBlobAccount, "azure-blob-account", "", "Azure storage account to upload images to, with the az CLI")
	importCmd.Flags().StringVar(&S3Endpoint, "s3-endpoint", "", "S3 compatible endpoint to upload images to, e.g. s3.amazonaws.com")
	importCmd.Flags().StringVar(&S3Bucket, "s3-bucket", "", "bucket to upload images to")
	importCmd.Flags().StringVar(&S3AccessKey, "s3-access-key", "", "S3 access key")
	importCmd.Flags().StringVar(&S3SecretKey, "s3-secret-key", "", "S3 secret key")
	importCmd.Flags().StringVar(&S3PublicURL, "s3-public-url", "", "URL uploaded images are served from (default: the bucket URL)")
	importCmd.Flags().BoolVar(&S3Insecure, "s3-insecure", false, "talk plain HTTP to the S3 endpoint")
	importCmd.Flags().StringVar(&DevOpsUserCache, "devops-user-cache", "", "file to cache Azure DevOps user names in (default: under your cache directory)")
}

func pluginOptions() plugins.Options {
	return plugins.Options{
		ImagesPath:       ImagesPath,
		AzureBlobURL:     AzureBlobURL,
		AzureBlobAccount: AzureBlobAccount,
		S3: plugins.S3Options{
			Endpoint:  S3Endpoint,
			Bucket:    S3Bucket,
			AccessKey: S3AccessKey,
			SecretKey: S3SecretKey,
			PublicURL: S3PublicURL,
			Insecure:  S3Insecure,
		},
		UserCachePath: DevOpsUserCache,
		Logger:        Logger,
	}
}

func runImport(ctx context.Context) error {
	basePath, err := homedir.Expand(BasePath)
	if err != nil {
		return fmt.Errorf("notion-import: couldn't expand homedir: %w", err)
	}
	rowOrder, err := importer.ParseRowOrder(RowOrder)
	if err != nil {
		return err
	}
	folderCache, err := importer.ParseFolderCacheMode(FolderCache)
	if err != nil {
		return err
	}

	files, err := importer.DiscoverFiles(basePath, Glob)
	if err != nil {
		return fmt.Errorf("notion-import: couldn't list files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No files found to import, make sure you add your glob in quotes")
		return nil
	}
	Logger.Debug("found files", "count", len(files), "base", basePath, "glob", Glob)

	chain, warnings := plugins.Default().Load(strings.Join(PluginNames, ","), pluginOptions())
	for _, w := range warnings {
		Logger.Warn("plugin not loaded", "err", w)
	}
	Logger.Debug("plugins", "chain", chain)

	api, stopVCR, err := notionAPI(WithVCR)
	if err != nil {
		return err
	}
	defer func() {
		if err := stopVCR(); err != nil {
			Logger.Warn("couldn't stop go-vcr recorder", "err", err)
		}
	}()

	observer := newProgressObserver(Debug, Logger, os.Stdout)
	im := importer.New(importer.Config{
		Service:     api,
		Converter:   markdown.NewConverter(markdown.Options{StrictImageURLs: StrictImage}),
		Plugins:     chain,
		BasePath:    basePath,
		RowOrder:    rowOrder,
		FolderCache: folderCache,
		Timeout:     RequestTimeout,
		Logger:      Logger,
		Observer:    observer,
	})

	target, ok, err := resolveTarget(ctx, im)
	if errors.Is(err, importer.ErrNoPagesFound) {
		fmt.Println("No pages found - try a different base page search?")
		return nil
	}
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	Logger.Info("importing", "files", len(files), "target", target.Title, "plugins", chain)

	report := im.Run(ctx, target, files)
	observer.Wait()

	reportPath := ""
	if report.Failed() {
		if err := importer.WriteErrorReport(ErrorReport, report); err != nil {
			Logger.Error("couldn't write error report", "err", err)
		} else {
			reportPath = ErrorReport
		}
	}
	fmt.Println(renderSummary(report, reportPath))

	return nil
}

func resolveTarget(ctx context.Context, im *importer.Importer) (importer.Target, bool, error) {
	if BasePageID != "" {
		target, err := importer.TargetFromID(BasePageID)
		return target, err == nil, err
	}
	return im.ResolveTarget(ctx, BasePage, teaSelector{Title: "Import under which page?"})
}
