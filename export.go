package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/app"
	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
)

var outputDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the portfolio as a static site",
	Long: `Export renders the page once with every section settled and writes
index.html next to copies of the static and images directories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck
		return export(cfg, log, outputDir)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "dist", "output directory")
	rootCmd.AddCommand(exportCmd)
}

func export(cfg *config.Config, log *zap.Logger, out string) error {
	site, err := content.Load(cfg.Content.File)
	if err != nil {
		return fmt.Errorf("loading site content: %w", err)
	}
	page, err := app.Export(site, "static", log)
	if err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", out, err)
	}
	index := filepath.Join(out, "index.html")
	if err := os.WriteFile(index, []byte(page), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", index, err)
	}

	for name, src := range map[string]string{
		"static": cfg.Server.StaticDir,
		"images": cfg.Server.ImagesDir,
	} {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			log.Warn("asset directory missing, skipping", zap.String("dir", src))
			continue
		}
		if err := copyDirContents(src, filepath.Join(out, name)); err != nil {
			return err
		}
	}
	log.Info("site exported", zap.String("output", out))
	return nil
}

// copyDirContents copies everything under src into dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)
		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(path, dstPath); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", path, dstPath, err)
		}
		return nil
	})
}

func copyFile(srcFile, dstFile string) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy contents: %w", err)
	}
	return dstF.Sync()
}
