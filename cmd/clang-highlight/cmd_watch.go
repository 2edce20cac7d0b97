package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gangfan/clang-highlight/cpp/highlight"
)

func newWatchCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-highlight C++ files to HTML whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}

			// Initial pass over whatever is already there.
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("read dir: %w", err)
			}
			for _, entry := range entries {
				if entry.IsDir() || !isCPPFile(entry.Name()) {
					continue
				}
				path := filepath.Join(dir, entry.Name())
				if err := renderHTML(path, outputDir); err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				}
			}

			// Editors fire several events per save; coalesce them with a
			// short settle timer per path.
			pending := make(map[string]*time.Timer)
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					if !isCPPFile(event.Name) {
						continue
					}
					path := event.Name
					if timer, ok := pending[path]; ok {
						timer.Stop()
					}
					pending[path] = time.AfterFunc(100*time.Millisecond, func() {
						if err := renderHTML(path, outputDir); err != nil {
							fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
						} else {
							fmt.Fprintf(os.Stderr, "highlighted %s\n", path)
						}
					})
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&outputDir, "out", "o", ".", "directory for generated .html files")

	return cmd
}

func isCPPFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".cpp", ".cc", ".cxx", ".h", ".hpp", ".hh":
		return true
	}
	return false
}

func renderHTML(path, outputDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	doc := highlight.FromSource(data, path)

	outPath := filepath.Join(outputDir, filepath.Base(path)+".html")
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := highlight.NewHTMLEncoder(out).Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
