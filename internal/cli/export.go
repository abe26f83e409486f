package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to a timestamped JSON file",
		Long: "Write the catalog to recipes_YYYYMMDD_HHMMSS.json in the output directory, or to stdout with -o -.\n" +
			"With --clear the catalog is emptied, but only after the file was written.",
		Run: runExport,
	}

	cmd.Flags().StringP("output", "o", ".", "Output directory, or - for stdout")
	cmd.Flags().Bool("clear", false, "Empty the catalog after a successful export")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("output")
	clearAfter, _ := cmd.Flags().GetBool("clear")

	catalog := openCatalog(cmd)

	artifact, err := catalog.Export()
	if err != nil {
		exitErr("export", err)
	}

	path := "-"
	if out == "-" {
		if _, err := os.Stdout.Write(append(artifact.Data, '\n')); err != nil {
			exitErr("write stdout", err)
		}
	} else {
		if err := os.MkdirAll(out, 0o755); err != nil {
			exitErr("create output dir", err)
		}
		path = filepath.Join(out, artifact.Name)
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			exitErr("write export", err)
		}
	}

	// Clear only once the export is safely written.
	if clearAfter {
		if err := catalog.Clear(cmd.Context()); err != nil {
			exitErr("clear catalog", err)
		}
	}

	if out != "-" {
		fmt.Printf(`{"ok":true,"path":%q,"records":%d,"cleared":%t}`+"\n", path, len(artifact.Records), clearAfter)
	}
}
