package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nfrund/student-portal/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the student JSON export to a file",
	Long: `Write the same JSON array GET /api/students returns to a file.

Example:
  portal export --out students.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		return exportStudents(cmd.Context(), deps.Students, storage.NewOSStore(), exportOut, cmd.OutOrStdout())
	},
}

func exportStudents(ctx context.Context, exporter storage.Exporter, store storage.Store, path string, out io.Writer) error {
	if path == "" {
		return errors.New("--out is required")
	}

	n, err := storage.WriteExport(ctx, store, path, exporter)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d bytes to %s\n", n, path)
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "file to write the export to")
	rootCmd.AddCommand(exportCmd)
}
