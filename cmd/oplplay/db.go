// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ik5/oplpbx/database"
)

var dbCmd = &cobra.Command{
	Use:   "db [module]...",
	Short: "List the module database, or look modules up in it",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, rec := range db.Records() {
				printRecord(out, rec)
			}
			return nil
		}

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read module: %w", err)
			}
			key := database.KeyOf(data)
			rec, ok := db.Lookup(key)
			if !ok {
				fmt.Fprintf(out, "%s\t%s\tnot in database\n", filepath.Base(path), key)
				continue
			}
			printRecord(out, rec)
		}
		return nil
	},
}

func printRecord(w io.Writer, rec database.Record) {
	fields := []field{
		{"type", rec.Type},
		{"file type", rec.FileType},
		{"comment", rec.Comment},
	}
	switch rec.Type {
	case database.SongInfo:
		fields = append(fields, field{"title", rec.Title}, field{"author", rec.Author})
	case database.ClockSpeed:
		fields = append(fields, field{"clock", fmt.Sprintf("%g Hz", rec.ClockHz)})
	}
	fmt.Fprint(w, report(rec.Key.String(), fields...))
}
