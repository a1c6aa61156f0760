package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/db"
	"github.com/yumyai/bgcclass/pkg/embed"
)

// importProtVecCmd converts a word2vec text model into the SQLite table the service reads.
var importProtVecCmd = &cobra.Command{
	Use:     "import-protvec WORD2VEC_TXT SQLITE_DB",
	Short:   "Store a word2vec text ProtVec model in a SQLite file",
	Args:    cobra.ExactArgs(2),
	Example: "  bgcclass import-protvec protVec_100d_3grams.txt models/biovec/uniprot2vec.db",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		vectors, err := embed.LoadWord2VecText(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if err := db.WriteProtVecSQLite(args[1], vectors); err != nil {
			return err
		}
		logger.Info("Imported ProtVec model", zap.String("db", args[1]), zap.Int("kmers", len(vectors)))
		fmt.Fprintf(cmd.OutOrStdout(), "stored %d k-mers in %s\n", len(vectors), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importProtVecCmd)
}
