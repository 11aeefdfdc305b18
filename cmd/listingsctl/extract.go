package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/listings-service/internal/entity"
	"github.com/user/listings-service/internal/extractor"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the extraction strategies on a saved document",
	Long: `Extract reads an HTML page, JSON search response or Atom feed from disk
(or stdin with --file -) and prints the extraction result as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		kindName, _ := cmd.Flags().GetString("kind")
		sourceURL, _ := cmd.Flags().GetString("source-url")

		kind, ok := entity.ParseDocumentKind(kindName)
		if !ok {
			return fmt.Errorf("unknown document kind %q (want html, json or atom)", kindName)
		}

		var body []byte
		var err error
		if file == "-" {
			body, err = io.ReadAll(cmd.InOrStdin())
		} else {
			body, err = os.ReadFile(file)
		}
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}

		orch := extractor.NewOrchestrator(extractor.DefaultSource().WithOrigin(cfg.FinnOrigin), log.Named("extractor"))
		return runExtract(cmd.OutOrStdout(), orch, entity.RawDocument{
			Kind:       kind,
			Body:       string(body),
			SourceURL:  sourceURL,
			HTTPStatus: 200,
		})
	},
}

func runExtract(w io.Writer, orch *extractor.Orchestrator, doc entity.RawDocument) error {
	return printJSON(w, orch.Run(doc))
}

func init() {
	extractCmd.Flags().String("file", "", "document to parse, - for stdin")
	extractCmd.Flags().String("kind", "html", "document kind: html, json or atom")
	extractCmd.Flags().String("source-url", "", "URL the document was fetched from")
	_ = extractCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(extractCmd)
}
