package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"posconsole/internal/domain"
	"posconsole/internal/export"
	"posconsole/internal/repository/referencerepo"
	"posconsole/internal/repository/transactionrepo"
	"posconsole/internal/service/historyservice"
)

var (
	filterUserID int64
	startDate    string
	endDate      string
	exportFormat string
	outputPath   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lista ou exporta o histórico enriquecido de transações",
	Example: `  txctl history --start 2024-01-01 --end 2024-01-31
  txctl history --format xlsx -o enero.xlsx`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int64Var(&filterUserID, "filter-user", 0, "filtra pelo usuário que registrou")
	historyCmd.Flags().StringVar(&startDate, "start", "", "data inicial (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&endDate, "end", "", "data final (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&exportFormat, "format", "", "exporta em csv ou xlsx em vez de imprimir a tabela")
	historyCmd.Flags().StringVarP(&outputPath, "output", "o", "", "arquivo de saída da exportação (padrão: stdout)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := newLogger()
	api, ctx, err := newClient(log)
	if err != nil {
		return err
	}

	svc := historyservice.NewService(
		transactionrepo.NewTransactionRepository(api, log),
		referencerepo.NewReferenceRepository(api, nil, 0, log),
		log,
		nil,
	)

	filter := domain.TransactionFilter{StartDate: startDate, EndDate: endDate}
	if filterUserID != 0 {
		filter.UserID = &filterUserID
	}

	history, err := svc.List(ctx, filter)
	if err != nil {
		return err
	}
	for _, warning := range history.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "aviso:", warning)
	}

	if exportFormat == "" {
		return printTable(cmd.OutOrStdout(), history.Transactions)
	}

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		fh, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer fh.Close()
		w = fh
	}
	return export.Write(w, format, history.Transactions)
}

func printTable(w io.Writer, views []domain.EnrichedTransaction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := export.Rows(views)
	for _, row := range append([][]string{export.Header}, rows...) {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
