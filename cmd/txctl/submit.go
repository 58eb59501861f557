package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"posconsole/internal/draftfile"
	apperror "posconsole/internal/errors"
	"posconsole/internal/repository/transactionrepo"
	"posconsole/internal/transaction"
)

var (
	draftPath string
	dryRun    bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Valida e envia um rascunho descrito em YAML",
	Example: `  txctl submit -f venta.yaml --dry-run
  txctl submit -f reposicion.yaml --token $TOKEN`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&draftPath, "file", "f", "", "arquivo YAML do rascunho")
	submitCmd.Flags().BoolVar(&dryRun, "dry-run", false, "apenas valida e mostra o corpo que seria enviado")
	_ = submitCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	file, err := draftfile.LoadPath(draftPath)
	if err != nil {
		return err
	}
	draft, err := file.Draft()
	if err != nil {
		return err
	}

	req, err := transaction.Prepare(draft.State())
	if err != nil {
		for field, msg := range apperror.FieldsOf(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
		}
		return err
	}

	out := json.NewEncoder(cmd.OutOrStdout())
	out.SetIndent("", "  ")
	if dryRun {
		return out.Encode(req)
	}

	log := newLogger()
	api, ctx, err := newClient(log)
	if err != nil {
		return err
	}

	key := uuid.NewString()
	resp, err := transactionrepo.NewTransactionRepository(api, log).SubmitBulk(ctx, req, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Transacción registrada (clave %s).\n", key)
	return out.Encode(resp)
}
