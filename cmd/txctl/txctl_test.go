package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_DryRunPrintsPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transactionType: sale
pointOfSaleId: 1
paymentMethod: qr
remarks: venta mostrador
items:
  - inventoryId: 10
    quantity: 2
    price: "100"
`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"submit", "-f", path, "--dry-run"})

	require.NoError(t, rootCmd.Execute())

	assert.JSONEq(t, `{
		"transactionType": "sale",
		"remarks": "venta mostrador",
		"items": [{"inventoryId": 10, "quantity": 2}],
		"paymentMethod": "transfer",
		"discount": 0
	}`, out.String())
}

func TestResolveToken_Fail_NoCredentials(t *testing.T) {
	t.Setenv("BACKEND_TOKEN", "")
	t.Setenv("JWT_SECRET_KEY", "")
	apiToken, userID = "", 0

	_, err := resolveToken()

	assert.Error(t, err)
}

func TestResolveToken_MintsWithSecret(t *testing.T) {
	t.Setenv("BACKEND_TOKEN", "")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	apiToken, userID, userRole = "", 7, "seller"
	t.Cleanup(func() { apiToken, userID, userRole = "", 0, "admin" })

	tok, err := resolveToken()

	require.NoError(t, err)
	assert.NotEmpty(t, tok)
}
