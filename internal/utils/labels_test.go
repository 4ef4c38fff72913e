package utils_test

import (
	"testing"

	"github.com/Jonatasvm/backendGB/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPaymentMethod(t *testing.T) {
	tests := map[string]string{
		"pix":               "Pix",
		"PIX":               "Pix",
		" Boleto ":          "Boleto",
		"cheque":            "Cheque",
		"transferencia":     "Transferencia",
		"cartão de crédito": "Cartão De Crédito",
		"":                  "",
	}
	for raw, want := range tests {
		assert.Equal(t, want, utils.CanonicalPaymentMethod(raw), raw)
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Residencial Jardim Das Flores", utils.TitleCase("RESIDENCIAL jardim das flores"))
}

func TestNewAllocationGroupToken(t *testing.T) {
	a, err := utils.NewAllocationGroupToken()
	require.NoError(t, err)
	b, err := utils.NewAllocationGroupToken()
	require.NoError(t, err)

	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := utils.GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	_, err = utils.GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1234.56", utils.FormatMoney(123456))
	assert.Equal(t, "0.05", utils.FormatMoney(5))
	assert.Equal(t, "400.00", utils.FormatMoney(40000))
}
