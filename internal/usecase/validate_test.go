package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-checkout/internal/domain"
)

func TestValidateBuyer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		buyer  domain.Buyer
		fields []string
	}{
		{
			name:  "valid cpf",
			buyer: domain.Buyer{Name: "Ana Souza", Email: "ana@example.com", Phone: "(11) 98765-4321", TaxID: "529.982.247-25"},
		},
		{
			name:  "valid cnpj",
			buyer: domain.Buyer{Name: "Loja LTDA", Email: "loja@example.com", Phone: "1133334444", TaxID: "11.222.333/0001-81"},
		},
		{
			name:   "everything wrong",
			buyer:  domain.Buyer{Name: "A", Email: "nope", Phone: "123", TaxID: "111.111.111-11"},
			fields: []string{"name", "email", "phone", "taxId"},
		},
		{
			name:   "empty",
			fields: []string{"name", "email", "phone", "taxId"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateStruct(normalizeBuyer(tt.buyer))
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			for _, f := range tt.fields {
				assert.Contains(t, ve.Fields, f)
			}
			assert.Len(t, ve.Fields, len(tt.fields))
		})
	}
}

func TestValidateCard(t *testing.T) {
	t.Parallel()

	ok := CardInput{Number: "4111 1111 1111 1111", Holder: "ANA SOUZA", Expiry: "12/30", CVV: "123", Installments: 1}
	require.NoError(t, validateStruct(ok))

	// Captured as typed: checksum and expiry format are not checked.
	loose := CardInput{Number: "4111-1111-1111-1112", Holder: "A", Expiry: "13/99", CVV: "x", Installments: 2}
	require.NoError(t, validateStruct(loose))

	bad := CardInput{Number: "1234", Installments: 0}
	var ve *domain.ValidationError
	require.True(t, errors.As(validateStruct(bad), &ve))
	for _, f := range []string{"number", "holder", "expiry", "cvv", "installments"} {
		assert.Contains(t, ve.Fields, f)
	}
}

func TestNormalizeBuyer(t *testing.T) {
	t.Parallel()

	b := normalizeBuyer(domain.Buyer{Name: "  Ana   Souza ", Email: " Ana@Example.COM", Phone: "(11) 98765-4321", TaxID: "529.982.247-25"})
	assert.Equal(t, domain.Buyer{Name: "Ana Souza", Email: "ana@example.com", Phone: "11987654321", TaxID: "52998224725"}, b)
}
