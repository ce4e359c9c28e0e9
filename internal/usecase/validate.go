package usecase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pix-checkout/internal/domain"
)

// CardInput is captured as typed. Only presence and a plausible digit count
// are checked since cards are never authorized.
type CardInput struct {
	Number       string `json:"number" validate:"required,carddigits"`
	Holder       string `json:"holder" validate:"required"`
	Expiry       string `json:"expiry" validate:"required"`
	CVV          string `json:"cvv" validate:"required"`
	Installments int    `json:"installments" validate:"min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("cpfcnpj", func(fl validator.FieldLevel) bool {
		return domain.ValidTaxID(fl.Field().String())
	})
	_ = v.RegisterValidation("phonebr", func(fl validator.FieldLevel) bool {
		return domain.ValidPhoneBR(fl.Field().String())
	})
	_ = v.RegisterValidation("carddigits", func(fl validator.FieldLevel) bool {
		n := len(domain.Digits(fl.Field().String()))
		return n >= 12 && n <= 19
	})
	return v
}

var messages = map[string]string{
	"required":   "campo obrigatório",
	"email":      "e-mail inválido",
	"cpfcnpj":    "CPF/CNPJ inválido",
	"phonebr":    "telefone inválido",
	"carddigits": "número do cartão inválido",
}

// validateStruct runs the struct tags on v and reports every failing field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "valor inválido"
		}
		fields[fe.Field()] = msg
	}
	return &domain.ValidationError{Fields: fields}
}

// normalizeBuyer trims input and keeps only digits in phone and tax id.
func normalizeBuyer(b domain.Buyer) domain.Buyer {
	return domain.Buyer{
		Name:  strings.Join(strings.Fields(b.Name), " "),
		Email: strings.ToLower(strings.TrimSpace(b.Email)),
		Phone: domain.Digits(b.Phone),
		TaxID: domain.Digits(b.TaxID),
	}
}
