package settings

import (
	"github.com/shopspring/decimal"

	"pix-checkout/internal/domain"
)

// Defaults returns the checkout configuration used for every setting the
// merchant has not stored.
func Defaults() domain.CheckoutConfig {
	return domain.CheckoutConfig{
		BackgroundColor:     "#f9fafb",
		ButtonColor:         "#22c55e",
		ButtonText:          "Finalizar compra",
		ShowTestimonials:    true,
		TestimonialsTitle:   "O que nossos clientes dizem",
		ShowVisitorCounter:  true,
		BlockedTaxIDs:       []string{},
		PaymentMethods:      []domain.PaymentMethod{domain.MethodPix, domain.MethodCard},
		OneCheckoutEnabled:  false,
		PaymentSecurityText: "Pagamento 100% seguro",
		BannerBgColor:       "#f3f4f6",
		Header: domain.Banner{
			Show:      true,
			Text:      "Oferta por tempo limitado!",
			BgColor:   "#ef4444",
			TextColor: "#ffffff",
		},
		Footer: domain.Banner{
			Show: true,
			Text: "© 2023 Todos os direitos reservados",
		},
		FormHeader: domain.Banner{
			Show:      true,
			Text:      "PREENCHA SEUS DADOS ABAIXO",
			BgColor:   "#dc2626",
			TextColor: "#ffffff",
		},
		Timer: domain.Timer{
			Enabled:   false,
			Minutes:   15,
			Text:      "Oferta expira em:",
			BgColor:   "#ef4444",
			TextColor: "#ffffff",
		},
		DiscountBadge: domain.DiscountBadge{
			Enabled: false,
			Text:    "Oferta especial",
			Amount:  decimal.Zero,
		},
		Company: domain.Company{
			Name:         "Minha Empresa",
			Description:  "Descrição da empresa",
			ContactEmail: "contato@empresa.com",
			ContactPhone: "(11) 9999-9999",
		},
		Legal: domain.Legal{
			ShowTermsLink:   true,
			ShowPrivacyLink: true,
			TermsURL:        "/termos",
			PrivacyURL:      "/privacidade",
		},
		ManualPix: domain.ManualPix{
			KeyType:          "email",
			BeneficiaryName:  "Nome do Beneficiário",
			ExpiryMinutes:    15,
			ShowQRCodeMobile: true,
		},
		PixPage: domain.PixPage{
			Title:             "Finalize seu pagamento com PIX",
			Subtitle:          "Escaneie o QR Code ou copie o código para realizar o pagamento",
			TimerText:         "Faltam {minutos}:{segundos} para o pagamento expirar",
			ButtonText:        "Já fiz o pagamento",
			SecurityText:      "Seu pagamento está 100% seguro e criptografado",
			SummaryTitle:      "Resumo da compra",
			ShowProduct:       true,
			ShowTerms:         true,
			LearnMoreText:     "Saiba mais sobre o PIX",
			CopiedText:        "Código copiado!",
			InstructionsTitle: "Como pagar com PIX",
			Instructions: []string{
				"Abra o aplicativo do seu banco",
				"Escolha a opção PIX",
				"Escaneie o QR Code ou cole o código",
				"Confirme os dados e finalize o pagamento",
			},
		},
		FAQs: []domain.FAQ{},
	}
}
