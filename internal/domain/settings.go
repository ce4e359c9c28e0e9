package domain

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Secret holds a credential. Its value only leaves through Reveal.
type Secret string

func (s Secret) Reveal() string { return string(s) }

func (s Secret) Empty() bool { return s == "" }

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

func (s Secret) LogValue() slog.Value { return slog.StringValue(s.String()) }

func (s Secret) MarshalJSON() ([]byte, error) { return []byte(`"` + s.String() + `"`), nil }

type GlobalConfig struct {
	GatewayEnabled bool   `json:"gatewayEnabled"`
	GatewayToken   Secret `json:"gatewayToken"`
	GatewaySandbox bool   `json:"gatewaySandbox"`
}

// GatewayUsable reports whether PIX charges may be issued through the
// gateway. An empty token counts as disabled.
func (g GlobalConfig) GatewayUsable() bool {
	return g.GatewayEnabled && !g.GatewayToken.Empty()
}

// GlobalRecord is the platform settings row as stored; nil means unset.
type GlobalRecord struct {
	GatewayEnabled *bool   `json:"gateway_enabled,omitempty"`
	GatewayToken   *string `json:"gateway_token,omitempty"`
	GatewaySandbox *bool   `json:"gateway_sandbox,omitempty"`
}

type Banner struct {
	Text      string `json:"text"`
	Show      bool   `json:"show"`
	BgColor   string `json:"bgColor"`
	TextColor string `json:"textColor"`
}

type Timer struct {
	Enabled   bool   `json:"enabled"`
	Minutes   int    `json:"minutes"`
	Text      string `json:"text"`
	BgColor   string `json:"bgColor"`
	TextColor string `json:"textColor"`
}

type DiscountBadge struct {
	Enabled       bool             `json:"enabled"`
	Text          string           `json:"text"`
	Amount        decimal.Decimal  `json:"amount"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
}

type Company struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

type Legal struct {
	ShowTermsLink   bool   `json:"showTermsLink"`
	ShowPrivacyLink bool   `json:"showPrivacyLink"`
	TermsURL        string `json:"termsUrl"`
	PrivacyURL      string `json:"privacyUrl"`
}

type ManualPix struct {
	Key              string `json:"key"`
	KeyType          string `json:"keyType"`
	QRCode           string `json:"qrCode"`
	Message          string `json:"message"`
	BeneficiaryName  string `json:"beneficiaryName"`
	ExpiryMinutes    int    `json:"expiryMinutes"`
	RedirectURL      string `json:"redirectUrl"`
	ShowQRCodeMobile bool   `json:"showQrCodeMobile"`
}

type PixPage struct {
	Title             string   `json:"title"`
	Subtitle          string   `json:"subtitle"`
	TimerText         string   `json:"timerText"`
	ButtonText        string   `json:"buttonText"`
	SecurityText      string   `json:"securityText"`
	SummaryTitle      string   `json:"summaryTitle"`
	ShowProduct       bool     `json:"showProduct"`
	ShowTerms         bool     `json:"showTerms"`
	LearnMoreText     string   `json:"learnMoreText"`
	CopiedText        string   `json:"copiedText"`
	InstructionsTitle string   `json:"instructionsTitle"`
	Instructions      []string `json:"instructions"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CheckoutConfig is the fully resolved per-product checkout configuration.
// Every field carries a value; callers never deal with unset settings.
type CheckoutConfig struct {
	ProductID           string          `json:"productId"`
	BackgroundColor     string          `json:"backgroundColor"`
	ButtonColor         string          `json:"buttonColor"`
	ButtonText          string          `json:"buttonText"`
	ShowTestimonials    bool            `json:"showTestimonials"`
	TestimonialsTitle   string          `json:"testimonialsTitle"`
	ShowVisitorCounter  bool            `json:"showVisitorCounter"`
	BlockedTaxIDs       []string        `json:"-"`
	PaymentMethods      []PaymentMethod `json:"paymentMethods"`
	OneCheckoutEnabled  bool            `json:"oneCheckoutEnabled"`
	PaymentSecurityText string          `json:"paymentSecurityText"`
	BannerImage         string          `json:"bannerImage,omitempty"`
	BannerBgColor       string          `json:"bannerBgColor"`
	Header              Banner          `json:"header"`
	Footer              Banner          `json:"footer"`
	FormHeader          Banner          `json:"formHeader"`
	Timer               Timer           `json:"timer"`
	DiscountBadge       DiscountBadge   `json:"discountBadge"`
	Company             Company         `json:"company"`
	Legal               Legal           `json:"legal"`
	ManualPix           ManualPix       `json:"manualPix"`
	PixPage             PixPage         `json:"pixPage"`
	FAQs                []FAQ           `json:"faqs"`
}

func (c CheckoutConfig) Accepts(m PaymentMethod) bool {
	for _, pm := range c.PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

func (c CheckoutConfig) Blocks(taxID string) bool {
	d := Digits(taxID)
	if d == "" {
		return false
	}
	for _, b := range c.BlockedTaxIDs {
		if Digits(b) == d {
			return true
		}
	}
	return false
}

// CheckoutRecord is the per-product settings document as stored. Field names
// follow the storage columns; nil means the merchant never set the value.
type CheckoutRecord struct {
	CorFundo               *string          `json:"cor_fundo,omitempty"`
	CorBotao               *string          `json:"cor_botao,omitempty"`
	TextoBotao             *string          `json:"texto_botao,omitempty"`
	ExibirTestemunhos      *bool            `json:"exibir_testemunhos,omitempty"`
	NumeroAleatorioVisitas *bool            `json:"numero_aleatorio_visitas,omitempty"`
	BloquearCpfs           []string         `json:"bloquear_cpfs,omitempty"`
	ChavePix               *string          `json:"chave_pix,omitempty"`
	QRCode                 *string          `json:"qr_code,omitempty"`
	MensagemPix            *string          `json:"mensagem_pix,omitempty"`
	TempoExpiracao         *int             `json:"tempo_expiracao,omitempty"`
	NomeBeneficiario       *string          `json:"nome_beneficiario,omitempty"`
	TipoChave              *string          `json:"tipo_chave,omitempty"`
	TimerEnabled           *bool            `json:"timer_enabled,omitempty"`
	TimerMinutes           *int             `json:"timer_minutes,omitempty"`
	TimerText              *string          `json:"timer_text,omitempty"`
	TimerBgColor           *string          `json:"timer_bg_color,omitempty"`
	TimerTextColor         *string          `json:"timer_text_color,omitempty"`
	DiscountBadgeText      *string          `json:"discount_badge_text,omitempty"`
	DiscountBadgeEnabled   *bool            `json:"discount_badge_enabled,omitempty"`
	DiscountAmount         *decimal.Decimal `json:"discount_amount,omitempty"`
	OriginalPrice          *decimal.Decimal `json:"original_price,omitempty"`
	PaymentSecurityText    *string          `json:"payment_security_text,omitempty"`
	ImagemBanner           *string          `json:"imagem_banner,omitempty"`
	BannerBgColor          *string          `json:"banner_bg_color,omitempty"`
	PaymentMethods         []string         `json:"payment_methods,omitempty"`
	ShowHeader             *bool            `json:"show_header,omitempty"`
	HeaderMessage          *string          `json:"header_message,omitempty"`
	HeaderBgColor          *string          `json:"header_bg_color,omitempty"`
	HeaderTextColor        *string          `json:"header_text_color,omitempty"`
	ShowFooter             *bool            `json:"show_footer,omitempty"`
	FooterText             *string          `json:"footer_text,omitempty"`
	TestimonialsTitle      *string          `json:"testimonials_title,omitempty"`
	OneCheckoutEnabled     *bool            `json:"one_checkout_enabled,omitempty"`
	FormHeaderText         *string          `json:"form_header_text,omitempty"`
	FormHeaderBgColor      *string          `json:"form_header_bg_color,omitempty"`
	FormHeaderTextColor    *string          `json:"form_header_text_color,omitempty"`
	CompanyName            *string          `json:"company_name,omitempty"`
	CompanyDescription     *string          `json:"company_description,omitempty"`
	ContactEmail           *string          `json:"contact_email,omitempty"`
	ContactPhone           *string          `json:"contact_phone,omitempty"`
	ShowTermsLink          *bool            `json:"show_terms_link,omitempty"`
	ShowPrivacyLink        *bool            `json:"show_privacy_link,omitempty"`
	TermsURL               *string          `json:"terms_url,omitempty"`
	PrivacyURL             *string          `json:"privacy_url,omitempty"`
	MostrarQRCodeMobile    *bool            `json:"mostrar_qrcode_mobile,omitempty"`
	PixRedirectURL         *string          `json:"pix_redirect_url,omitempty"`
	PixTitulo              *string          `json:"pix_titulo,omitempty"`
	PixSubtitulo           *string          `json:"pix_subtitulo,omitempty"`
	PixTimerTexto          *string          `json:"pix_timer_texto,omitempty"`
	PixBotaoTexto          *string          `json:"pix_botao_texto,omitempty"`
	PixSegurancaTexto      *string          `json:"pix_seguranca_texto,omitempty"`
	PixCompraTitulo        *string          `json:"pix_compra_titulo,omitempty"`
	PixMostrarProduto      *bool            `json:"pix_mostrar_produto,omitempty"`
	PixMostrarTermos       *bool            `json:"pix_mostrar_termos,omitempty"`
	PixSaibaMaisTexto      *string          `json:"pix_saiba_mais_texto,omitempty"`
	PixTextoCopiado        *string          `json:"pix_texto_copiado,omitempty"`
	PixInstrucoesTitulo    *string          `json:"pix_instrucoes_titulo,omitempty"`
	PixInstrucoes          []string         `json:"pix_instrucoes,omitempty"`
	FAQs                   []FAQ            `json:"faqs,omitempty"`
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
