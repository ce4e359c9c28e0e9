// Package settings resolves stored platform and checkout settings into fully
// populated configuration values.
package settings

import (
	"context"
	"fmt"

	"pix-checkout/internal/domain"
)

// Store reads raw settings. A nil record with a nil error means no row.
type Store interface {
	GlobalSettings(ctx context.Context) (*domain.GlobalRecord, error)
	CheckoutSettings(ctx context.Context, productID string) (*domain.CheckoutRecord, error)
}

// Resolver reads settings on every call; nothing is cached so merchant
// changes apply to the next request.
type Resolver struct {
	Store Store
}

func (r *Resolver) LoadGlobalConfig(ctx context.Context) (domain.GlobalConfig, error) {
	rec, err := r.Store.GlobalSettings(ctx)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, err)
	}
	if rec == nil {
		return domain.GlobalConfig{}, fmt.Errorf("%w: no global settings row", domain.ErrConfigUnavailable)
	}
	var g domain.GlobalConfig
	setBool(&g.GatewayEnabled, rec.GatewayEnabled)
	setBool(&g.GatewaySandbox, rec.GatewaySandbox)
	if rec.GatewayToken != nil {
		g.GatewayToken = domain.Secret(*rec.GatewayToken)
	}
	return g, nil
}

func (r *Resolver) LoadCheckoutConfig(ctx context.Context, productID string) (domain.CheckoutConfig, error) {
	rec, err := r.Store.CheckoutSettings(ctx, productID)
	if err != nil {
		return domain.CheckoutConfig{}, fmt.Errorf("%w: product %s: %v", domain.ErrConfigUnavailable, productID, err)
	}
	if rec == nil {
		return domain.CheckoutConfig{}, fmt.Errorf("%w: no checkout settings for product %s", domain.ErrConfigUnavailable, productID)
	}
	cfg := Merge(Defaults(), rec)
	cfg.ProductID = productID
	return cfg, nil
}

// Merge overlays every field set in rec onto base.
func Merge(base domain.CheckoutConfig, rec *domain.CheckoutRecord) domain.CheckoutConfig {
	c := base
	setString(&c.BackgroundColor, rec.CorFundo)
	setString(&c.ButtonColor, rec.CorBotao)
	setString(&c.ButtonText, rec.TextoBotao)
	setBool(&c.ShowTestimonials, rec.ExibirTestemunhos)
	setString(&c.TestimonialsTitle, rec.TestimonialsTitle)
	setBool(&c.ShowVisitorCounter, rec.NumeroAleatorioVisitas)
	if rec.BloquearCpfs != nil {
		c.BlockedTaxIDs = append([]string(nil), rec.BloquearCpfs...)
	}
	c.PaymentMethods = paymentMethods(rec.PaymentMethods, base.PaymentMethods)
	setBool(&c.OneCheckoutEnabled, rec.OneCheckoutEnabled)
	setString(&c.PaymentSecurityText, rec.PaymentSecurityText)
	setString(&c.BannerImage, rec.ImagemBanner)
	setString(&c.BannerBgColor, rec.BannerBgColor)

	setBool(&c.Header.Show, rec.ShowHeader)
	setString(&c.Header.Text, rec.HeaderMessage)
	setString(&c.Header.BgColor, rec.HeaderBgColor)
	setString(&c.Header.TextColor, rec.HeaderTextColor)
	setBool(&c.Footer.Show, rec.ShowFooter)
	setString(&c.Footer.Text, rec.FooterText)
	setString(&c.FormHeader.Text, rec.FormHeaderText)
	setString(&c.FormHeader.BgColor, rec.FormHeaderBgColor)
	setString(&c.FormHeader.TextColor, rec.FormHeaderTextColor)

	setBool(&c.Timer.Enabled, rec.TimerEnabled)
	setInt(&c.Timer.Minutes, rec.TimerMinutes)
	setString(&c.Timer.Text, rec.TimerText)
	setString(&c.Timer.BgColor, rec.TimerBgColor)
	setString(&c.Timer.TextColor, rec.TimerTextColor)

	setBool(&c.DiscountBadge.Enabled, rec.DiscountBadgeEnabled)
	setString(&c.DiscountBadge.Text, rec.DiscountBadgeText)
	if rec.DiscountAmount != nil {
		c.DiscountBadge.Amount = *rec.DiscountAmount
	}
	if rec.OriginalPrice != nil {
		p := *rec.OriginalPrice
		c.DiscountBadge.OriginalPrice = &p
	}

	setString(&c.Company.Name, rec.CompanyName)
	setString(&c.Company.Description, rec.CompanyDescription)
	setString(&c.Company.ContactEmail, rec.ContactEmail)
	setString(&c.Company.ContactPhone, rec.ContactPhone)
	setBool(&c.Legal.ShowTermsLink, rec.ShowTermsLink)
	setBool(&c.Legal.ShowPrivacyLink, rec.ShowPrivacyLink)
	setString(&c.Legal.TermsURL, rec.TermsURL)
	setString(&c.Legal.PrivacyURL, rec.PrivacyURL)

	setString(&c.ManualPix.Key, rec.ChavePix)
	setString(&c.ManualPix.KeyType, rec.TipoChave)
	setString(&c.ManualPix.QRCode, rec.QRCode)
	setString(&c.ManualPix.Message, rec.MensagemPix)
	setString(&c.ManualPix.BeneficiaryName, rec.NomeBeneficiario)
	setInt(&c.ManualPix.ExpiryMinutes, rec.TempoExpiracao)
	setString(&c.ManualPix.RedirectURL, rec.PixRedirectURL)
	setBool(&c.ManualPix.ShowQRCodeMobile, rec.MostrarQRCodeMobile)

	setString(&c.PixPage.Title, rec.PixTitulo)
	setString(&c.PixPage.Subtitle, rec.PixSubtitulo)
	setString(&c.PixPage.TimerText, rec.PixTimerTexto)
	setString(&c.PixPage.ButtonText, rec.PixBotaoTexto)
	setString(&c.PixPage.SecurityText, rec.PixSegurancaTexto)
	setString(&c.PixPage.SummaryTitle, rec.PixCompraTitulo)
	setBool(&c.PixPage.ShowProduct, rec.PixMostrarProduto)
	setBool(&c.PixPage.ShowTerms, rec.PixMostrarTermos)
	setString(&c.PixPage.LearnMoreText, rec.PixSaibaMaisTexto)
	setString(&c.PixPage.CopiedText, rec.PixTextoCopiado)
	setString(&c.PixPage.InstructionsTitle, rec.PixInstrucoesTitulo)
	if len(rec.PixInstrucoes) > 0 {
		c.PixPage.Instructions = append([]string(nil), rec.PixInstrucoes...)
	}
	if rec.FAQs != nil {
		c.FAQs = append([]domain.FAQ(nil), rec.FAQs...)
	}
	return c
}

// paymentMethods keeps the known methods from stored, in order and without
// duplicates. An empty result falls back to def.
func paymentMethods(stored []string, def []domain.PaymentMethod) []domain.PaymentMethod {
	out := make([]domain.PaymentMethod, 0, len(stored))
	seen := map[domain.PaymentMethod]bool{}
	for _, s := range stored {
		m := domain.PaymentMethod(s)
		if !m.Valid() || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return append([]domain.PaymentMethod(nil), def...)
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
