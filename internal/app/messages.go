package app

import (
	"fmt"
	"strings"

	"barzinhos/internal/domain"
)

const signature = "Equipe Barzinhos 🍻"

func WelcomeMessage(name string) string {
	return fmt.Sprintf(`🎉 Bem-vindo ao Barzinhos, %s!

Seu estabelecimento foi cadastrado com sucesso e está aguardando aprovação.

📋 Próximos passos:
• Nossa equipe irá revisar seu cadastro
• Você receberá uma notificação quando for aprovado
• Após aprovação, seu estabelecimento aparecerá na plataforma

💡 Dicas:
• Mantenha suas informações sempre atualizadas
• Responda rapidamente aos clientes
• Use fotos atrativas do seu estabelecimento

Em caso de dúvidas, entre em contato conosco!

%s`, name, signature)
}

func ApprovalMessage(name string, approved bool) string {
	if approved {
		return fmt.Sprintf(`✅ Parabéns, %s!

Seu estabelecimento foi APROVADO e já está disponível na plataforma Barzinhos!

🚀 Agora você pode:
• Ser encontrado por milhares de clientes
• Receber avaliações e comentários
• Gerenciar seu perfil online

🔗 Acesse: https://barzinhos.com.br

Desejamos muito sucesso!

%s`, name, signature)
	}
	return fmt.Sprintf(`❌ Olá, %s

Infelizmente seu cadastro não foi aprovado desta vez.

📝 Possíveis motivos:
• Informações incompletas
• Documentação pendente
• Não atende aos critérios da plataforma

💬 Entre em contato conosco para mais informações e tente novamente.

%s`, name, signature)
}

const (
	DefaultRenewalPlan = "Bronze"
	DefaultRenewalDays = 7
)

func RenewalMessage(name, plan string, days int) string {
	return fmt.Sprintf(`⏰ Lembrete de Renovação - %s

Sua assinatura do plano %s vence em %d dias.

💳 Para continuar aproveitando todos os benefícios:
• Acesse seu painel de controle
• Renove sua assinatura
• Mantenha sua visibilidade na plataforma

🔗 Renovar agora: https://barzinhos.com.br/renovar

Não perca clientes! Renove hoje mesmo.

%s`, name, plan, days, signature)
}

// SuggestUpgrade maps a plan label to the next tier and its benefits line.
func SuggestUpgrade(current string) (plan, benefits string) {
	switch strings.ToLower(strings.TrimSpace(current)) {
	case string(domain.PlanBronze):
		return "Prata", "5 fotos, destaque por bairro e integração WhatsApp"
	case string(domain.PlanPrata):
		return "Ouro", "destaque geral, stories e link Instagram"
	default:
		return "Premium", "máxima visibilidade e recursos exclusivos"
	}
}

func UpsellMessage(name, currentPlan string, views int) string {
	plan, benefits := SuggestUpgrade(currentPlan)
	return fmt.Sprintf(`📈 Ótimas notícias, %s!

Seu estabelecimento teve %d visualizações este mês! 🎉

💡 Que tal aumentar ainda mais sua visibilidade?

🚀 Upgrade para o plano %s:
• %s
• Mais clientes
• Maior faturamento

🔗 Fazer upgrade: https://barzinhos.com.br/upgrade

Aproveite o momento de alta procura!

%s`, name, views, plan, benefits, signature)
}

// Recipient is who a templated notification goes to.
type Recipient struct {
	EstablishmentID   int64
	EstablishmentName string
	Phone             string
}

func (r Recipient) Validate() error {
	if r.EstablishmentID == 0 || strings.TrimSpace(r.Phone) == "" || strings.TrimSpace(r.EstablishmentName) == "" {
		return domain.Invalid("", "incomplete data: establishment_id, phone and establishment_name are required")
	}
	return nil
}

func (r Recipient) notification(kind domain.NotificationKind, msg string) domain.Notification {
	return domain.Notification{
		Kind:              kind,
		Phone:             r.Phone,
		EstablishmentID:   r.EstablishmentID,
		EstablishmentName: r.EstablishmentName,
		Message:           msg,
	}
}

func RecipientOf(e domain.Establishment) Recipient {
	return Recipient{EstablishmentID: e.ID, EstablishmentName: e.Name, Phone: e.ContactPhone()}
}

func WelcomeNotification(r Recipient) domain.Notification {
	return r.notification(domain.NotifyWelcome, WelcomeMessage(r.EstablishmentName))
}

func ApprovalNotification(r Recipient, approved bool) domain.Notification {
	kind := domain.NotifyApproval
	if !approved {
		kind = domain.NotifyRejection
	}
	return r.notification(kind, ApprovalMessage(r.EstablishmentName, approved))
}

// RenewalNotification defaults an empty plan to Bronze and a non-positive day count to 7.
func RenewalNotification(r Recipient, plan string, days int) domain.Notification {
	if strings.TrimSpace(plan) == "" {
		plan = DefaultRenewalPlan
	}
	if days <= 0 {
		days = DefaultRenewalDays
	}
	return r.notification(domain.NotifyRenewal, RenewalMessage(r.EstablishmentName, plan, days))
}

func UpsellNotification(r Recipient, currentPlan string, views int) domain.Notification {
	if strings.TrimSpace(currentPlan) == "" {
		currentPlan = DefaultRenewalPlan
	}
	return r.notification(domain.NotifyUpsell, UpsellMessage(r.EstablishmentName, currentPlan, views))
}

func CustomNotification(phone, name, msg string) (domain.Notification, error) {
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(msg) == "" {
		return domain.Notification{}, domain.Invalid("", "phone and message are required")
	}
	return domain.Notification{Kind: domain.NotifyCustom, Phone: phone, EstablishmentName: name, Message: msg}, nil
}
