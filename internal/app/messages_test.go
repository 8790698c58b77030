package app

import (
	"strings"
	"testing"

	"barzinhos/internal/domain"
)

func TestSuggestUpgrade(t *testing.T) {
	cases := []struct {
		in, plan string
	}{
		{"Bronze", "Prata"},
		{"bronze", "Prata"},
		{"Prata", "Ouro"},
		{"Ouro", "Premium"},
		{"", "Premium"},
	}
	for _, c := range cases {
		if got, _ := SuggestUpgrade(c.in); got != c.plan {
			t.Errorf("SuggestUpgrade(%q) = %q, want %q", c.in, got, c.plan)
		}
	}
}

func TestRenewalNotification_Defaults(t *testing.T) {
	r := Recipient{EstablishmentID: 1, EstablishmentName: "Bar do Zé", Phone: "5511"}
	n := RenewalNotification(r, "", 0)
	if n.Kind != domain.NotifyRenewal {
		t.Fatalf("kind = %s", n.Kind)
	}
	if !strings.Contains(n.Message, "plano Bronze vence em 7 dias") {
		t.Fatalf("unexpected message: %s", n.Message)
	}
	if !strings.HasSuffix(n.Message, signature) {
		t.Fatalf("message must be signed: %s", n.Message)
	}
}

func TestApprovalNotification_Kind(t *testing.T) {
	r := Recipient{EstablishmentID: 1, EstablishmentName: "Bar", Phone: "5511"}
	if n := ApprovalNotification(r, true); n.Kind != domain.NotifyApproval || !strings.Contains(n.Message, "APROVADO") {
		t.Fatalf("approved: %+v", n)
	}
	if n := ApprovalNotification(r, false); n.Kind != domain.NotifyRejection || !strings.Contains(n.Message, "não foi aprovado") {
		t.Fatalf("rejected: %+v", n)
	}
}

func TestUpsellNotification(t *testing.T) {
	r := Recipient{EstablishmentID: 1, EstablishmentName: "Bar", Phone: "5511"}
	n := UpsellNotification(r, "Prata", 120)
	if !strings.Contains(n.Message, "120 visualizações") || !strings.Contains(n.Message, "plano Ouro") {
		t.Fatalf("unexpected message: %s", n.Message)
	}
}

func TestRecipient_Validate(t *testing.T) {
	if err := (Recipient{Phone: "1", EstablishmentName: "Bar"}).Validate(); !domain.IsValidation(err) {
		t.Fatalf("missing id must fail, got %v", err)
	}
	if err := (Recipient{EstablishmentID: 1, Phone: "1", EstablishmentName: "Bar"}).Validate(); err != nil {
		t.Fatalf("complete recipient: %v", err)
	}
}

func TestCustomNotification(t *testing.T) {
	if _, err := CustomNotification("", "Bar", "oi"); err == nil {
		t.Fatal("phone required")
	}
	n, err := CustomNotification("5511", "Bar", "oi")
	if err != nil || n.Kind != domain.NotifyCustom {
		t.Fatalf("got %+v %v", n, err)
	}
}

func TestRecipientOf_PrefersWhatsApp(t *testing.T) {
	r := RecipientOf(domain.Establishment{ID: 3, Name: "Bar", Phone: "111", WhatsApp: "222"})
	if r.Phone != "222" || r.EstablishmentID != 3 {
		t.Fatalf("got %+v", r)
	}
}
