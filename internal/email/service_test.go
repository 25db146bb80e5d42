package email

import (
	"net/smtp"
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "mailer",
		Password: "secret",
		From:     "noreply@fogseasonhvac.com",
		FromName: "Fog Season HVAC",
		To:       "info@fogseasonhvac.com",
	}
}

func TestIsConfigured(t *testing.T) {
	if !NewService(testConfig()).IsConfigured() {
		t.Fatal("expected configured service")
	}
	cfg := testConfig()
	cfg.Host = ""
	if NewService(cfg).IsConfigured() {
		t.Fatal("service without host must report unconfigured")
	}
	cfg = testConfig()
	cfg.To = ""
	if NewService(cfg).IsConfigured() {
		t.Fatal("service without operator mailbox must report unconfigured")
	}
}

func TestSendContactNotification(t *testing.T) {
	svc := NewService(testConfig())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	if err := svc.SendContactNotification("Priya", "priya@example.com", "Need a chiller plant quote."); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("unexpected server addr %q", gotAddr)
	}
	if gotFrom != "noreply@fogseasonhvac.com" {
		t.Fatalf("unexpected envelope from %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "info@fogseasonhvac.com" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}

	body := string(gotMsg)
	for _, want := range []string{
		"Subject: Website enquiry from Priya",
		"Reply-To: priya@example.com",
		"Need a chiller plant quote.",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("message missing %q:\n%s", want, body)
		}
	}
}

func TestSendContactNotificationUnconfigured(t *testing.T) {
	svc := NewService(Config{})
	if err := svc.SendContactNotification("Priya", "priya@example.com", "hi"); err == nil {
		t.Fatal("expected error when unconfigured")
	}
}

func TestHeaderInjectionIsStripped(t *testing.T) {
	msg := string(buildContactMessage(testConfig(), "Bad\r\nBcc: spam@evil.com", "a@b.c", "hello"))
	if strings.Contains(msg, "Bcc:") {
		t.Fatalf("header injection survived:\n%s", msg)
	}
}
