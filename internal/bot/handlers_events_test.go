package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/novatangle/donorbot/internal/domain"
)

func confirmableEvent(link string) *domain.Event {
	e := &domain.Event{
		ID:              1,
		Date:            time.Date(2026, 9, 15, 10, 0, 0, 0, time.Local),
		CenterShortName: "ЦК ФМБА",
		IsActive:        true,
	}
	if link != "" {
		e.ExternalRegistrationLink = &link
	}
	return e
}

func TestEventConfirmTextShowsCategory(t *testing.T) {
	event := confirmableEvent("")

	for _, userType := range []domain.UserType{domain.UserTypeStudent, domain.UserTypeEmployee, domain.UserTypeExternal} {
		text := eventConfirmText(event, userType)
		if !strings.Contains(text, "15.09.2026 10:00") || !strings.Contains(text, "ЦК ФМБА") {
			t.Fatalf("%s: missing date or center:\n%s", userType, text)
		}
		if !strings.Contains(text, "Ваш статус: "+userType.Label()) {
			t.Fatalf("%s: missing category line:\n%s", userType, text)
		}
		note := strings.Contains(text, "дополнительная регистрация")
		if userType == domain.UserTypeExternal && !note {
			t.Fatalf("external: missing extra-registration note:\n%s", text)
		}
		if userType != domain.UserTypeExternal && note {
			t.Fatalf("%s: extra-registration note must be external-only:\n%s", userType, text)
		}
	}
}

func TestEventRegisteredTextLinkIsExternalOnly(t *testing.T) {
	withLink := confirmableEvent("https://example.org/reg")

	if text := eventRegisteredText(withLink, domain.UserTypeExternal); !strings.Contains(text, "https://example.org/reg") {
		t.Fatalf("external user must see the link:\n%s", text)
	}
	for _, userType := range []domain.UserType{domain.UserTypeStudent, domain.UserTypeEmployee} {
		if text := eventRegisteredText(withLink, userType); strings.Contains(text, "https://example.org/reg") {
			t.Fatalf("%s must not see the link:\n%s", userType, text)
		}
	}
	if text := eventRegisteredText(confirmableEvent(""), domain.UserTypeExternal); strings.Contains(text, "🔗") {
		t.Fatalf("no link on the event, none in the message:\n%s", text)
	}
}
