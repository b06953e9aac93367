package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
)

// handleProfile renders the profile card.
func (b *Bot) handleProfile(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	p, err := b.svc.Stats.Profile(ctx, u)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}

	var sb strings.Builder
	sb.WriteString("👤 *Мой профиль*\n\n")
	sb.WriteString(fmt.Sprintf("*ФИО:* %s\n", u.FullName))
	sb.WriteString(fmt.Sprintf("*Категория:* %s\n", u.UserType.Label()))
	if u.Group() != "" {
		sb.WriteString(fmt.Sprintf("*Группа:* %s\n", u.Group()))
	}
	sb.WriteString(fmt.Sprintf("*Телефон:* %s\n", u.Phone))
	sb.WriteString(fmt.Sprintf("\n🩸 *Донаций:* %d\n", p.TotalCount))
	sb.WriteString(fmt.Sprintf("*Уровень:* %s\n", p.Level))
	if p.NextThreshold > 0 {
		sb.WriteString(fmt.Sprintf("До следующего уровня: %d донаций\n", p.NextThreshold-p.TotalCount))
	}
	if p.LastDonation != nil {
		sb.WriteString(fmt.Sprintf("\n*Последняя донация:* %s (%s)\n",
			p.LastDonation.DonationDate.Format("02.01.2006"), p.LastDonation.CenterShortName))
	}
	if u.BoneMarrowRegistry {
		sb.WriteString("\n🦴 Вы в регистре доноров костного мозга\n")
	}
	return tghelpers.SendMD(c, sb.String(), backToMainKeyboard())
}

// handleMyStats renders the per-center breakdown.
func (b *Bot) handleMyStats(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	p, err := b.svc.Stats.Profile(ctx, u)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}

	var sb strings.Builder
	sb.WriteString("📊 *Моя статистика*\n\n")
	sb.WriteString(fmt.Sprintf("🩸 Всего донаций: %d\n", p.TotalCount))
	sb.WriteString(fmt.Sprintf("🏅 Уровень: %s\n", p.Level))
	if p.LastDonation != nil {
		sb.WriteString(fmt.Sprintf("🗓 Последняя донация: %s (%s)\n",
			p.LastDonation.DonationDate.Format("02.01.2006"), p.LastDonation.CenterShortName))
	}
	sb.WriteString(fmt.Sprintf("📆 В движении с %s\n", u.CreatedAt.Format("02.01.2006")))
	if len(p.Breakdown) > 0 {
		sb.WriteString("\n*По центрам крови:*\n")
		for _, row := range p.Breakdown {
			sb.WriteString(fmt.Sprintf("• %s: %d\n", row.CenterShortName, row.Count))
		}
	}
	return tghelpers.SendMD(c, sb.String(), backToMainKeyboard())
}

// handleDonationHistory lists recent donations.
func (b *Bot) handleDonationHistory(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	donations, err := b.svc.Stats.History(ctx, u.ID)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	if len(donations) == 0 {
		return tghelpers.SendMD(c, "🩸 У вас пока нет записанных донаций.\n\nЗапишитесь на ближайший День донора!", backToMainKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("🩸 *История донаций*\n\n")
	for _, d := range donations {
		sb.WriteString(fmt.Sprintf("• %s - %s", d.DonationDate.Format("02.01.2006"), d.CenterShortName))
		if d.BoneMarrowSample {
			sb.WriteString(" (+ образец ДКМ)")
		}
		sb.WriteString("\n")
	}
	return tghelpers.SendMD(c, sb.String(), backToMainKeyboard())
}

// handleDonorRanking shows the public top donors list.
func (b *Bot) handleDonorRanking(c tele.Context) error {
	u, err := b.currentUser(c)
	if err != nil || u == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	top, err := b.svc.Stats.Ranking(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	if len(top) == 0 {
		return tghelpers.SendMD(c, "🏆 Рейтинг пока пуст.", backToMainKeyboard())
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	sb.WriteString("🏆 *Рейтинг доноров*\n\n")
	for i, row := range top {
		place := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			place = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s) - %d\n", place, row.FullName, row.UserType.Label(), row.Count))
	}
	return tghelpers.SendMD(c, sb.String(), backToMainKeyboard())
}
