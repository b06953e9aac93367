package bot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/novatangle/donorbot/core/telegram/callbacks"
	"github.com/novatangle/donorbot/core/telegram/format"
	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/internal/domain"
	"github.com/novatangle/donorbot/internal/service"
)

// handleAdminCommand serves both the promotion path (/admin <code>) and the
// panel entry (/admin). The command itself is not admin-gated, otherwise
// nobody could ever become the first admin.
func (b *Bot) handleAdminCommand(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	code := strings.TrimSpace(c.Message().Payload)

	if code != "" {
		return b.promote(c, code)
	}

	if !b.svc.Admin.IsAdmin(ctx, c.Sender().ID) {
		return tghelpers.SendMD(c, msgAdminPromptCode)
	}
	return tghelpers.SendMD(c, msgAdminPanel, adminMenuKeyboard())
}

// handlePromoteCommand grants admin rights for the configured code.
func (b *Bot) handlePromoteCommand(c tele.Context) error {
	code := strings.TrimSpace(c.Message().Payload)
	if code == "" {
		return tghelpers.SendMD(c, msgPromotePrompt)
	}
	return b.promote(c, code)
}

func (b *Bot) promote(c tele.Context, code string) error {
	ctx := tghelpers.BuildContext(c)
	err := b.svc.Admin.Promote(ctx, c.Sender().ID, code)
	switch {
	case errors.Is(err, service.ErrBadPromoteCode):
		return tghelpers.SendMD(c, msgAdminBadCode)
	case errors.Is(err, domain.ErrNotFound):
		return tghelpers.SendMD(c, msgNotRegistered)
	case err != nil:
		return tghelpers.SendMD(c, msgFailure)
	}
	return tghelpers.SendMD(c, msgAdminPromoted)
}

func (b *Bot) handleAdminMenu(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	return tghelpers.SendMD(c, msgAdminPanel, adminMenuKeyboard())
}

func (b *Bot) handleAdminEvents(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	return tghelpers.SendMD(c, "📅 *Управление событиями*", adminEventsKeyboard())
}

// handleAdminCreateEvent starts the event creation conversation.
func (b *Bot) handleAdminCreateEvent(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	b.fsm.SetState(c.Sender().ID, StateCreatingEvent)
	return tghelpers.SendMD(c, msgCreateEventPrompt)
}

// handleCreateEventInput parses the creation line.
func (b *Bot) handleCreateEventInput(c tele.Context) error {
	if !b.requireAdmin(c) {
		b.fsm.ClearState(c.Sender().ID)
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	event, err := b.svc.Admin.CreateEventFromSpec(ctx, c.Text())
	switch {
	case errors.Is(err, service.ErrBadEventSpec):
		return tghelpers.SendMD(c, msgCreateEventBad)
	case err != nil:
		b.fsm.ClearState(c.Sender().ID)
		return tghelpers.SendMD(c, msgFailure)
	}

	b.fsm.ClearState(c.Sender().ID)
	text := fmt.Sprintf("✅ *Событие создано*\n\n🗓 %s\n🏥 %s",
		event.Date.Format("02.01.2006 15:04"), event.CenterShortName)
	if link := format.DerefString(event.ExternalRegistrationLink, ""); link != "" {
		text += fmt.Sprintf("\n🔗 %s", link)
	}
	return tghelpers.SendMD(c, text, adminEventsKeyboard())
}

// handleAdminListEvents shows recent events with turnout counters.
func (b *Bot) handleAdminListEvents(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	events, err := b.svc.Stats.AdminEventList(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	if len(events) == 0 {
		return tghelpers.SendMD(c, "📅 Событий пока нет.", adminEventsKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("📅 *Последние события*\n\n")
	for _, e := range events {
		status := "🟢"
		if !e.IsActive {
			status = "⚪️"
		}
		sb.WriteString(fmt.Sprintf("%s %s - %s: записей %d, донаций %d\n",
			status, e.Date.Format("02.01.2006"), e.CenterShortName, e.Registrations, e.Donations))
	}
	return tghelpers.SendMD(c, sb.String(), adminEventListKeyboard(events))
}

// handleAdminEventOff deactivates an event chosen from the list. The event
// and its registrations stay in the database for statistics.
func (b *Bot) handleAdminEventOff(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	eventID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)

	if err := b.svc.Admin.DeactivateEvent(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendMD(c, msgUnknownAction)
		}
		return tghelpers.SendMD(c, msgFailure)
	}
	if err := tghelpers.SendMD(c, msgEventDeactivated); err != nil {
		return err
	}
	return b.handleAdminListEvents(c)
}

// handleAdminInfo lists the editable info sections.
func (b *Bot) handleAdminInfo(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	sections, err := b.svc.Info.Sections(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	return tghelpers.SendMD(c, msgAdminInfoMenu, adminInfoKeyboard(sections))
}

// handleEditInfoSection shows the current content and starts the edit
// conversation for the chosen section.
func (b *Bot) handleEditInfoSection(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	key := callbackPayload(c)
	if key == "" {
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)

	sec, err := b.svc.Info.Section(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendMD(c, msgUnknownAction)
		}
		return tghelpers.SendMD(c, msgFailure)
	}

	userID := c.Sender().ID
	b.fsm.SetTemp(userID, tmpInfoKey, sec.SectionKey)
	b.fsm.SetTemp(userID, tmpInfoTitle, sec.Title)
	b.fsm.SetState(userID, StateEditingInfo)
	return tghelpers.SendMD(c, fmt.Sprintf(msgEditInfoPrompt, sec.Title, sec.Content))
}

// handleInfoEditInput saves the replacement text for the section picked in
// handleEditInfoSection.
func (b *Bot) handleInfoEditInput(c tele.Context) error {
	userID := c.Sender().ID
	if !b.requireAdmin(c) {
		b.fsm.ClearState(userID)
		return nil
	}
	kv, _ := b.fsm.GetTemp(userID, tmpInfoKey)
	tv, _ := b.fsm.GetTemp(userID, tmpInfoTitle)
	key, _ := kv.(string)
	title, _ := tv.(string)
	if key == "" {
		b.fsm.ClearState(userID)
		return tghelpers.SendMD(c, msgUnknownAction)
	}
	ctx := tghelpers.BuildContext(c)

	if err := b.svc.Info.Edit(ctx, key, title, c.Text()); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return tghelpers.SendMD(c, msgAdminInfoMenu)
		}
		b.fsm.ClearState(userID)
		return tghelpers.SendMD(c, msgFailure)
	}
	b.fsm.ClearState(userID)
	b.fsm.ClearTemp(userID, tmpInfoKey)
	b.fsm.ClearTemp(userID, tmpInfoTitle)
	if err := tghelpers.SendMD(c, msgInfoUpdated); err != nil {
		return err
	}
	return b.handleAdminInfo(c)
}

// handleAdminBroadcast starts the broadcast conversation.
func (b *Bot) handleAdminBroadcast(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	b.fsm.SetState(c.Sender().ID, StateCreatingBroadcast)
	return tghelpers.SendMD(c, msgBroadcastPrompt)
}

// handleBroadcastInput stores the text and asks for the audience.
func (b *Bot) handleBroadcastInput(c tele.Context) error {
	userID := c.Sender().ID
	if !b.requireAdmin(c) {
		b.fsm.ClearState(userID)
		return nil
	}
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendMD(c, msgBroadcastPrompt)
	}
	b.fsm.SetTemp(userID, tmpBroadcast, text)
	b.fsm.ClearState(userID)
	preview := fmt.Sprintf("%s\n\n---\n%s", msgBroadcastAudience, text)
	return tghelpers.SendMD(c, preview, broadcastAudienceKeyboard())
}

// handleBroadcastTo runs the broadcast for the chosen audience.
func (b *Bot) handleBroadcastTo(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	userID := c.Sender().ID
	v, ok := b.fsm.GetTemp(userID, tmpBroadcast)
	text, _ := v.(string)
	if !ok || text == "" {
		return tghelpers.SendMD(c, msgUnknownAction)
	}

	audience := domain.UserType("")
	if p := callbackPayload(c); p != audienceAll {
		audience = domain.UserType(p)
		if !audience.Valid() {
			return tghelpers.SendMD(c, msgUnknownAction)
		}
	}
	ctx := tghelpers.BuildContext(c)

	report, err := b.svc.Admin.Broadcast(ctx, audience, text)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	b.fsm.ClearTemp(userID, tmpBroadcast)
	return tghelpers.SendMD(c,
		fmt.Sprintf("📢 Рассылка завершена.\n\nДоставлено: %d из %d.", report.Delivered, report.Recipients),
		adminMenuKeyboard())
}

func (b *Bot) handleAdminStats(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	return tghelpers.SendMD(c, "📊 *Статистика системы*", adminStatsKeyboard())
}

// handleAdminDonorStats shows totals by donor category.
func (b *Bot) handleAdminDonorStats(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	totals, err := b.svc.Stats.DonorStats(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}

	var sb strings.Builder
	sb.WriteString("👥 *Статистика по донорам*\n\n")
	for _, row := range totals.ByType {
		sb.WriteString(fmt.Sprintf("• %s: %d\n", row.UserType.Label(), row.Count))
	}
	sb.WriteString(fmt.Sprintf("\nВсего доноров: %d\n", totals.TotalUsers))
	sb.WriteString(fmt.Sprintf("🦴 В регистре ДКМ: %d\n", totals.BoneMarrow))
	sb.WriteString(fmt.Sprintf("🩸 Всего донаций: %d\n", totals.TotalDonations))
	return tghelpers.SendMD(c, sb.String(), adminStatsKeyboard())
}

// handleAdminEventStats shows turnout for recent events.
func (b *Bot) handleAdminEventStats(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	events, err := b.svc.Stats.EventStats(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	if len(events) == 0 {
		return tghelpers.SendMD(c, "📅 Событий пока нет.", adminStatsKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("📊 *Статистика по событиям*\n\n")
	for _, e := range events {
		turnout := 0
		if e.Registrations > 0 {
			turnout = e.Donations * 100 / e.Registrations
		}
		sb.WriteString(fmt.Sprintf("🗓 %s - %s\nЗаписей: %d, донаций: %d, явка: %d%%\n\n",
			e.Date.Format("02.01.2006"), e.CenterShortName, e.Registrations, e.Donations, turnout))
	}
	return tghelpers.SendMD(c, sb.String(), adminStatsKeyboard())
}

// handleAdminExport renders and sends the xlsx snapshot.
func (b *Bot) handleAdminExport(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	file, err := b.svc.Export.Workbook(ctx)
	if err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(file.Data)),
		FileName: file.Name,
	}
	if err := c.Send(doc); err != nil {
		return tghelpers.SendMD(c, msgFailure)
	}
	return tghelpers.SendMD(c, fmt.Sprintf("💾 Экспорт готов: %s", file.Name), adminMenuKeyboard())
}

// handleAdminImport starts the roster upload conversation.
func (b *Bot) handleAdminImport(c tele.Context) error {
	if !b.requireAdmin(c) {
		return nil
	}
	b.fsm.SetState(c.Sender().ID, StateAwaitingRoster)
	return tghelpers.SendMD(c, msgImportPrompt)
}

// handleRosterUpload consumes the uploaded xlsx document.
func (b *Bot) handleRosterUpload(c tele.Context) error {
	userID := c.Sender().ID
	if !b.requireAdmin(c) {
		b.fsm.ClearState(userID)
		return nil
	}
	doc := c.Message().Document
	if doc == nil {
		return tghelpers.SendMD(c, msgImportPrompt)
	}

	rc, err := c.Bot().File(&doc.File)
	if err != nil {
		return tghelpers.SendMD(c, msgImportBadFile)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return tghelpers.SendMD(c, msgImportBadFile)
	}

	ctx := tghelpers.BuildContext(c)
	report, err := b.svc.Importer.Roster(ctx, data)
	if err != nil {
		return tghelpers.SendMD(c, msgImportBadFile)
	}

	b.fsm.ClearState(userID)
	summary := fmt.Sprintf(
		"📄 *Импорт завершен*\n\nСтрок: %d\nДобавлено доноров: %d\nДонаций в истории: %d\nПропущено (уже в базе): %d\nПропущено (ошибки данных): %d",
		report.Rows, report.Imported, report.Donations, report.SkippedExisting, report.SkippedInvalid)
	return tghelpers.SendMD(c, summary, adminMenuKeyboard())
}
