package bot

import (
	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/novatangle/donorbot/core/telegram"
	"github.com/novatangle/donorbot/core/telegram/commands"
	tghelpers "github.com/novatangle/donorbot/core/telegram/helpers"
	"github.com/novatangle/donorbot/core/telegram/middleware"
	"github.com/novatangle/donorbot/core/telegram/router"
	"github.com/novatangle/donorbot/core/telegram/state"
)

// stateStrings adapts the FSM manager to the string-typed middleware gate.
type stateStrings struct {
	m state.Manager
}

func (s stateStrings) GetState(userID int64) string {
	return string(s.m.GetState(userID))
}

// BuildRegistry fills the command and callback table.
func (b *Bot) BuildRegistry() *coretelegram.Registry {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Главное меню и регистрация",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     b.handleHelp,
		Description: "Помощь по боту",
	})
	reg.RegisterCommand("/events", commands.Command{
		Handler:     b.handleEventList,
		Description: "Ближайшие Дни донора",
	})
	reg.RegisterCommand("/profile", commands.Command{
		Handler:     b.handleProfile,
		Description: "Мой профиль",
	})
	reg.RegisterCommand("/ask", commands.Command{
		Handler:     b.handleAskQuestion,
		Description: "Задать вопрос организаторам",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     b.handleAdminCommand,
		Description: "Панель администратора",
		Hidden:      true,
	})
	reg.RegisterCommand("/promote", commands.Command{
		Handler:     b.handlePromoteCommand,
		Description: "Получить права администратора",
		Hidden:      true,
	})

	cbs := map[string]tele.HandlerFunc{
		cbMainMenu:        b.sendMainMenu,
		cbProfile:         b.handleProfile,
		cbMyStats:         b.handleMyStats,
		cbRegisterEvent:   b.handleEventList,
		cbDonationHistory: b.handleDonationHistory,
		cbDonorRanking:    b.handleDonorRanking,
		cbInfoMenu:        b.handleInfoMenu,
		cbInfoSection:     b.handleInfoSection,
		cbBloodCenters:    b.handleBloodCenters,
		cbBenefits:        b.handleBenefits,
		cbNotifications:   b.handleNotifications,
		cbContacts:        b.handleContacts,
		cbAskQuestion:     b.handleAskQuestion,
		cbFeedback:        b.handleFeedback,
		cbBoneMarrowJoin:  b.handleBoneMarrowJoin,

		cbUserType:   b.handleUserTypeCallback,
		cbConsentYes: b.handleConsentYes,
		cbConsentNo:  b.handleConsentNo,

		cbEventSelect:  b.handleEventSelect,
		cbEventConfirm: b.handleEventConfirm,
		cbAttended:     b.handleAttended,
		cbNoShow:       b.handleNoShow,

		cbAdminMenu:        b.handleAdminMenu,
		cbAdminEvents:      b.handleAdminEvents,
		cbAdminCreateEvent: b.handleAdminCreateEvent,
		cbAdminListEvents:  b.handleAdminListEvents,
		cbAdminEventOff:    b.handleAdminEventOff,
		cbAdminInfo:        b.handleAdminInfo,
		cbEditInfoSection:  b.handleEditInfoSection,
		cbAdminQuestions:   b.handleAdminQuestions,
		cbQuestionDigest:   b.handleAdminQuestionDigest,
		cbAnswerQuestion:   b.handleAnswerQuestion,
		cbAdminBroadcast:   b.handleAdminBroadcast,
		cbBroadcastTo:      b.handleBroadcastTo,
		cbAdminStats:       b.handleAdminStats,
		cbAdminEventStats:  b.handleAdminEventStats,
		cbAdminDonorStats:  b.handleAdminDonorStats,
		cbAdminExport:      b.handleAdminExport,
		cbAdminImport:      b.handleAdminImport,
	}
	for key, h := range cbs {
		_ = reg.RegisterCallback(key, h)
	}

	fb := fallbacks{}
	reg.SetTextFallback(fb.UnknownText())
	reg.SetCallbackNotFound(fb.UnknownCallback())

	return reg
}

// RegisterStates binds every conversation state to its handler. The FSM
// handler table is package-global, so this runs once per process.
func (b *Bot) RegisterStates() {
	state.RegisterHandler(StateAwaitingPhone, b.handlePhoneInput)
	state.RegisterHandler(StateAwaitingName, b.handleNameInput)
	state.RegisterHandler(StateAwaitingCategory, b.handleCategoryReprompt)
	state.RegisterHandler(StateAwaitingGroup, b.handleGroupInput)
	state.RegisterHandler(StateAwaitingConsent, b.handleConsentReprompt)
	state.RegisterHandler(StateAwaitingQuestion, b.handleQuestionInput)
	state.RegisterHandler(StateAwaitingAnswer, b.handleAnswerInput)
	state.RegisterHandler(StateAwaitingFeedback, b.handleFeedbackInput)
	state.RegisterHandler(StateCreatingEvent, b.handleCreateEventInput)
	state.RegisterHandler(StateCreatingBroadcast, b.handleBroadcastInput)
	state.RegisterHandler(StateAwaitingRoster, b.handleRosterUpload)
	state.RegisterHandler(StateEditingInfo, b.handleInfoEditInput)
}

// Routes assembles every telebot endpoint around the registry: command
// routes with the admin gate, the callback dispatcher, text and document
// routing through the FSM, and the contact step of registration.
func (b *Bot) Routes(reg *coretelegram.Registry) []coretelegram.Route {
	fb := fallbacks{}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		ResolveAdmin: b.resolveAdmin,
		OnAdminReject: func(c tele.Context) error {
			return tghelpers.SendMD(c, msgPermissionDenied)
		},
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: fb.UnknownCallback(),
	}))
	routes = append(routes, router.TextRoutes(b.fsm, reg, router.TextOptions{
		UnknownText:     fb.UnknownText(),
		UnknownDocument: fb.UnknownDocument(),
	})...)
	// Contacts only matter while the phone step is active.
	contactGate := middleware.State(stateStrings{m: b.fsm}, string(StateAwaitingPhone))
	routes = append(routes, coretelegram.Route{
		Endpoint: tele.OnContact,
		Handler:  contactGate(b.handleContact),
	})
	return routes
}

// SessionMiddleware injects the FSM session into every handled update.
func (b *Bot) SessionMiddleware() coretelegram.Middleware {
	return coretelegram.Middleware{
		Name: "fsm_session",
		Use:  state.WithSession(b.fsm),
	}
}
