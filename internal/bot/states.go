package bot

import "github.com/novatangle/donorbot/core/telegram/state"

// Conversation states. Only text-driven steps need an FSM state; button
// steps are plain callbacks.
const (
	StateAwaitingPhone     state.State = "awaiting_phone"
	StateAwaitingName      state.State = "awaiting_name"
	StateAwaitingCategory  state.State = "awaiting_category"
	StateAwaitingGroup     state.State = "awaiting_group"
	StateAwaitingConsent   state.State = "awaiting_consent"
	StateAwaitingQuestion  state.State = "awaiting_question"
	StateAwaitingAnswer    state.State = "awaiting_answer"
	StateAwaitingFeedback  state.State = "awaiting_feedback"
	StateCreatingEvent     state.State = "creating_event"
	StateCreatingBroadcast state.State = "creating_broadcast"
	StateAwaitingRoster    state.State = "awaiting_roster"
	StateEditingInfo       state.State = "editing_info"
)

// Session temp keys.
const (
	tmpPhone      = "reg_phone"
	tmpName       = "reg_name"
	tmpUserType   = "reg_user_type"
	tmpGroup      = "reg_group"
	tmpUserID     = "reg_user_id"
	tmpQuestionID = "answer_question_id"
	tmpBroadcast  = "broadcast_text"
	tmpInfoKey    = "info_section_key"
	tmpInfoTitle  = "info_section_title"
)
