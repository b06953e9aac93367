package service

import (
	"context"
	"errors"
	"testing"

	"github.com/novatangle/donorbot/internal/domain"
)

type fakeQuestionStore struct {
	questions map[int64]*domain.Question
	users     map[int64]*domain.User
	askerIDs  []int64
	nextID    int64
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{
		questions: map[int64]*domain.Question{},
		users:     map[int64]*domain.User{},
		nextID:    1,
	}
}

func (f *fakeQuestionStore) CreateQuestion(_ context.Context, userID int64, text string) (int64, error) {
	id := f.nextID
	f.nextID++
	f.questions[id] = &domain.Question{ID: id, UserID: userID, QuestionText: text}
	return id, nil
}

func (f *fakeQuestionStore) QuestionByID(_ context.Context, id int64) (*domain.Question, error) {
	if q, ok := f.questions[id]; ok {
		return q, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeQuestionStore) UnansweredNewest(_ context.Context, limit int) ([]domain.Question, error) {
	return f.unanswered(limit), nil
}

func (f *fakeQuestionStore) UnansweredOldest(_ context.Context, limit int) ([]domain.Question, error) {
	return f.unanswered(limit), nil
}

func (f *fakeQuestionStore) unanswered(limit int) []domain.Question {
	var out []domain.Question
	for _, q := range f.questions {
		if !q.Answered() && len(out) < limit {
			out = append(out, *q)
		}
	}
	return out
}

func (f *fakeQuestionStore) AnswerQuestion(_ context.Context, questionID, adminID int64, answer string) error {
	q, ok := f.questions[questionID]
	if !ok {
		return domain.ErrNotFound
	}
	if q.Answered() {
		return domain.ErrQuestionAnswered
	}
	q.AnswerText = &answer
	q.AnsweredByAdminID = &adminID
	return nil
}

func (f *fakeQuestionStore) AskerTelegramIDs(_ context.Context, _ int64) ([]int64, error) {
	return f.askerIDs, nil
}

func (f *fakeQuestionStore) UserByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func TestAskStoresQuestion(t *testing.T) {
	store := newFakeQuestionStore()
	svc := NewQuestionService(store, nil, nil)

	id, err := svc.Ask(context.Background(), 5, "  Можно ли сдавать кровь после прививки?  ")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if store.questions[id].QuestionText != "Можно ли сдавать кровь после прививки?" {
		t.Fatalf("stored text = %q, want trimmed", store.questions[id].QuestionText)
	}

	if _, err := svc.Ask(context.Background(), 5, "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for blank question", err)
	}
}

func TestAnswerBroadcastsToAllAskers(t *testing.T) {
	store := newFakeQuestionStore()
	store.users[5] = &domain.User{ID: 5, TelegramID: 5000}
	store.askerIDs = []int64{6001, 6002, 6003}
	qID, _ := store.CreateQuestion(context.Background(), 5, "Вопрос?")

	notifier := &recordingNotifier{}
	svc := NewQuestionService(store, notifier, nil)

	report, err := svc.Answer(context.Background(), qID, 99, "Ответ.")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !report.DirectDelivered {
		t.Fatal("asker must receive the answer directly")
	}
	if report.Recipients != 3 || report.Delivered != 3 {
		t.Fatalf("recipients=%d delivered=%d, want 3/3", report.Recipients, report.Delivered)
	}
	// direct + 3 broadcast
	if len(notifier.sent) != 4 {
		t.Fatalf("sent = %d messages, want 4", len(notifier.sent))
	}
	if notifier.sent[0] != 5000 {
		t.Fatalf("first delivery went to %d, want the asker", notifier.sent[0])
	}
}

func TestAnswerSecondAttemptRejected(t *testing.T) {
	store := newFakeQuestionStore()
	store.users[5] = &domain.User{ID: 5, TelegramID: 5000}
	qID, _ := store.CreateQuestion(context.Background(), 5, "Вопрос?")
	svc := NewQuestionService(store, &recordingNotifier{}, nil)

	if _, err := svc.Answer(context.Background(), qID, 99, "Первый ответ."); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	_, err := svc.Answer(context.Background(), qID, 99, "Второй ответ.")
	if !errors.Is(err, domain.ErrQuestionAnswered) {
		t.Fatalf("err = %v, want ErrQuestionAnswered", err)
	}
	if *store.questions[qID].AnswerText != "Первый ответ." {
		t.Fatalf("answer overwritten to %q", *store.questions[qID].AnswerText)
	}
}

func TestAnswerDeliveryFailureIsolated(t *testing.T) {
	store := newFakeQuestionStore()
	store.users[5] = &domain.User{ID: 5, TelegramID: 5000}
	store.askerIDs = []int64{6001, 6002, 6003}
	qID, _ := store.CreateQuestion(context.Background(), 5, "Вопрос?")

	notifier := &recordingNotifier{fail: map[int64]bool{6002: true}}
	svc := NewQuestionService(store, notifier, nil)

	report, err := svc.Answer(context.Background(), qID, 99, "Ответ.")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if report.Recipients != 3 || report.Delivered != 2 {
		t.Fatalf("recipients=%d delivered=%d, want 3/2", report.Recipients, report.Delivered)
	}
	if !store.questions[qID].Answered() {
		t.Fatal("answer must be stored despite delivery failures")
	}
}

func TestAnswerUnknownQuestion(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionStore(), &recordingNotifier{}, nil)
	_, err := svc.Answer(context.Background(), 404, 99, "Ответ.")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
