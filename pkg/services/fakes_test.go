package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

type message struct {
	ID       int
	Text     string
	Keyboard *domain.Keyboard
}

type file struct {
	Name    string
	Size    int
	Caption string
}

type callbackAnswer struct {
	ID    string
	Text  string
	Alert bool
}

type fakeMessenger struct {
	mu        sync.Mutex
	nextID    int
	sent      []message
	edits     []message
	deleted   []int
	photos    []file
	documents []file
	answers   []callbackAnswer
	downloads int
	files     map[string][]byte
	photoErr  error
	editErr   map[int]error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 1000, files: make(map[string][]byte)}
}

func (m *fakeMessenger) SendText(_ context.Context, _ int64, text string, kb *domain.Keyboard) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, message{ID: m.nextID, Text: text, Keyboard: kb})
	return m.nextID, nil
}

func (m *fakeMessenger) EditText(_ context.Context, _ int64, messageID int, text string, kb *domain.Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editErr[messageID]; err != nil {
		return err
	}
	m.edits = append(m.edits, message{ID: messageID, Text: text, Keyboard: kb})
	return nil
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, _ int64, name string, data []byte, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.photoErr != nil {
		return m.photoErr
	}
	m.photos = append(m.photos, file{Name: name, Size: len(data), Caption: caption})
	return nil
}

func (m *fakeMessenger) SendDocument(_ context.Context, _ int64, name string, data []byte, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = append(m.documents, file{Name: name, Size: len(data), Caption: caption})
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, callbackAnswer{ID: callbackID, Text: text, Alert: alert})
	return nil
}

func (m *fakeMessenger) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads++
	if b, ok := m.files[fileID]; ok {
		return b, nil
	}
	return []byte("file:" + fileID), nil
}

func (m *fakeMessenger) lastSent() message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return message{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *fakeMessenger) lastEdit() message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edits) == 0 {
		return message{}
	}
	return m.edits[len(m.edits)-1]
}

func (m *fakeMessenger) lastAnswer() callbackAnswer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.answers) == 0 {
		return callbackAnswer{}
	}
	return m.answers[len(m.answers)-1]
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*domain.User)}
}

func (f *fakeUsers) Touch(_ context.Context, id int64, displayName string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		u = &domain.User{ID: id, Allowance: domain.DefaultAllowance, Locale: domain.DefaultLocale}
		f.users[id] = u
	}
	u.DisplayName = displayName
	c := *u
	return &c, nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) SetLocale(_ context.Context, id int64, locale domain.Locale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Locale = locale
	return nil
}

func (f *fakeUsers) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.Locale == "" {
		u.Locale = domain.DefaultLocale
	}
	f.users[u.ID] = &u
}

type fakeGenerations struct {
	mu     sync.Mutex
	logs   []domain.Generation
	usage  map[int64]int
	prices map[domain.Mode]map[domain.Quality]float64
}

func newFakeGenerations() *fakeGenerations {
	return &fakeGenerations{
		usage: make(map[int64]int),
		prices: map[domain.Mode]map[domain.Quality]float64{
			domain.ModeTextToImage: {domain.QualityLow: 0.013, domain.QualityMedium: 0.013, domain.QualityHigh: 0.024},
		},
	}
}

func (f *fakeGenerations) Log(_ context.Context, g domain.Generation) (*domain.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = int64(len(f.logs) + 1)
	g.Cost = f.prices[g.Mode][g.Quality]
	f.logs = append(f.logs, g)
	return &g, nil
}

func (f *fakeGenerations) CountSuccessful(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.usage[userID]
	for _, g := range f.logs {
		if g.UserID == userID && g.Success {
			n++
		}
	}
	return n, nil
}

func (f *fakeGenerations) Stats(_ context.Context) (*domain.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &domain.Stats{Users: 1, Generations: len(f.logs)}
	for _, g := range f.logs {
		if g.Success {
			s.Successful++
		}
		s.Cost += g.Cost
	}
	return s, nil
}

type fakeImages struct {
	mu       sync.Mutex
	calls    []domain.GenerationRequest
	image    []byte
	err      error
	enhanced string
	delay    time.Duration
}

func (f *fakeImages) Generate(_ context.Context, req domain.GenerationRequest) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	delay := f.delay
	f.mu.Unlock()

	time.Sleep(delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.image, nil
}

func (f *fakeImages) Enhance(_ context.Context, prompt string) string {
	if f.enhanced == "" {
		return prompt
	}
	return f.enhanced
}

func (f *fakeImages) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeVoice struct {
	text string
	err  error
}

func (f *fakeVoice) Transcribe(_ context.Context, _ []byte) (string, error) {
	return f.text, f.err
}

type fakeArchive struct {
	mu    sync.Mutex
	saved int
}

func (f *fakeArchive) Save(_ context.Context, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved++
	return "generations/key.png", nil
}

type fakeBalance struct{}

func (fakeBalance) Balance(_ context.Context) (string, error) {
	return "", errors.New("balance unavailable")
}
