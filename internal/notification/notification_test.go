package notification

import (
	"errors"
	"strings"
	"testing"
)

// mockNotification records calls to the notification function
type mockNotification struct {
	calls []struct {
		title   string
		message string
		icon    any
	}
	err error
}

func (m *mockNotification) notify(title, message string, icon any) error {
	m.calls = append(m.calls, struct {
		title   string
		message string
		icon    any
	}{title, message, icon})
	return m.err
}

func TestSend(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		message     string
		mockErr     error
		expectError bool
	}{
		{name: "successful notification", title: "Test Title", message: "Test Message"},
		{name: "notification error", title: "Test Title", message: "Test Message", mockErr: errors.New("notification failed"), expectError: true},
		{name: "empty message", title: "Title", message: ""},
		{name: "unicode content", title: "Уведомление", message: "Привет 🎉"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotification{err: tt.mockErr}
			SetNotifier(mock.notify)
			defer ResetNotifier()

			err := Send(tt.title, tt.message)

			if tt.expectError && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if len(mock.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(mock.calls))
			}
			call := mock.calls[0]
			if call.title != tt.title {
				t.Errorf("title = %q, want %q", call.title, tt.title)
			}
			if call.message != tt.message {
				t.Errorf("message = %q, want %q", call.message, tt.message)
			}
		})
	}
}

func TestIncomingMessage(t *testing.T) {
	tests := []struct {
		name            string
		peer            string
		text            string
		expectedMessage string
	}{
		{"plain text", "Anna", "hello", "Anna: hello"},
		{"attachment", "Boris", "", "Boris: [attachment]"},
		{"unicode", "Вера", "как дела?", "Вера: как дела?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotification{}
			SetNotifier(mock.notify)
			defer ResetNotifier()

			if err := IncomingMessage(tt.peer, tt.text); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(mock.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(mock.calls))
			}
			if mock.calls[0].title != AppName {
				t.Errorf("title = %q, want %q", mock.calls[0].title, AppName)
			}
			if mock.calls[0].message != tt.expectedMessage {
				t.Errorf("message = %q, want %q", mock.calls[0].message, tt.expectedMessage)
			}
		})
	}
}

func TestIncomingMessage_TruncatesLongText(t *testing.T) {
	mock := &mockNotification{}
	SetNotifier(mock.notify)
	defer ResetNotifier()

	IncomingMessage("Anna", strings.Repeat("x", 500))

	msg := mock.calls[0].message
	if len(msg) >= 500 {
		t.Errorf("message was not truncated: %d bytes", len(msg))
	}
	if !strings.HasSuffix(msg, "…") {
		t.Errorf("truncated message should end with an ellipsis, got %q", msg[len(msg)-10:])
	}
}
