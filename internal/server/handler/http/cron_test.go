package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeReminderSender implements ReminderSender for testing.
type fakeReminderSender struct {
	sent   int
	failed int
	err    error

	called bool
}

func (f *fakeReminderSender) SendDueReminders(ctx context.Context) (int, int, error) {
	f.called = true
	return f.sent, f.failed, f.err
}

func TestCronHandler_Send(t *testing.T) {
	tests := []struct {
		name         string
		secret       string
		header       string
		sender       *fakeReminderSender
		expectedCode int
		expectedBody string
		expectCalled bool
	}{
		{
			name:         "missing token",
			secret:       "cron-secret",
			header:       "",
			sender:       &fakeReminderSender{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "wrong token",
			secret:       "cron-secret",
			header:       "Bearer wrong",
			sender:       &fakeReminderSender{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "endpoint disabled without secret",
			secret:       "",
			header:       "Bearer ",
			sender:       &fakeReminderSender{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "service error",
			secret:       "cron-secret",
			header:       "Bearer cron-secret",
			sender:       &fakeReminderSender{err: errors.New("relay down")},
			expectedCode: http.StatusInternalServerError,
			expectCalled: true,
		},
		{
			name:         "success",
			secret:       "cron-secret",
			header:       "Bearer cron-secret",
			sender:       &fakeReminderSender{sent: 3, failed: 1},
			expectedCode: http.StatusOK,
			expectedBody: "{\"failed\":1,\"sent\":3}\n",
			expectCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/cron/send-notifications", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			h := &CronHandler{ReminderSender: tt.sender, Secret: tt.secret}
			h.Send(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.sender.called != tt.expectCalled {
				t.Errorf("called = %v; want %v", tt.sender.called, tt.expectCalled)
			}
			if tt.expectedBody != "" && rec.Body.String() != tt.expectedBody {
				t.Errorf("body = %q; want %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}
}
