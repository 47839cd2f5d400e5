package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/myifeai/myifeai/internal/handlers"
	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/middleware"
	"github.com/myifeai/myifeai/internal/server"
)

const testSigningSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

type webhookEnv struct {
	router http.Handler
	sync   *fakeSyncService
	wh     *svix.Webhook
}

func newWebhookEnv(t *testing.T) *webhookEnv {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	wh, err := svix.NewWebhook(testSigningSecret)
	if err != nil {
		t.Fatalf("svix.NewWebhook: %v", err)
	}

	sync := &fakeSyncService{}
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins: []string{"*"},
		AuthMiddleware: middleware.NewAuthMiddleware(log, &fakeAuthService{userID: "user_1"}),
		PlanHandler:    handlers.NewPlanHandler(log, &fakePlanService{}),
		ProfileHandler: handlers.NewProfileHandler(log, &fakeProgressService{}),
		TaskHandler:    handlers.NewTaskHandler(log, &fakeProgressService{}),
		WebhookHandler: handlers.NewWebhookHandler(log, wh, sync),
	})
	return &webhookEnv{router: router, sync: sync, wh: wh}
}

func (e *webhookEnv) signedRequest(t *testing.T, payload string) *http.Request {
	t.Helper()
	msgID := "msg_test_1"
	now := time.Now()
	signature, err := e.wh.Sign(msgID, now, []byte(payload))
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", msgID)
	req.Header.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("svix-signature", signature)
	return req
}

func TestWebhookRejectsUnsignedRequest(t *testing.T) {
	env := newWebhookEnv(t)

	payload := `{"type":"user.created","data":{"id":"user_1","first_name":"Grace","last_name":"Hopper"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
	if env.sync.calls != 0 {
		t.Fatalf("sync ran despite missing signature")
	}
}

func TestWebhookRejectsTamperedPayload(t *testing.T) {
	env := newWebhookEnv(t)

	payload := `{"type":"user.created","data":{"id":"user_1","first_name":"Grace","last_name":"Hopper"}}`
	now := time.Now()
	sig, err := env.wh.Sign("msg_test_1", now, []byte(payload))
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}

	// Deliver different bytes under the original signature.
	tampered := strings.Replace(payload, "user_1", "user_evil", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(tampered))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", "msg_test_1")
	req.Header.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("svix-signature", sig)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
	if env.sync.calls != 0 {
		t.Fatalf("sync ran despite tampered payload")
	}
}

func TestWebhookUserCreatedTriggersSync(t *testing.T) {
	env := newWebhookEnv(t)

	payload := `{"type":"user.created","data":{"id":"user_1","first_name":"Grace","last_name":"Hopper"}}`
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, env.signedRequest(t, payload))

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	if env.sync.calls != 1 {
		t.Fatalf("sync calls: want=1 got=%d", env.sync.calls)
	}
	if env.sync.lastID != "user_1" || env.sync.lastFirst != "Grace" || env.sync.lastLast != "Hopper" {
		t.Fatalf("unexpected sync args: %q %q %q", env.sync.lastID, env.sync.lastFirst, env.sync.lastLast)
	}
}

func TestWebhookAcknowledgesOtherEvents(t *testing.T) {
	env := newWebhookEnv(t)

	payload := `{"type":"user.updated","data":{"id":"user_1"}}`
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, env.signedRequest(t, payload))

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	if env.sync.calls != 0 {
		t.Fatalf("sync must not run for unrelated events")
	}
}

func TestWebhookSyncFailureSurfacesServerError(t *testing.T) {
	env := newWebhookEnv(t)
	env.sync.err = errors.New("database unavailable")

	payload := `{"type":"user.created","data":{"id":"user_1","first_name":"Grace","last_name":"Hopper"}}`
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, env.signedRequest(t, payload))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", w.Code)
	}
}
