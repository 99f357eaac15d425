package alerting

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"farewatch/internal/fare"
)

func testAlert() Alert {
	return Alert{
		Origin:      "OAK",
		Destination: "DAL",
		DealPrice:   220,
		Record: fare.CycleRecord{
			Timestamp:      "2026-08-25 10:05:00",
			OutboundLowest: 200,
			ReturnLowest:   299,
			OutboundDelta:  fare.Delta{Kind: fare.DeltaDecreased, Amount: 50},
			ReturnDelta:    fare.Delta{Kind: fare.DeltaUnchanged},
			Deal:           true,
		},
	}
}

func TestTwilioNotifierSuccess(t *testing.T) {
	var received url.Values
	var authUser, authPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/2010-04-01/Accounts/AC123/Messages.json") {
			t.Fatalf("路径应包含 Messages.json, 实际 %s", r.URL.Path)
		}
		var ok bool
		authUser, authPass, ok = r.BasicAuth()
		if !ok {
			t.Fatal("缺少 BasicAuth")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("解析请求体失败: %v", err)
		}
		received = r.PostForm
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123"}`))
	}))
	defer srv.Close()

	notifier := NewTwilioNotifier("AC123", "secret", "+14155550100", "+14155550123", srv.URL, time.Second, testLogger())

	if err := notifier.Notify(context.Background(), testAlert()); err != nil {
		t.Fatalf("Twilio Notify 应成功: %v", err)
	}

	if authUser != "AC123" || authPass != "secret" {
		t.Fatalf("BasicAuth 不正确: %s/%s", authUser, authPass)
	}
	if received.Get("From") != "+14155550100" {
		t.Fatalf("From 不正确: %#v", received)
	}
	if received.Get("To") != "+14155550123" {
		t.Fatalf("To 不正确: %#v", received)
	}
	body := received.Get("Body")
	if body == "" {
		t.Fatalf("Body 应非空")
	}
	for _, want := range []string{"OAK -> DAL", "$200", "$299", "$220"} {
		if !strings.Contains(body, want) {
			t.Fatalf("Body 缺少 %q: %s", want, body)
		}
	}
}

func TestTwilioNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":20003}`))
	}))
	defer srv.Close()

	notifier := NewTwilioNotifier("AC123", "wrong", "+14155550100", "+14155550123", srv.URL, time.Second, testLogger())

	if err := notifier.Notify(context.Background(), testAlert()); err == nil {
		t.Fatal("非 2xx 应报错")
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
