package taskview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestTransport(t *testing.T, h http.HandlerFunc) (*transport, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	tr, err := newTransport(srv.URL, srv.Client(), StaticCredential{Bearer: "tok"}, NopLogger{})
	if err != nil {
		t.Fatalf("newTransport: %v", err)
	}
	return tr, srv
}

func serverTask(id string) Task {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return Task{
		ID: id, Title: "Ship report", Status: Status("TODO"), Priority: Priority("MEDIUM"),
		Tags: []string{}, CreatedAt: now, UpdatedAt: now,
	}
}

func TestTransportListBuildsQueryAndAttachesCredential(t *testing.T) {
	var gotAuth string
	var gotQuery map[string][]string
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(ListView{Items: []Task{serverTask(idA)}, Page: 1, PageSize: 20, Total: 1})
	})

	st := StatusTodo
	v, err := tr.list(context.Background(), Filter{Status: &st, Tags: []string{"b", "a"}, PageSize: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if v.Total != 1 || len(v.Items) != 1 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("credential not attached: %q", gotAuth)
	}
	if got := gotQuery["tag"]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("tags not sent sorted/repeatable: %v", got)
	}
	if gotQuery["status"][0] != "TODO" || gotQuery["pageSize"][0] != "20" {
		t.Fatalf("query params wrong: %v", gotQuery)
	}
}

func TestTransportMissingCredentialFailsClosed(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	t.Cleanup(srv.Close)
	tr, err := newTransport(srv.URL, srv.Client(), StaticCredential{}, NopLogger{})
	if err != nil {
		t.Fatalf("newTransport: %v", err)
	}

	_, err = tr.list(context.Background(), Filter{})
	terr := Coerce(err)
	if terr == nil || terr.Kind != KindValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if called {
		t.Fatalf("request must not leave the process without a credential")
	}
}

func TestTransportErrorClassification(t *testing.T) {
	cases := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   Kind
		wantStatus int
	}{
		{
			name: "http 401",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(401)
				json.NewEncoder(w).Encode(map[string]any{"error": "token expired"})
			},
			wantKind: KindHTTP, wantStatus: 401,
		},
		{
			name: "http 404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(404)
				json.NewEncoder(w).Encode(map[string]any{"error": "not yours"})
			},
			wantKind: KindHTTP, wantStatus: 404,
		},
		{
			name: "http 500 non-json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(500)
				w.Write([]byte("<html>boom</html>"))
			},
			wantKind: KindHTTP, wantStatus: 500,
		},
		{
			name: "malformed 2xx body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			},
			wantKind: KindSerialization,
		},
		{
			name: "contract-violating 2xx body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ListView{
					Items: []Task{{ID: "nope", Title: ""}}, Page: 1, PageSize: 20, Total: 1,
				})
			},
			wantKind: KindSerialization,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, _ := newTestTransport(t, tc.handler)
			_, err := tr.list(context.Background(), Filter{})
			terr := Coerce(err)
			if terr == nil {
				t.Fatalf("expected error")
			}
			if terr.Kind != tc.wantKind {
				t.Fatalf("kind = %s, want %s (%v)", terr.Kind, tc.wantKind, err)
			}
			if tc.wantStatus != 0 && terr.Status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", terr.Status, tc.wantStatus)
			}
		})
	}
}

func TestTransportNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	tr, err := newTransport(srv.URL, nil, StaticCredential{Bearer: "tok"}, NopLogger{})
	if err != nil {
		t.Fatalf("newTransport: %v", err)
	}
	srv.Close() // connection refused from here on

	_, err = tr.list(context.Background(), Filter{})
	terr := Coerce(err)
	if terr == nil || terr.Kind != KindNetwork {
		t.Fatalf("expected network failure, got %v", err)
	}
	if !terr.Retryable() {
		t.Fatalf("network failures must be retryable by policy")
	}
}

func TestTransportHTTPErrorPreservesEnvelope(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(422)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   "title too long",
			"details": map[string]any{"max": 200},
		})
	})

	_, err := tr.create(context.Background(), CreateInput{Title: "x"})
	terr := Coerce(err)
	if terr.Kind != KindHTTP || terr.Status != 422 {
		t.Fatalf("unexpected classification: %v", err)
	}
	if terr.Message != "title too long" {
		t.Fatalf("server message lost: %q", terr.Message)
	}
	if terr.Details["max"] != float64(200) {
		t.Fatalf("details lost: %v", terr.Details)
	}
	if terr.Retryable() {
		t.Fatalf("http failures must not be retryable")
	}
}

func TestTransportDeleteAck(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": idA, "status": "deleted"})
	})
	if err := tr.delete(context.Background(), idA); err != nil {
		t.Fatalf("delete: %v", err)
	}

	tr2, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": idB, "status": "deleted"})
	})
	err := tr2.delete(context.Background(), idA)
	if terr := Coerce(err); terr == nil || terr.Kind != KindSerialization {
		t.Fatalf("mismatched ack must be a serialization failure: %v", err)
	}
}

func TestUserMessageDeterministic(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindHTTP, Status: 401}, "sign in required"},
		{&Error{Kind: KindHTTP, Status: 404}, "not found"},
		{&Error{Kind: KindHTTP, Status: 503}, "service unavailable, try again"},
		{&Error{Kind: KindValidation}, "invalid input"},
		{&Error{Kind: KindNetwork}, "connection problem, try again"},
		{&Error{Kind: KindSerialization}, "unexpected server response"},
		{&Error{Kind: KindUnknown}, "something went wrong"},
	}
	for _, tc := range cases {
		if got := tc.err.UserMessage(); got != tc.want {
			t.Fatalf("UserMessage(%s/%d) = %q, want %q", tc.err.Kind, tc.err.Status, got, tc.want)
		}
	}
}
