package taskview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Credential is the opaque identity material attached to outgoing requests.
// Either Bearer (Authorization header) or Cookie (session cookie string) —
// the mechanism that issued it is not this package's concern.
type Credential struct {
	Bearer string
	Cookie string
}

func (c Credential) empty() bool { return c.Bearer == "" && c.Cookie == "" }

// CredentialProvider supplies the credential per call. There is no ambient
// fallback: when the provider yields nothing the request fails closed with
// a validation error instead of leaving the process unauthenticated.
type CredentialProvider interface {
	Credential(ctx context.Context) (Credential, error)
}

// StaticCredential is a CredentialProvider returning a fixed credential.
type StaticCredential Credential

func (s StaticCredential) Credential(context.Context) (Credential, error) {
	return Credential(s), nil
}

// errorEnvelope is the server's non-2xx body: { error, details? }.
type errorEnvelope struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// deleteAck is the DELETE /tasks/{id} success body.
type deleteAck struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// transport issues requests against the remote tasks resource and maps
// every outcome into the closed error taxonomy. It never retries; retry
// policy belongs to the caller.
type transport struct {
	base  *url.URL
	http  *http.Client
	creds CredentialProvider
	log   Logger
}

func newTransport(baseURL string, hc *http.Client, creds CredentialProvider, log Logger) (*transport, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("taskview: invalid base URL %q", baseURL)
	}
	return &transport{
		base:  u,
		http:  coalesce(hc, &http.Client{Timeout: 30 * time.Second}),
		creds: creds,
		log:   log,
	}, nil
}

func (t *transport) list(ctx context.Context, f Filter) (ListView, error) {
	var v ListView
	if err := t.send(ctx, http.MethodGet, "/tasks", f.query(), nil, &v); err != nil {
		return ListView{}, err
	}
	if verr := ValidateView(v); verr != nil {
		return ListView{}, serializationErr("list response failed validation", verr)
	}
	return v, nil
}

func (t *transport) create(ctx context.Context, in CreateInput) (Task, error) {
	var out Task
	if err := t.send(ctx, http.MethodPost, "/tasks", nil, in, &out); err != nil {
		return Task{}, err
	}
	if verr := ValidateTask(out); verr != nil {
		return Task{}, serializationErr("create response failed validation", verr)
	}
	return out, nil
}

func (t *transport) update(ctx context.Context, id string, p Patch) (Task, error) {
	var out Task
	if err := t.send(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), nil, p, &out); err != nil {
		return Task{}, err
	}
	if verr := ValidateTask(out); verr != nil {
		return Task{}, serializationErr("update response failed validation", verr)
	}
	return out, nil
}

func (t *transport) delete(ctx context.Context, id string) error {
	var ack deleteAck
	if err := t.send(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, &ack); err != nil {
		return err
	}
	if ack.ID != id || ack.Status != "deleted" {
		return serializationErr("delete response failed validation", nil)
	}
	return nil
}

// send performs one round trip: attach credential, issue, classify.
func (t *transport) send(ctx context.Context, method, path string, query url.Values, body, out any) error {
	cred, err := t.creds.Credential(ctx)
	if err != nil {
		return validationErr("credential lookup failed: " + err.Error())
	}
	if cred.empty() {
		return validationErr("credential required")
	}

	u := *t.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return validationErr("request body not serializable: " + err.Error())
		}
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return validationErr("request build failed: " + err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if cred.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Bearer)
	}
	if cred.Cookie != "" {
		req.Header.Set("Cookie", cred.Cookie)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return networkErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return networkErr(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return t.httpError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return serializationErr("response body not decodable", err)
		}
	}
	return nil
}

func (t *transport) httpError(status int, raw []byte) *Error {
	var env errorEnvelope
	msg := http.StatusText(status)
	var details map[string]any
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
		msg = env.Error
		details = env.Details
	} else {
		t.log.Debug("non-json error envelope", Fields{"status": status})
	}
	return &Error{Kind: KindHTTP, Status: status, Message: msg, Details: details}
}

// maxResponseBytes bounds response reads; anything larger is hostile for a
// paged collection capped at 100 items.
const maxResponseBytes = 4 << 20
