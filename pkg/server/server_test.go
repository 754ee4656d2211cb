package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"helix-hq/warden/pkg/approval"
	"helix-hq/warden/pkg/audit"
	"helix-hq/warden/pkg/audit/storage"
	"helix-hq/warden/pkg/config"
	"helix-hq/warden/pkg/controlplane"
	"helix-hq/warden/pkg/pipeline"
	"helix-hq/warden/pkg/pipeline/steps"
	"helix-hq/warden/pkg/policy"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	approvalStore, err := approval.NewJSONLStore(filepath.Join(t.TempDir(), "approvals.jsonl"))
	if err != nil {
		t.Fatalf("NewJSONLStore: %v", err)
	}
	t.Cleanup(func() { approvalStore.Close() })

	orch := controlplane.New(
		controlplane.DefaultConfig(),
		policy.NewEvaluator(nil),
		pipeline.NewExecutor(nil),
		steps.Default(),
		storage.NewMemoryStore(),
		approval.NewRegister(approvalStore, nil),
		nil,
	)

	cfg := config.DefaultConfig()
	return NewServer(&cfg.Server, &cfg.Telemetry.Metrics, orch, nil)
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func validPayload() map[string]any {
	return map[string]any{
		"title":           "Dashboard is down",
		"description":     "The analytics dashboard returns a 500 error on load.",
		"requester_email": "ops@helix.example",
		"department":      "engineering",
		"system":          "analytics",
		"urgency":         "critical",
	}
}

func TestServer_RunEndpoint(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postJSON(t, handler, "/v1/run", validPayload())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing X-Request-ID header")
	}

	var result controlplane.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != audit.StatusSucceeded {
		t.Errorf("status = %q, want %q", result.Status, audit.StatusSucceeded)
	}
	if result.Record == nil || result.Record.AuditID == "" {
		t.Error("missing audit record in response")
	}
	if result.Pipeline == nil || result.Pipeline.FinalOutput["category"] != "incident" {
		t.Errorf("pipeline output = %+v", result.Pipeline)
	}
}

func TestServer_RunValidationError(t *testing.T) {
	handler := newTestServer(t).Handler()

	payload := validPayload()
	delete(payload, "urgency")

	rec := postJSON(t, handler, "/v1/run", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "urgency") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestServer_RunMalformedBody(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/run", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServer_ApprovalFlow(t *testing.T) {
	handler := newTestServer(t).Handler()

	payload := validPayload()
	payload["description"] = "User jane@co.com cannot access the export."

	rec := postJSON(t, handler, "/v1/run", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("run status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var held controlplane.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &held); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if held.Status != audit.StatusNeedsApproval {
		t.Fatalf("status = %q, want %q", held.Status, audit.StatusNeedsApproval)
	}

	rec = postJSON(t, handler, "/v1/approve", map[string]any{
		"audit_id":    held.Record.AuditID,
		"decision":    "approved",
		"approved_by": "alice",
		"reason":      "redacted copy is safe",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var approved approval.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &approved); err != nil {
		t.Fatalf("decode approval: %v", err)
	}
	if !strings.HasPrefix(approved.ApprovalID, held.Record.AuditID+":") {
		t.Errorf("approval_id = %q", approved.ApprovalID)
	}

	rec = postJSON(t, handler, "/v1/resume", map[string]any{"audit_id": held.Record.AuditID})
	if rec.Code != http.StatusOK {
		t.Fatalf("resume status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resumed controlplane.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resumed); err != nil {
		t.Fatalf("decode resume: %v", err)
	}
	if resumed.Record.ResumedFromAuditID != held.Record.AuditID {
		t.Errorf("resumed_from = %q", resumed.Record.ResumedFromAuditID)
	}
}

func TestServer_ApproveUnknownAuditID(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postJSON(t, handler, "/v1/approve", map[string]any{
		"audit_id": "no-such-id",
		"decision": "approved",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestServer_ResumeWithoutApproval(t *testing.T) {
	handler := newTestServer(t).Handler()

	payload := validPayload()
	payload["description"] = "User jane@co.com cannot access the export."

	rec := postJSON(t, handler, "/v1/run", payload)
	var held controlplane.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &held); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = postJSON(t, handler, "/v1/resume", map[string]any{"audit_id": held.Record.AuditID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestServer_ReplayEndpoint(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postJSON(t, handler, "/v1/run", validPayload())
	var first controlplane.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = postJSON(t, handler, "/v1/replay", map[string]any{"audit_id": first.Record.AuditID})
	if rec.Code != http.StatusOK {
		t.Fatalf("replay status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var replayed controlplane.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &replayed); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if replayed.Status != audit.StatusReplayed {
		t.Errorf("status = %q, want %q", replayed.Status, audit.StatusReplayed)
	}
	if replayed.Decision.ReplayedFromAuditID != first.Record.AuditID {
		t.Errorf("replayed_from = %q", replayed.Decision.ReplayedFromAuditID)
	}
}

func TestServer_AuditGet(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postJSON(t, handler, "/v1/run", validPayload())
	var first controlplane.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/audit/"+first.Record.AuditID, nil)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, req)

	if getRec.Code != http.StatusOK {
		t.Fatalf("status = %d", getRec.Code)
	}

	var record audit.Record
	if err := json.Unmarshal(getRec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.AuditID != first.Record.AuditID {
		t.Errorf("audit_id = %q, want %q", record.AuditID, first.Record.AuditID)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/audit/no-such-id", nil)
	getRec = httptest.NewRecorder()
	handler.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", getRec.Code)
	}
}

func TestServer_Health(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestServer_Metrics(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/run", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
