package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/pkg/format"
	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/pkg/validator"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("integration-test-secret")
	var err error
	engine, err = validator.New(validator.DefaultConfig(), format.Checks())
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	initDB()
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullValidationFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "agent1", "password": "passw0rd"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "agent1", "password": "passw0rd"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Submit a validation run
	valBody, _ := json.Marshal(map[string]any{
		"forced_doc_type": "ID",
		"raw_text":        "ROYAUME DU MAROC CNIE AB123456",
		"proposed_result": map[string]any{
			"score": 95,
			"extracted_data": map[string]string{
				"cne":         "AB123456",
				"full_name":   "Ahmed Benali",
				"birth_date":  "01/01/1990",
				"expiry_date": "12/01/2035",
			},
		},
	})
	resp = performRequest(r, http.MethodPost, "/validations", bytes.NewBuffer(valBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("validation failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var valResp struct {
		Reference string           `json:"reference"`
		Result    validator.Result `json:"result"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &valResp); err != nil {
		t.Fatalf("bad validation response: %v", err)
	}
	if valResp.Reference == "" {
		t.Fatalf("empty reference in response: %s", resp.Body.String())
	}
	if valResp.Result.Decision != validator.DecisionAccept {
		t.Fatalf("expected ACCEPT, got %s (reason=%q)", valResp.Result.Decision, valResp.Result.Reason)
	}

	// 4. List validations
	resp = performRequest(r, http.MethodGet, "/validations?doc_type=id", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list validations failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var items []map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &items)
	if len(items) == 0 {
		t.Fatalf("expected at least one validation record")
	}

	// 5. Fetch by reference
	resp = performRequest(r, http.MethodGet, "/validations/"+valResp.Reference, nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("get validation failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. A missing payload is a 400, not a stored record
	resp = performRequest(r, http.MethodPost, "/validations", bytes.NewBufferString("{}"), token, "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing doc type got %d", resp.Code)
	}

	// 7. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/validations", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
