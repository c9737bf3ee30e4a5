// Package tests exercises a running API server end to end. Start the server
// (and its MongoDB) first, then run with CAMPDIR_API_URL pointing at it;
// without the variable the suite is skipped.
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

var apiBase = os.Getenv("CAMPDIR_API_URL")

const (
	testEmail    = "e2e-publisher@example.com"
	testPassword = "password123"
)

type envelope struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Error   string          `json:"error"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, method, path, token string, payload any) (*http.Response, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response for %s %s: %v", method, path, err)
	}
	return resp, env
}

// TestAPIEndpoints walks the main publisher flow against a live server.
func TestAPIEndpoints(t *testing.T) {
	if apiBase == "" {
		t.Skip("CAMPDIR_API_URL not set")
	}

	// Register a publisher; an existing account from an earlier run is fine.
	t.Run("Register Publisher", func(t *testing.T) {
		resp, env := doJSON(t, "POST", "/api/v1/auth/register", "", map[string]string{
			"name":     "E2E Publisher",
			"email":    testEmail,
			"password": testPassword,
			"role":     "publisher",
		})
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("Failed to register. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
	})

	var token string
	t.Run("Login", func(t *testing.T) {
		resp, env := doJSON(t, "POST", "/api/v1/auth/login", "", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to login. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
		token = env.Token
		if token == "" {
			t.Fatal("No token received")
		}
	})

	t.Run("Me", func(t *testing.T) {
		if token == "" {
			t.Skip("Skipping test due to no auth token")
		}
		resp, env := doJSON(t, "GET", "/api/v1/auth/me", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to fetch profile. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
		var user struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(env.Data, &user); err != nil {
			t.Fatalf("Failed to decode profile: %v", err)
		}
		if user.Email != testEmail {
			t.Errorf("Expected email %s, got %s", testEmail, user.Email)
		}
	})

	var bootcampID string
	t.Run("Create Bootcamp", func(t *testing.T) {
		if token == "" {
			t.Skip("Skipping test due to no auth token")
		}
		resp, env := doJSON(t, "POST", "/api/v1/bootcamps", token, map[string]any{
			"name":        fmt.Sprintf("E2E Bootcamp %d", time.Now().UnixNano()),
			"description": "Bootcamp created by the endpoint walkthrough",
			"address":     "233 Bay State Rd Boston MA 02215",
			"careers":     []string{"Web Development"},
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Failed to create bootcamp. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
		var bootcamp struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &bootcamp); err != nil {
			t.Fatalf("Failed to decode bootcamp: %v", err)
		}
		bootcampID = bootcamp.ID
		if bootcampID == "" {
			t.Fatal("No bootcamp ID received")
		}
		t.Logf("Created bootcamp: %s", bootcampID)
	})

	t.Run("Get Bootcamp", func(t *testing.T) {
		if bootcampID == "" {
			t.Skip("Skipping test due to no bootcamp")
		}
		resp, env := doJSON(t, "GET", "/api/v1/bootcamps/"+bootcampID, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to get bootcamp. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
	})

	t.Run("Update Bootcamp", func(t *testing.T) {
		if token == "" || bootcampID == "" {
			t.Skip("Skipping test due to no auth token or bootcamp")
		}
		resp, env := doJSON(t, "PUT", "/api/v1/bootcamps/"+bootcampID, token, map[string]any{
			"housing": true,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to update bootcamp. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
		var bootcamp struct {
			Housing bool `json:"housing"`
		}
		if err := json.Unmarshal(env.Data, &bootcamp); err != nil {
			t.Fatalf("Failed to decode bootcamp: %v", err)
		}
		if !bootcamp.Housing {
			t.Error("Expected housing to be updated to true")
		}
	})

	t.Run("List Bootcamps With Filters", func(t *testing.T) {
		resp, env := doJSON(t, "GET", "/api/v1/bootcamps?housing=true&select=name,housing&limit=5", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to list bootcamps. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
		if env.Count < 1 {
			t.Error("Expected at least the bootcamp created above")
		}
	})

	var courseID string
	t.Run("Create Course", func(t *testing.T) {
		if token == "" || bootcampID == "" {
			t.Skip("Skipping test due to no auth token or bootcamp")
		}
		resp, env := doJSON(t, "POST", "/api/v1/bootcamps/"+bootcampID+"/courses", token, map[string]any{
			"title":         "Full Stack Web Development",
			"description":   "Twelve weeks of it",
			"weeks":         "12",
			"tuition":       10000,
			"minimum_skill": "beginner",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Failed to create course. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
		var course struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &course); err != nil {
			t.Fatalf("Failed to decode course: %v", err)
		}
		courseID = course.ID
		t.Logf("Created course: %s", courseID)
	})

	t.Run("Bootcamp Courses Listed", func(t *testing.T) {
		if bootcampID == "" {
			t.Skip("Skipping test due to no bootcamp")
		}
		resp, env := doJSON(t, "GET", "/api/v1/bootcamps/"+bootcampID+"/courses", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to list courses. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
		if env.Count != 1 {
			t.Errorf("Expected 1 course, got %d", env.Count)
		}
	})

	t.Run("Average Cost Rolled Up", func(t *testing.T) {
		if bootcampID == "" || courseID == "" {
			t.Skip("Skipping test due to no bootcamp or course")
		}
		resp, env := doJSON(t, "GET", "/api/v1/bootcamps/"+bootcampID, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to get bootcamp. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}
		var bootcamp struct {
			AverageCost float64 `json:"average_cost"`
		}
		if err := json.Unmarshal(env.Data, &bootcamp); err != nil {
			t.Fatalf("Failed to decode bootcamp: %v", err)
		}
		if bootcamp.AverageCost != 10000 {
			t.Errorf("Expected average_cost 10000, got %v", bootcamp.AverageCost)
		}
	})

	t.Run("Delete Bootcamp Cascades", func(t *testing.T) {
		if token == "" || bootcampID == "" {
			t.Skip("Skipping test due to no auth token or bootcamp")
		}
		resp, env := doJSON(t, "DELETE", "/api/v1/bootcamps/"+bootcampID, token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to delete bootcamp. Status: %d, Error: %s", resp.StatusCode, env.Error)
		}

		verifyResp, _ := doJSON(t, "GET", "/api/v1/bootcamps/"+bootcampID, "", nil)
		if verifyResp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 for deleted bootcamp, got %d", verifyResp.StatusCode)
		}

		if courseID != "" {
			courseResp, _ := doJSON(t, "GET", "/api/v1/courses/"+courseID, "", nil)
			if courseResp.StatusCode != http.StatusNotFound {
				t.Errorf("Expected 404 for cascaded course, got %d", courseResp.StatusCode)
			}
		}
	})
}

func TestMain(m *testing.M) {
	if apiBase != "" {
		tries := 0
		for tries < 5 {
			resp, err := http.Get(apiBase + "/api/v1/bootcamps")
			if err == nil {
				resp.Body.Close()
				break
			}
			fmt.Printf("Waiting for API server to be ready (attempt %d/5)...\n", tries+1)
			time.Sleep(2 * time.Second)
			tries++
		}
	}
	os.Exit(m.Run())
}
