package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"time"
)

const baseURL = "http://localhost:8080"

var client *http.Client

func main() {
	jar, _ := cookiejar.New(nil)
	client = &http.Client{Jar: jar}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	username := fmt.Sprintf("e2e-user-%d", time.Now().UnixNano())

	// 1. Health Check
	checkEndpoint("GET", "/api/portfolio/health", nil, 200)

	// 2. Signup + Signin (session cookie lands in the jar)
	checkEndpoint("POST", "/api/portfolio/signup", map[string]interface{}{
		"username": username, "password": "e2e-pass", "first_name": "e2e", "last_name": "test",
	}, 200)
	checkEndpoint("POST", "/api/portfolio/signin", map[string]interface{}{
		"username": username, "password": "e2e-pass",
	}, 200)

	// 3. Add two lots, one with string-encoded numbers
	id1 := addInvestment(map[string]interface{}{"ticker": "AAPL", "quantity": 10, "buy_price": 150.5})
	id2 := addInvestment(map[string]interface{}{"ticker": "MSFT", "quantity": "3", "buy_price": "310.25"})
	fmt.Printf("Created holdings: %d, %d\n", id1, id2)

	// 4. List, analytics, history
	checkEndpoint("GET", "/api/portfolio", nil, 200)
	checkEndpoint("GET", "/api/portfolio/analytics", nil, 200)
	checkEndpoint("GET", "/api/portfolio/analytics/history", nil, 200)

	// 5. Update then delete the second lot
	checkEndpoint("PUT", fmt.Sprintf("/api/portfolio/%d", id2), map[string]interface{}{"quantity": 5}, 200)
	checkEndpoint("DELETE", fmt.Sprintf("/api/portfolio/%d", id2), nil, 200)
	checkEndpoint("DELETE", fmt.Sprintf("/api/portfolio/%d", id2), nil, 404)

	// 6. Logout, then the protected surface goes 401
	checkEndpoint("POST", "/api/portfolio/logout", nil, 200)
	checkEndpoint("GET", "/api/portfolio", nil, 401)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(method, path string, body interface{}, expectedStatus int) []byte {
	fmt.Printf("Testing %s %s...\n", method, path)
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, baseURL+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	fmt.Printf("Response: %s\n", string(respBody))
	return respBody
}

func addInvestment(body map[string]interface{}) int64 {
	respBody := checkEndpoint("POST", "/api/portfolio", body, 200)
	var res struct {
		Holding struct {
			ID int64 `json:"id"`
		} `json:"holding"`
	}
	if err := json.Unmarshal(respBody, &res); err != nil {
		log.Fatalf("decode add response: %v", err)
	}
	return res.Holding.ID
}
