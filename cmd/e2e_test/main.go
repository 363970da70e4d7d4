package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	// 1. Health Check
	checkEndpoint(baseURL, "GET", "/health", nil, 200)

	// 2. Create two investments
	tag := fmt.Sprintf("e2e-%d", time.Now().UnixNano())
	idA := createInvestment(baseURL, map[string]any{
		"date": "2024-01-05", "instrument": tag + "-AAPL", "buy_price": "100", "current_price": "150", "instrument_type": "stock",
	})
	idB := createInvestment(baseURL, map[string]any{
		"date": "2024-01-20", "instrument": tag + "-MSFT", "buy_price": "200", "current_price": "180", "instrument_type": "stock",
	})
	fmt.Printf("Created investments %d and %d\n", idA, idB)

	// 3. Read back
	checkEndpoint(baseURL, "GET", "/api/investments", nil, 200)

	// 4. Charts
	checkEndpoint(baseURL, "GET", "/api/charts/monthly", nil, 200)
	checkEndpoint(baseURL, "GET", "/api/charts/top-profitable?k=10", nil, 200)

	// 5. Update
	checkEndpoint(baseURL, "PUT", fmt.Sprintf("/api/investments/%d", idB), map[string]any{
		"date": "2024-02-01", "instrument": tag + "-MSFT", "buy_price": "150", "current_price": "180", "instrument_type": "stock",
	}, 200)

	// 6. Dashboard page
	checkEndpoint(baseURL, "GET", "/", nil, 200)

	// 7. Delete both, the second delete of idA is a no-op
	checkEndpoint(baseURL, "DELETE", fmt.Sprintf("/api/investments/%d", idA), nil, 200)
	checkEndpoint(baseURL, "DELETE", fmt.Sprintf("/api/investments/%d", idA), nil, 200)
	checkEndpoint(baseURL, "DELETE", fmt.Sprintf("/api/investments/%d", idB), nil, 200)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(baseURL, method, path string, body interface{}, expectedStatus int) {
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

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	if len(respBody) > 300 {
		respBody = append(respBody[:300], "..."...)
	}
	fmt.Printf("Response: %s\n", string(respBody))
}

func createInvestment(baseURL string, reqBody map[string]any) int64 {
	fmt.Printf("Creating investment %v...\n", reqBody["instrument"])
	jsonBody, _ := json.Marshal(reqBody)
	resp, err := http.Post(baseURL+"/api/investments", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Fatalf("Create investment failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		body, _ := io.ReadAll(resp.Body)
		log.Fatalf("Create investment failed with status %d: %s", resp.StatusCode, string(body))
	}

	var res map[string]int64
	json.NewDecoder(resp.Body).Decode(&res)
	return res["id"]
}
