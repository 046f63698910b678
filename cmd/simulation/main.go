package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"
)

// Simplified DTOs for the script
type chatRequest struct {
	Question string            `json:"question"`
	Profile  map[string]string `json:"profile"`
}

type chatResponse struct {
	Data struct {
		SessionID string `json:"session_id"`
		Answer    string `json:"answer"`
		Intent    string `json:"intent"`
		Route     string `json:"route"`
		Turn      int    `json:"turn"`
	} `json:"data"`
}

func main() {
	baseURL := os.Getenv("SIMULATION_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}

	fmt.Println("=== Job Advisor Simulation Client ===")

	// The cookie jar keeps the session_id cookie across turns, like a browser.
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar, Timeout: 120 * time.Second}

	profile := map[string]string{
		"candidate_major":      "컴퓨터공학",
		"candidate_career":     "신입",
		"candidate_interest":   "백엔드 개발",
		"candidate_location":   "서울",
		"candidate_tech_stack": "Go, Redis, PostgreSQL",
	}

	testCases := []string{
		"제 프로필에 맞는 공고를 추천해주세요",
		"1번 알려줘",
		"네 분석해줘",
		"그 회사 면접은 어떻게 준비해야 할까요?",
	}

	for _, text := range testCases {
		fmt.Printf("\nUSER: %s\n", text)

		start := time.Now()
		reply, err := sendChat(client, baseURL, text, profile)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Printf("AI (%v) [intent=%s route=%s turn=%d]:\n%s\n",
			elapsed, reply.Data.Intent, reply.Data.Route, reply.Data.Turn, reply.Data.Answer)

		time.Sleep(1 * time.Second)
	}
}

func sendChat(client *http.Client, baseURL, question string, profile map[string]string) (*chatResponse, error) {
	payload, err := json.Marshal(chatRequest{Question: question, Profile: profile})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", baseURL+"/chat", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("server returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
