// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func apiBaseURL() string {
	if u := os.Getenv("COURSEQA_API_URL"); u != "" {
		return u
	}
	return "http://localhost:8000"
}

func newClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiBaseURL()).
		SetTimeout(60*time.Second).
		SetHeader("Content-Type", "application/json")
}

type querySource struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

type queryReply struct {
	Answer    string        `json:"answer"`
	Sources   []querySource `json:"sources"`
	SessionID string        `json:"session_id"`
}

func postQuery(queryText, sessionID string) (*queryReply, error) {
	var out queryReply
	resp, err := newClient().R().
		SetBody(map[string]string{"query": queryText, "session_id": sessionID}).
		SetResult(&out).
		Post("/api/query")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("POST /api/query: %s", resp.String())
	}
	return &out, nil
}

type courseStats struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

func getCourses() (*courseStats, error) {
	var out courseStats
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/courses")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET /api/courses: %s", resp.String())
	}
	return &out, nil
}

func getHealth() error {
	resp, err := newClient().R().Get("/api/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("GET /api/health: %s", resp.String())
	}
	return nil
}
