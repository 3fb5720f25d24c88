package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
)

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	vars         map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:   tc,
		vars: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the validation server is running$`, s.theValidationServerIsRunning)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I am authenticated with an expired token$`, s.iAmAuthenticatedWithAnExpiredToken)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)

	// Request steps
	sc.Step(`^I (GET|DELETE|POST) "([^"]*)"$`, s.iSendRequest)
	sc.Step(`^I (POST|PUT|PATCH) "([^"]*)" with:$`, s.iSendRequestWith)
	sc.Step(`^I upload the video "([^"]*)" to project "([^"]*)"$`, s.iUploadTheVideo)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response should be a list of (\d+) items?$`, s.theResponseShouldBeAListOf)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, s.iRememberTheResponseField)
}

// Background steps

func (s *StepsContext) theValidationServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(user string) error {
	return s.signToken(user, time.Now().Add(time.Hour))
}

func (s *StepsContext) iAmAuthenticatedWithAnExpiredToken() error {
	return s.signToken("expired", time.Now().Add(-time.Hour))
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) signToken(user string, expires time.Time) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user,
		"exp": expires.Unix(),
	})
	signed, err := token.SignedString([]byte(s.tc.JWTSecret))
	if err != nil {
		return err
	}
	s.authToken = signed
	return nil
}

// Request steps

// expand replaces {name} with values remembered earlier in the scenario
func (s *StepsContext) expand(text string) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := s.vars[name]
		if !ok {
			missing = name
			return m
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("no value remembered as %q", missing)
	}
	return out, nil
}

func (s *StepsContext) do(method, path, contentType string, body io.Reader) error {
	path, err := s.expand(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) iSendRequest(method, path string) error {
	return s.do(method, path, "", nil)
}

func (s *StepsContext) iSendRequestWith(method, path string, body *godog.DocString) error {
	content, err := s.expand(body.Content)
	if err != nil {
		return err
	}
	contentType := "application/json"
	if body.MediaType != "" {
		contentType = body.MediaType
	}
	return s.do(method, path, contentType, strings.NewReader(content))
}

func (s *StepsContext) iUploadTheVideo(filename, projectVar string) error {
	projectID, ok := s.vars[projectVar]
	if !ok {
		return fmt.Errorf("no value remembered as %q", projectVar)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte("not really a video")); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	return s.do(http.MethodPost, "/api/projects/"+projectID+"/videos", mw.FormDataContentType(), &buf)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

// field walks a dotted path such as "result.f1Score" or "0.id"
func (s *StepsContext) field(path string) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal(s.responseBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}

	cur := doc
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[key]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, string(s.responseBody))
			}
			cur = v
		case []interface{}:
			var i int
			if _, err := fmt.Sscanf(key, "%d", &i); err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", key, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q of %q", key, path)
		}
	}
	return cur, nil
}

func (s *StepsContext) theResponseFieldShouldBe(path, expected string) error {
	v, err := s.field(path)
	if err != nil {
		return err
	}
	expected, err = s.expand(expected)
	if err != nil {
		return err
	}
	if diff := cmp.Diff(expected, fmt.Sprint(v)); diff != "" {
		return fmt.Errorf("field %q mismatch (-want +got):\n%s", path, diff)
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeAListOf(count int) error {
	var items []json.RawMessage
	if err := json.Unmarshal(s.responseBody, &items); err != nil {
		return fmt.Errorf("response is not a JSON array: %s", string(s.responseBody))
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items, got %d", count, len(items))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected body to contain %q, got %s", text, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iRememberTheResponseField(path, name string) error {
	v, err := s.field(path)
	if err != nil {
		return err
	}
	s.vars[name] = fmt.Sprint(v)
	return nil
}
