//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/jsamuelsen/artistly/internal/platform/config"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	baseURL string
	client  *http.Client
	svc     *service
	headers map[string]string

	response     *http.Response
	responseBody []byte
}

// newTestContext targets BASE_URL when set, otherwise an in-process service
// started per scenario.
func newTestContext() *testContext {
	return &testContext{
		baseURL: os.Getenv("BASE_URL"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// reset clears per-scenario state.
func (tc *testContext) reset() {
	if tc.svc != nil {
		tc.svc.Close()
		tc.svc = nil
	}

	tc.headers = map[string]string{}
	tc.response = nil
	tc.responseBody = nil
}

func (tc *testContext) url(path string) string {
	if tc.svc != nil {
		return tc.svc.server.URL + path
	}

	return tc.baseURL + path
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := newTestContext()

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^the dashboard requires the "([^"]*)" role$`, tc.theDashboardRequiresRole)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, tc.iSetHeader)
	ctx.Step(`^I send (GET|POST|PUT|DELETE) "([^"]*)"$`, tc.iSend)
	ctx.Step(`^I send (POST|PUT) "([^"]*)" with body:$`, tc.iSendWithBody)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the response header "([^"]*)" should not be empty$`, tc.theResponseHeaderShouldNotBeEmpty)
	ctx.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, tc.theJSONFieldShouldBe)
	ctx.Step(`^the JSON array "([^"]*)" should have (\d+) items?$`, tc.theJSONArrayShouldHave)
}

func (tc *testContext) theServiceIsRunning() error {
	if tc.baseURL == "" {
		svc, err := startService(nil, config.AuthConfig{})
		if err != nil {
			return fmt.Errorf("starting service: %w", err)
		}

		tc.svc = svc
	}

	if err := tc.iSend(http.MethodGet, "/-/live"); err != nil {
		return fmt.Errorf("service is not running: %w", err)
	}

	return tc.theResponseStatusShouldBe(http.StatusOK)
}

func (tc *testContext) theDashboardRequiresRole(role string) error {
	if tc.baseURL != "" {
		return godog.ErrPending
	}

	if tc.svc != nil {
		tc.svc.Close()
	}

	svc, err := startService(nil, config.AuthConfig{
		Enabled:       true,
		ManagerRole:   role,
		SubjectHeader: "X-User-ID",
		RolesHeader:   "X-User-Roles",
	})
	if err != nil {
		return err
	}

	tc.svc = svc

	return nil
}

func (tc *testContext) iSetHeader(name, value string) error {
	tc.headers[name] = value
	return nil
}

func (tc *testContext) iSend(method, path string) error {
	return tc.do(method, path, "")
}

func (tc *testContext) iSendWithBody(method, path string, body *godog.DocString) error {
	return tc.do(method, path, body.Content)
}

func (tc *testContext) do(method, path, body string) error {
	req, err := jsonRequest(method, tc.url(path), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range tc.headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp

	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theResponseHeaderShouldNotBeEmpty(name string) error {
	if tc.response == nil || tc.response.Header.Get(name) == "" {
		return fmt.Errorf("response header %s is empty", name)
	}

	return nil
}

func (tc *testContext) theJSONFieldShouldBe(path, want string) error {
	v, err := tc.lookup(path)
	if err != nil {
		return err
	}

	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("field %s: expected %q, got %q", path, want, got)
	}

	return nil
}

func (tc *testContext) theJSONArrayShouldHave(path string, n int) error {
	v, err := tc.lookup(path)
	if err != nil {
		return err
	}

	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("field %s is %T, not an array", path, v)
	}

	if len(items) != n {
		return fmt.Errorf("field %s: expected %d items, got %d.\nBody: %s", path, n, len(items), tc.responseBody)
	}

	return nil
}

// lookup walks a dotted path such as "artists.0.name" through the response.
func (tc *testContext) lookup(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.responseBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}

	cur := doc

	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %s: %q not found", path, part)
			}

			cur = next

		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("field %s: bad index %q", path, part)
			}

			cur = node[i]

		default:
			return nil, fmt.Errorf("field %s: cannot descend into %T", path, cur)
		}
	}

	return cur, nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
