package precondition

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var lastModified = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func makeRequest(method string, headers map[string]string) *http.Request {
	request := httptest.NewRequest(method, "/", nil)
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	return request
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	validators := Validators{ETag: `"v1"`, LastModified: lastModified}
	before := lastModified.Add(-time.Hour).Format(http.TimeFormat)
	after := lastModified.Add(time.Hour).Format(http.TimeFormat)
	same := lastModified.Format(http.TimeFormat)

	testCases := []struct {
		name     string
		method   string
		headers  map[string]string
		expected Outcome
	}{
		{name: "no headers", method: http.MethodGet, expected: Proceed},
		{name: "if-match strong hit", method: http.MethodPut, headers: map[string]string{"If-Match": `"v0", "v1"`}, expected: Proceed},
		{name: "if-match miss", method: http.MethodGet, headers: map[string]string{"If-Match": `"v2"`}, expected: PreconditionFailed},
		{name: "if-match weak is not strong", method: http.MethodGet, headers: map[string]string{"If-Match": `W/"v1"`}, expected: PreconditionFailed},
		{name: "if-match wildcard", method: http.MethodGet, headers: map[string]string{"If-Match": "*"}, expected: Proceed},
		{name: "if-unmodified-since failing", method: http.MethodGet, headers: map[string]string{"If-Unmodified-Since": before}, expected: PreconditionFailed},
		{name: "if-unmodified-since passing", method: http.MethodGet, headers: map[string]string{"If-Unmodified-Since": same}, expected: Proceed},
		{name: "if-unmodified-since malformed", method: http.MethodGet, headers: map[string]string{"If-Unmodified-Since": "yesterday"}, expected: Proceed},
		{name: "if-none-match weak hit get", method: http.MethodGet, headers: map[string]string{"If-None-Match": `W/"v1"`}, expected: NotModified},
		{name: "if-none-match hit head", method: http.MethodHead, headers: map[string]string{"If-None-Match": `"v1"`}, expected: NotModified},
		{name: "if-none-match hit post", method: http.MethodPost, headers: map[string]string{"If-None-Match": `"v1"`}, expected: PreconditionFailed},
		{name: "if-none-match wildcard", method: http.MethodGet, headers: map[string]string{"If-None-Match": "*"}, expected: NotModified},
		{name: "if-none-match miss", method: http.MethodGet, headers: map[string]string{"If-None-Match": `"v2"`}, expected: Proceed},
		{name: "if-modified-since not modified", method: http.MethodGet, headers: map[string]string{"If-Modified-Since": after}, expected: NotModified},
		{name: "if-modified-since equal", method: http.MethodGet, headers: map[string]string{"If-Modified-Since": same}, expected: NotModified},
		{name: "if-modified-since modified", method: http.MethodGet, headers: map[string]string{"If-Modified-Since": before}, expected: Proceed},
		{name: "if-modified-since ignored for post", method: http.MethodPost, headers: map[string]string{"If-Modified-Since": after}, expected: Proceed},
		{
			name:     "if-modified-since ignored with if-none-match",
			method:   http.MethodGet,
			headers:  map[string]string{"If-None-Match": `"v2"`, "If-Modified-Since": after},
			expected: Proceed,
		},
		{
			name:     "precondition failure wins",
			method:   http.MethodGet,
			headers:  map[string]string{"If-Match": `"v2"`, "If-None-Match": `"v1"`},
			expected: PreconditionFailed,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := Evaluate(makeRequest(testCase.method, testCase.headers), validators)
			if diff := cmp.Diff(testCase.expected, got); diff != "" {
				t.Errorf("outcome mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestIfRangeSatisfied(t *testing.T) {
	t.Parallel()

	validators := Validators{ETag: `"v1"`, LastModified: lastModified}

	testCases := []struct {
		name     string
		ifRange  string
		expected bool
	}{
		{name: "absent", expected: true},
		{name: "strong etag match", ifRange: `"v1"`, expected: true},
		{name: "etag mismatch", ifRange: `"v2"`, expected: false},
		{name: "weak etag", ifRange: `W/"v1"`, expected: false},
		{name: "same date", ifRange: lastModified.Format(http.TimeFormat), expected: true},
		{name: "older date", ifRange: lastModified.Add(-time.Minute).Format(http.TimeFormat), expected: false},
		{name: "garbage", ifRange: "tomorrow", expected: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			headers := map[string]string{}
			if testCase.ifRange != "" {
				headers["If-Range"] = testCase.ifRange
			}
			if got := IfRangeSatisfied(makeRequest(http.MethodGet, headers), validators); got != testCase.expected {
				t.Errorf("got %v, expected %v", got, testCase.expected)
			}
		})
	}
}

func TestParseEntityTag(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff(&EntityTag{Opaque: "abc", Weak: true}, ParseEntityTag(` W/"abc" `)); diff != "" {
		t.Errorf("entity tag mismatch (-expected +got):\n%s", diff)
	}
	if got := ParseEntityTag("abc"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := (&EntityTag{Opaque: "x"}).String(); got != `"x"` {
		t.Errorf("got %q", got)
	}
}
