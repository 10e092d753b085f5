package validation

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQueryNumber(t *testing.T) {
	cases := []struct {
		query string
		value int64
		err   string
	}{
		{"", 30, ""},
		{"pageSize=10", 10, ""},
		{"pageSize=abc", 0, "validation.query.parameter.invalidType"},
		{"pageSize=0", 0, "validation.query.parameter.number.outOfRange"},
	}
	for _, c := range cases {
		request := httptest.NewRequest("GET", "/v1/accounts?"+c.query, nil)
		value, err := QueryNumber(request, "pageSize", false, 30, 1, 1000)
		if c.err != "" {
			if err == nil || err.Type != c.err {
				t.Fatalf("%q: expected error %s, got %+v", c.query, c.err, err)
			}
			continue
		}
		if err != nil || value != c.value {
			t.Fatalf("%q: expected %d, got %d (%+v)", c.query, c.value, value, err)
		}
	}

	request := httptest.NewRequest("GET", "/v1/accounts", nil)
	if _, err := QueryNumber(request, "page", true, 1, 1, 10); err == nil || err.Type != "validation.query.parameter.missing" {
		t.Fatalf("expected a missing parameter error, got %+v", err)
	}
}

func TestQueryString(t *testing.T) {
	request := httptest.NewRequest("GET", "/v1/accounts/search?name=+Bruce*+", nil)
	if value, err := QueryString(request, "name", true); err != nil || value != "Bruce*" {
		t.Fatalf("expected 'Bruce*', got %q (%+v)", value, err)
	}
	if _, err := QueryString(request, "email", true); err == nil {
		t.Fatal("expected a missing parameter error")
	}
}

type testPayload struct {
	Username *string `json:"username" required:"true" trim:"true" min:"1" max:"8"`
	Age      *int    `json:"age" min:"0" max:"150"`
	Locked   *bool   `json:"locked"`
	Nested   *struct {
		Count uint `json:"count" max:"3"`
	} `json:"nested"`
}

func TestUnmarshalBody(t *testing.T) {
	cases := []struct {
		body  string
		types []string
	}{
		{`{"username":"bruce","age":40,"nested":{"count":1}}`, nil},
		{`{}`, []string{"validation.requestBody.parameter.missing"}},
		{`{"username":"batman-and-robin"}`, []string{"validation.requestBody.parameter.string.lengthOutOfRange"}},
		{`{"username":"   "}`, []string{"validation.requestBody.parameter.string.lengthOutOfRange"}},
		{`{"username":"   bruce   "}`, nil},
		{`{"username":"bruce","age":200,"nested":{"count":4}}`, []string{
			"validation.requestBody.parameter.number.outOfRange",
			"validation.requestBody.parameter.number.outOfRange",
		}},
		{`{"username":5}`, []string{"validation.requestBody.parameter.invalidType"}},
		{`{`, []string{"validation.requestBody.invalidJSON"}},
	}
	for _, c := range cases {
		request := httptest.NewRequest("POST", "/v1/accounts", strings.NewReader(c.body))
		payload, errs, err := UnmarshalBody[testPayload](request)
		if err != nil {
			t.Fatalf("%s: %v", c.body, err)
		}
		if len(errs) != len(c.types) {
			t.Fatalf("%s: expected %d errors, got %d", c.body, len(c.types), len(errs))
		}
		for i, typ := range c.types {
			if errs[i].Type != typ {
				t.Fatalf("%s: expected error %s, got %s", c.body, typ, errs[i].Type)
			}
		}
		if len(c.types) == 0 && (payload == nil || strings.TrimSpace(*payload.Username) != "bruce") {
			t.Fatalf("%s: unexpected payload %+v", c.body, payload)
		}
	}
}
