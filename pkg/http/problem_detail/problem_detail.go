package problem_detail

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/problem_detail/problem_detail_config"
)

const (
	ContentType = "application/problem+json"

	ValidationTitle = "One or more validation errors occurred."
)

type Default struct {
	Type  string
	Title string
}

const rfc9110BaseUrl = "https://tools.ietf.org/html/rfc9110#section-"

// Defaults maps a status code to the type and title used when a problem leaves them unset.
var Defaults = map[int]Default{
	http.StatusBadRequest:            {Type: rfc9110BaseUrl + "15.5.1", Title: "Bad Request"},
	http.StatusUnauthorized:          {Type: rfc9110BaseUrl + "15.5.2", Title: "Unauthorized"},
	http.StatusForbidden:             {Type: rfc9110BaseUrl + "15.5.4", Title: "Forbidden"},
	http.StatusNotFound:              {Type: rfc9110BaseUrl + "15.5.5", Title: "Not Found"},
	http.StatusMethodNotAllowed:      {Type: rfc9110BaseUrl + "15.5.6", Title: "Method Not Allowed"},
	http.StatusNotAcceptable:         {Type: rfc9110BaseUrl + "15.5.7", Title: "Not Acceptable"},
	http.StatusRequestTimeout:        {Type: rfc9110BaseUrl + "15.5.9", Title: "Request Timeout"},
	http.StatusConflict:              {Type: rfc9110BaseUrl + "15.5.10", Title: "Conflict"},
	http.StatusPreconditionFailed:    {Type: rfc9110BaseUrl + "15.5.13", Title: "Precondition Failed"},
	http.StatusUnsupportedMediaType:  {Type: rfc9110BaseUrl + "15.5.16", Title: "Unsupported Media Type"},
	http.StatusUnprocessableEntity:   {Type: rfc9110BaseUrl + "15.5.21", Title: "Unprocessable Entity"},
	http.StatusUpgradeRequired:       {Type: rfc9110BaseUrl + "15.5.22", Title: "Upgrade Required"},
	http.StatusInternalServerError:   {Type: rfc9110BaseUrl + "15.6.1", Title: "An error occurred while processing your request."},
	http.StatusBadGateway:            {Type: rfc9110BaseUrl + "15.6.3", Title: "Bad Gateway"},
	http.StatusServiceUnavailable:    {Type: rfc9110BaseUrl + "15.6.4", Title: "Service Unavailable"},
	http.StatusGatewayTimeout:        {Type: rfc9110BaseUrl + "15.6.5", Title: "Gateway Timeout"},
}

var reservedMembers = map[string]struct{}{
	"type":     {},
	"title":    {},
	"status":   {},
	"detail":   {},
	"instance": {},
	"errors":   {},
}

type Detail struct {
	Type      string              `json:"type,omitempty"`
	Title     string              `json:"title,omitempty"`
	Status    int                 `json:"status,omitempty"`
	Detail    string              `json:"detail,omitempty"`
	Instance  string              `json:"instance,omitempty"`
	Extension map[string]any      `json:"-"`
	Errors    map[string][]string `json:"errors,omitempty"`

	validation bool
}

// IsValidation reports whether the detail describes request validation failures.
func (d *Detail) IsValidation() bool {
	return d != nil && d.validation
}

// Clone copies the detail so that defaulting and extension changes do not reach the original.
func (d *Detail) Clone() *Detail {
	if d == nil {
		return nil
	}

	clone := *d
	clone.Extension = maps.Clone(d.Extension)
	if d.Errors != nil {
		clone.Errors = make(map[string][]string, len(d.Errors))
		for key, messages := range d.Errors {
			clone.Errors[key] = slices.Clone(messages)
		}
	}

	return &clone
}

// MarshalJSON flattens the Extension map into the top-level JSON object,
// instead of nesting it under the "extension" key.
func (d *Detail) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}

	m := make(map[string]any, 6+len(d.Extension))

	for k, v := range d.Extension {
		if _, ok := reservedMembers[k]; ok || k == "" {
			continue
		}
		m[k] = v
	}

	if d.Type != "" {
		m["type"] = d.Type
	}
	if d.Title != "" {
		m["title"] = d.Title
	}
	if d.Status != 0 {
		m["status"] = d.Status
	}
	if d.Detail != "" {
		m["detail"] = d.Detail
	}
	if d.Instance != "" {
		m["instance"] = d.Instance
	}
	if d.validation || d.Errors != nil {
		errs := d.Errors
		if errs == nil {
			errs = map[string][]string{}
		}
		m["errors"] = errs
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("json marshal (detail): %w", err), m)
	}
	return b, nil
}

func (d *Detail) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return motmedelErrors.New(fmt.Errorf("json unmarshal (members): %w", err), data)
	}

	var parsed Detail

	for name, raw := range members {
		var target any
		switch name {
		case "type":
			target = &parsed.Type
		case "title":
			target = &parsed.Title
		case "status":
			target = &parsed.Status
		case "detail":
			target = &parsed.Detail
		case "instance":
			target = &parsed.Instance
		case "errors":
			target = &parsed.Errors
			parsed.validation = true
		default:
			var value any
			if err := json.Unmarshal(raw, &value); err != nil {
				return motmedelErrors.New(fmt.Errorf("json unmarshal (extension): %w", err), name)
			}
			if parsed.Extension == nil {
				parsed.Extension = make(map[string]any)
			}
			parsed.Extension[name] = value
			continue
		}

		if err := json.Unmarshal(raw, target); err != nil {
			return motmedelErrors.New(fmt.Errorf("json unmarshal (%s): %w", name, err), raw)
		}
	}

	*d = parsed

	return nil
}

func (d *Detail) String() string {
	var text string

	if status := d.Status; status != 0 {
		text = strconv.Itoa(status)
		if title := d.Title; title != "" {
			text += " " + title
		}
	} else if title := d.Title; title != "" {
		text = title
	}

	if d.Detail != "" {
		if text != "" {
			text += ": "
		}
		text += d.Detail
	}

	return text
}

// ApplyDefaults fills an unset status and then the unset type and title of d in place.
// An unset status becomes statusCode when it is non-zero, 400 for validation problems and 500 otherwise.
func ApplyDefaults(d *Detail, statusCode int) {
	if d == nil {
		return
	}

	if d.Status == 0 {
		switch {
		case statusCode != 0:
			d.Status = statusCode
		case d.validation:
			d.Status = http.StatusBadRequest
		default:
			d.Status = http.StatusInternalServerError
		}
	}

	if d.validation && d.Title == "" {
		d.Title = ValidationTitle
	}

	if defaults, ok := Defaults[d.Status]; ok {
		if d.Title == "" {
			d.Title = defaults.Title
		}
		if d.Type == "" {
			d.Type = defaults.Type
		}
	}
}

func New(code int, options ...problem_detail_config.Option) *Detail {
	config := problem_detail_config.New(options...)

	status := code
	if config.Status != 0 {
		status = config.Status
	}

	return &Detail{
		Type:      config.Type,
		Title:     config.Title,
		Status:    status,
		Detail:    config.Detail,
		Instance:  config.Instance,
		Extension: config.Extension,
	}
}

// NewValidation makes a validation problem that maps field names to their error messages.
func NewValidation(errs map[string][]string, options ...problem_detail_config.Option) *Detail {
	d := New(0, options...)
	d.validation = true
	d.Errors = errs
	if d.Errors == nil {
		d.Errors = map[string][]string{}
	}

	return d
}
