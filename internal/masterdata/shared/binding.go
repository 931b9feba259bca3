package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

const maxMultipartMemory = 32 << 20

// Bind decodes either a JSON body or a multipart form into dst. Form fields are
// mapped onto the same json tags, so one request struct serves both encodings.
// The parsed multipart form is returned so callers can read file parts.
func Bind(r *http.Request, dst any) (*multipart.Form, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, fmt.Errorf("%w: malformed multipart form: %v", httpx.ErrValidation, err)
		}
		fields := make(map[string]any, len(r.MultipartForm.Value))
		for k, vs := range r.MultipartForm.Value {
			if len(vs) == 1 {
				fields[k] = vs[0]
			} else {
				fields[k] = vs
			}
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
		return r.MultipartForm, nil
	default:
		return nil, httpx.DecodeJSON(r, dst)
	}
}

// FlexString accepts a JSON string, number or boolean and keeps its text.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

// FlexBool accepts true/false, "true"/"on"/"1" and their negatives.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "", "false", "0", "off", "no":
		*f = false
	case "on", "yes":
		*f = true
	default:
		v, err := strconv.ParseBool(string(s))
		if err != nil {
			return fmt.Errorf("invalid boolean %q", string(s))
		}
		*f = FlexBool(v)
	}
	return nil
}

// FlexStrings accepts a single string or an array of strings. A form field
// holding a JSON array literal is expanded too.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var out []string
		if err := json.Unmarshal(b, &out); err != nil {
			return err
		}
		*f = out
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		var out []string
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
			*f = out
			return nil
		}
	}
	if trimmed == "" {
		*f = []string{}
		return nil
	}
	*f = []string{s}
	return nil
}
