package validatinator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// Maximum memory used for multipart form parsing; the rest spills to disk.
const maxMultipartMemory = 32 << 20

// HTTPAccessor reads field values from the *http.Request bound to each
// form.
//
// A field identifier may name its source with a prefix:
//
//	query:page       URL query parameter
//	header:X-Token   request header
//	cookie:session   cookie value
//	json:user.email  gjson path into a JSON body
//	form:email       url-encoded or multipart body value
//
// Without a prefix the value is searched in the form body, then the
// query, then the JSON body. Absent values read as the empty string.
//
// Parsed request data is cached per request, so a body is read once no
// matter how many fields and rules look at it.
//
// A bound request is shared by every run of its form. Handlers serving
// overlapping requests must use ForRequest or NewRequestAccessor with
// Engine.ValidateWith instead of Bind.
type HTTPAccessor struct {
	mu       sync.RWMutex
	requests map[string]*http.Request
	cache    *SourceCache[http.Request, *requestData]
}

// requestData holds parsed request data to avoid re-parsing.
type requestData struct {
	request *http.Request

	jsonBody gjson.Result
	bodyOnce sync.Once
	bodyErr  error

	form     url.Values
	formOnce sync.Once
	formErr  error

	query     url.Values
	queryOnce sync.Once

	cookies     map[string]*http.Cookie
	cookiesOnce sync.Once
}

func NewHTTPAccessor() *HTTPAccessor {
	return &HTTPAccessor{
		requests: make(map[string]*http.Request),
		cache:    NewSourceCache[http.Request, *requestData](),
	}
}

// Bind binds r to form, replacing any previously bound request.
func (ha *HTTPAccessor) Bind(form string, r *http.Request) {
	ha.mu.Lock()
	defer ha.mu.Unlock()

	if ha.requests == nil {
		ha.requests = make(map[string]*http.Request)
	}
	if ha.cache == nil {
		ha.cache = NewSourceCache[http.Request, *requestData]()
	}
	if previous, ok := ha.requests[form]; ok && previous != r {
		ha.cache.Delete(previous)
	}
	ha.requests[form] = r
}

// Unbind forgets the request of form and its cached data.
func (ha *HTTPAccessor) Unbind(form string) {
	ha.mu.Lock()
	defer ha.mu.Unlock()

	if r, ok := ha.requests[form]; ok {
		ha.cache.Delete(r)
		delete(ha.requests, form)
	}
}

// Value implements Accessor.
func (ha *HTTPAccessor) Value(form, field string) (string, error) {
	ha.mu.RLock()
	r, ok := ha.requests[form]
	cache := ha.cache
	ha.mu.RUnlock()

	if !ok || r == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownForm, form)
	}

	data := cache.GetOrCreate(r, func() *requestData {
		return &requestData{request: r}
	}).GetData()

	return data.value(field)
}

// ForRequest returns an accessor over r alone. Data already parsed for r
// while it was bound is reused.
func (ha *HTTPAccessor) ForRequest(r *http.Request) *RequestAccessor {
	ha.mu.RLock()
	cache := ha.cache
	ha.mu.RUnlock()

	if cache != nil {
		if entry, ok := cache.Get(r); ok {
			return &RequestAccessor{data: entry.GetData()}
		}
	}
	return NewRequestAccessor(r)
}

// RequestAccessor reads field values from one request, whatever the
// form. Field identifiers follow the same rules as HTTPAccessor.
type RequestAccessor struct {
	data *requestData
}

func NewRequestAccessor(r *http.Request) *RequestAccessor {
	return &RequestAccessor{data: &requestData{request: r}}
}

// Value implements Accessor. The form is ignored.
func (ra *RequestAccessor) Value(_, field string) (string, error) {
	if ra == nil || ra.data == nil || ra.data.request == nil {
		return "", ErrNoRequest
	}
	return ra.data.value(field)
}

// splitSource separates a known source prefix from the field name. An
// identifier without a known prefix is returned whole.
func splitSource(field string) (source, name string) {
	prefix, rest, found := strings.Cut(field, ParamDelimiter)
	if !found {
		return "", field
	}

	switch prefix {
	case QuerySource, HeaderSource, CookieSource, JSONSource, FormSource:
		return prefix, rest
	default:
		return "", field
	}
}

func (rd *requestData) value(field string) (string, error) {
	source, name := splitSource(field)
	switch source {
	case QuerySource:
		return rd.queryValue(name), nil
	case HeaderSource:
		return rd.request.Header.Get(name), nil
	case CookieSource:
		return rd.cookieValue(name), nil
	case JSONSource:
		return rd.jsonValue(name)
	case FormSource:
		return rd.formValue(name)
	default:
		return rd.anyValue(name)
	}
}

func (rd *requestData) anyValue(name string) (string, error) {
	form, err := rd.parsedForm()
	if err != nil {
		return "", err
	}
	if values, ok := form[name]; ok && len(values) > 0 {
		return values[0], nil
	}

	if values, ok := rd.parsedQuery()[name]; ok && len(values) > 0 {
		return values[0], nil
	}

	return rd.jsonValue(name)
}

func (rd *requestData) queryValue(name string) string {
	return rd.parsedQuery().Get(name)
}

func (rd *requestData) parsedQuery() url.Values {
	rd.queryOnce.Do(func() {
		if rd.request.URL == nil {
			rd.query = url.Values{}
			return
		}
		rd.query = rd.request.URL.Query()
	})
	return rd.query
}

func (rd *requestData) cookieValue(name string) string {
	rd.cookiesOnce.Do(func() {
		rd.cookies = make(map[string]*http.Cookie)
		for _, cookie := range rd.request.Cookies() {
			if _, seen := rd.cookies[cookie.Name]; !seen {
				rd.cookies[cookie.Name] = cookie
			}
		}
	})

	cookie, ok := rd.cookies[name]
	if !ok {
		return ""
	}
	return cookie.Value
}

func (rd *requestData) formValue(name string) (string, error) {
	form, err := rd.parsedForm()
	if err != nil {
		return "", err
	}
	return form.Get(name), nil
}

// parsedForm returns the url-encoded or multipart body values. Requests
// with any other content type have an empty form.
func (rd *requestData) parsedForm() (url.Values, error) {
	rd.formOnce.Do(func() {
		rd.form = url.Values{}

		switch mediaType(rd.request) {
		case ContentTypeFormURLEncoded:
			if err := rd.request.ParseForm(); err != nil {
				rd.formErr = fmt.Errorf("failed to parse form body: %w", err)
				return
			}
			rd.form = rd.request.PostForm
		case ContentTypeMultipartForm:
			if err := rd.request.ParseMultipartForm(maxMultipartMemory); err != nil {
				rd.formErr = fmt.Errorf("failed to parse multipart body: %w", err)
				return
			}
			if rd.request.MultipartForm != nil {
				rd.form = url.Values(rd.request.MultipartForm.Value)
			}
		}
	})
	return rd.form, rd.formErr
}

func (rd *requestData) jsonValue(path string) (string, error) {
	body, err := rd.jsonDocument()
	if err != nil {
		return "", err
	}
	return jsonValue(body, path), nil
}

// jsonDocument reads and caches a JSON body. The body is put back on the
// request so handlers can still read it after validation.
func (rd *requestData) jsonDocument() (gjson.Result, error) {
	rd.bodyOnce.Do(func() {
		rd.jsonBody = gjson.Parse("{}")

		if mediaType(rd.request) != ContentTypeApplicationJSON {
			return
		}
		if rd.request.Body == nil || rd.request.Body == http.NoBody {
			return
		}

		body, err := io.ReadAll(rd.request.Body)
		rd.request.Body.Close()
		rd.request.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil {
			rd.bodyErr = fmt.Errorf("failed to read request body: %w", err)
			return
		}

		if len(bytes.TrimSpace(body)) == 0 {
			return
		}
		if !gjson.ValidBytes(body) {
			rd.bodyErr = errors.New("request body is not valid JSON")
			return
		}
		rd.jsonBody = gjson.ParseBytes(body)
	})

	return rd.jsonBody, rd.bodyErr
}

func mediaType(r *http.Request) string {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return ""
	}

	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		parsed, _, _ = strings.Cut(contentType, ContentTypeDelimiter)
	}
	return strings.ToLower(strings.TrimSpace(parsed))
}
