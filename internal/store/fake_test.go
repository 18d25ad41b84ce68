package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// call records one request seen by fakeClient.
type call struct {
	method string
	path   string
	body   any
}

// fakeClient answers requests from a queue of canned responses.
type fakeClient struct {
	mu        sync.Mutex
	calls     []call
	responses []response
}

type response struct {
	body string
	err  error
}

func (f *fakeClient) push(body string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, response{body: body, err: err})
}

func (f *fakeClient) Do(ctx context.Context, method, path string, body, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, path: path, body: body})
	var r response
	if len(f.responses) > 0 {
		r = f.responses[0]
		f.responses = f.responses[1:]
	}
	f.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if out != nil && r.body != "" {
		return json.Unmarshal([]byte(r.body), out)
	}
	return nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// scope is a toggleable Scope.
type scope struct{ live bool }

func (s *scope) Current() bool { return s.live }

// serverErr stands in for an *api.HTTPError with a non-2xx status.
var serverErr = types.ErrServer
