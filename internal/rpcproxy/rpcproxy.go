// Package rpcproxy implements the C5 adapter: a long-lived JSON-RPC 2.0
// loop over stdin/stdout answering check/check_many/shutdown directly
// against a filter.Filter, with no child process to bridge to.
package rpcproxy

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pathsentry/pathsentry/internal/catalog"
	"github.com/pathsentry/pathsentry/internal/decision"
	"github.com/pathsentry/pathsentry/internal/filter"
	"github.com/pathsentry/pathsentry/internal/operation"
)

// JSON-RPC 2.0 error codes (spec.md §4.5).
const (
	ParseError     = -32700
	MethodNotFound = -32601
)

// message is the line-framed JSON-RPC envelope parsed off the wire.
type message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// rpcError is a JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// response is a JSON-RPC 2.0 response envelope. Exactly one of Result/Error
// is populated.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// checkParams is the shape of both check and check_many params; check_many
// uses Paths, check uses Path — exactly one is populated.
type checkParams struct {
	Op      string   `json:"op"`
	Path    string   `json:"path"`
	Paths   []string `json:"paths"`
	BaseDir string   `json:"base_dir"`
}

// checkResult is the result shape for check.
type checkResult struct {
	Verdict string `json:"verdict"`
	Reason  string `json:"reason"`
	Level   string `json:"level,omitempty"`
}

// detail is one entry in check_many's Details list.
type detail struct {
	Path    string `json:"path"`
	Verdict string `json:"verdict"`
	Reason  string `json:"reason"`
	Level   string `json:"level,omitempty"`
}

// checkManyResult is the result shape for check_many.
type checkManyResult struct {
	Verdict string   `json:"verdict"`
	Reason  string   `json:"reason"`
	Details []detail `json:"details"`
}

// state is C5's state machine: Running or Closed (spec.md §4.7).
type state int

const (
	running state = iota
	closed
)

// Proxy is the stateful JSON-RPC loop. It holds no socket of its own —
// Serve is handed the reader/writer pair so tests can drive it without a
// real stdin/stdout.
type Proxy struct {
	f     *filter.Filter
	state state
}

// New builds a Proxy answering against f.
func New(f *filter.Filter) *Proxy {
	return &Proxy{f: f, state: running}
}

// Serve reads line-framed JSON-RPC requests from r and writes responses to
// w until shutdown, stdin EOF, or a write error, returning the exit code
// spec.md §4.7 assigns to each transition (0 for a graceful close, 1 for a
// write failure).
func (p *Proxy) Serve(r io.Reader, w io.Writer) int {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for p.state == running && scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp, shouldReply := p.handleLine(line)
		if !shouldReply {
			continue
		}

		if err := writeResponse(w, resp); err != nil {
			p.state = closed
			return 1
		}
	}

	return 0
}

// handleLine parses and dispatches one line. shouldReply is false for
// notifications (no id) that don't warrant a response.
func (p *Proxy) handleLine(line []byte) (response, bool) {
	var msg message
	if err := json.Unmarshal(line, &msg); err != nil {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: ParseError, Message: "parse error: " + err.Error()}}, true
	}

	isNotification := len(msg.ID) == 0

	switch msg.Method {
	case "check":
		res := p.handleCheck(msg.Params)
		if isNotification {
			return response{}, false
		}
		return response{JSONRPC: "2.0", ID: msg.ID, Result: res}, true

	case "check_many":
		res := p.handleCheckMany(msg.Params)
		if isNotification {
			return response{}, false
		}
		return response{JSONRPC: "2.0", ID: msg.ID, Result: res}, true

	case "shutdown":
		p.state = closed
		if isNotification {
			return response{}, false
		}
		return response{JSONRPC: "2.0", ID: msg.ID, Result: map[string]bool{"ok": true}}, true

	default:
		if isNotification {
			return response{}, false
		}
		return response{JSONRPC: "2.0", ID: msg.ID, Error: &rpcError{Code: MethodNotFound, Message: "unknown method: " + msg.Method}}, true
	}
}

// handleCheck never returns a JSON-RPC error: a malformed params object or a
// facade failure both become a successful deny response, per spec.md §4.5's
// "internal errors stay on the fail-closed side of the wire" rule.
func (p *Proxy) handleCheck(raw json.RawMessage) checkResult {
	var params checkParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return checkResult{Verdict: "deny", Reason: "malformed check params: " + err.Error()}
	}

	op, ok := operation.Parse(params.Op)
	if !ok {
		return checkResult{Verdict: "deny", Reason: fmt.Sprintf("unknown operation %q", params.Op)}
	}

	d := p.f.Check(op, params.Path, params.BaseDir)
	return decisionToResult(d)
}

func (p *Proxy) handleCheckMany(raw json.RawMessage) checkManyResult {
	var params checkParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return checkManyResult{Verdict: "deny", Reason: "malformed check_many params: " + err.Error()}
	}

	op, ok := operation.Parse(params.Op)
	if !ok {
		return checkManyResult{Verdict: "deny", Reason: fmt.Sprintf("unknown operation %q", params.Op)}
	}

	batch := p.f.CheckMany(op, params.Paths, params.BaseDir)
	details := make([]detail, 0, len(batch.Results))
	for _, r := range batch.Results {
		res := decisionToResult(r.Decision)
		details = append(details, detail{Path: r.Path, Verdict: res.Verdict, Reason: res.Reason, Level: res.Level})
	}

	overall := checkManyResult{Verdict: "pass", Reason: "all paths passed", Details: details}
	if batch.Denied {
		overall.Verdict = "deny"
		overall.Reason = "one or more paths denied"
	}
	return overall
}

// decisionToResult converts the internal Decision type into the wire shape,
// lowercasing the verdict and rendering the level as its lattice name.
func decisionToResult(d decision.Decision) checkResult {
	verdict := "pass"
	if d.Verdict == catalog.Deny {
		verdict = "deny"
	}
	return checkResult{
		Verdict: verdict,
		Reason:  d.Reason,
		Level:   catalogLevelString(d.Level),
	}
}

func writeResponse(w io.Writer, resp response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// catalogLevelString renders a decision's level pointer as its lowercase
// lattice name, or "" when the decision carries no level.
func catalogLevelString(level *catalog.Level) string {
	if level == nil {
		return ""
	}
	return level.String()
}
