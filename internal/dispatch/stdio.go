package dispatch

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"
)

// Request is one newline-delimited JSON command from the frontend.
type Request struct {
	ID      json.RawMessage `json:"id"`
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload"`
}

// Response mirrors a request. Exactly one of Result or Error is set.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	OK     bool            `json:"ok"`
	Result interface{}     `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const maxLineBytes = 4 << 20

// Serve reads NDJSON requests from in and writes one response line per
// request to out, in order. It returns when in is exhausted or ctx is
// cancelled. A bad request line produces an error response, not a crash.
func Serve(ctx context.Context, r *Registry, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := enc.Encode(Response{OK: false, Error: "malformed request: " + err.Error()}); encErr != nil {
				return encErr
			}
			continue
		}

		resp := Response{ID: req.ID}
		result, err := r.Invoke(ctx, req.Command, req.Payload)
		if err != nil {
			log.Error().Str("command", req.Command).Err(err).Msg("command failed")
			resp.Error = err.Error()
		} else {
			resp.OK = true
			resp.Result = result
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}
