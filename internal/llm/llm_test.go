package llm

import (
	"context"
	"sync"

	"llmbox/internal/chat"
)

// recordingCompletion is a CompletionTransport test double.
type recordingCompletion struct {
	mu    sync.Mutex
	calls []*CompletionRequest
	creds []Credential
	resp  *CompletionResponse
	err   error
}

func (r *recordingCompletion) Complete(_ context.Context, cred Credential, req *CompletionRequest) (*CompletionResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req)
	r.creds = append(r.creds, cred)
	return r.resp, r.err
}

// recordingChat is a ChatTransport test double.
type recordingChat struct {
	mu    sync.Mutex
	calls []*ChatRequest
	creds []Credential
	resp  *ChatResponse
	err   error
}

func (r *recordingChat) ChatComplete(_ context.Context, cred Credential, req *ChatRequest) (*ChatResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req)
	r.creds = append(r.creds, cred)
	return r.resp, r.err
}

// noEnv is an environment with no variables set.
func noEnv(string) (string, bool) { return "", false }

// env returns a lookup over a fixed set of variables.
func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func earth() *chat.Conversation {
	conv := chat.NewConversation()
	conv.Append(chat.UserMessage("How big is the earth?"))
	return conv
}
