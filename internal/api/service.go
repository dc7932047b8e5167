package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dhruv-80/context-watch/internal/inference"
	"github.com/Dhruv-80/context-watch/internal/logger"
	"github.com/Dhruv-80/context-watch/internal/model"
	"github.com/Dhruv-80/context-watch/internal/tokenizer"
)

// ErrInvalidRequest marks errors the client can fix by changing the
// request. Handlers translate it to a 400.
var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string { return e.msg }

func (e invalidRequestError) Unwrap() error { return ErrInvalidRequest }

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// RunService executes instrumented decode runs against a shared model. A
// fresh loop is built per request because the request can override any of
// the instrumentation knobs.
type RunService struct {
	model    model.Model
	tok      tokenizer.Tokenizer
	defaults inference.Config
	log      logger.Logger
}

func NewRunService(m model.Model, tok tokenizer.Tokenizer, defaults inference.Config, log logger.Logger) *RunService {
	if log == nil {
		log = logger.Nop()
	}
	return &RunService{
		model:    m,
		tok:      tok,
		defaults: defaults,
		log:      log,
	}
}

// ExecuteRun validates req, runs the decode loop and returns the
// instrumented result together with the decoded generated text.
func (s *RunService) ExecuteRun(ctx context.Context, req *RunRequest) (*inference.Result, string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, "", newInvalidRequest("prompt is required")
	}

	cfg := s.defaults
	cfg.Logger = s.log
	if req.MaxTokens != nil {
		cfg.MaxNewTokens = *req.MaxTokens
	}
	if req.ContextLimit != nil {
		cfg.ContextLimit = *req.ContextLimit
	}
	if req.WarnThresholdPct != nil {
		cfg.WarnThresholdPct = *req.WarnThresholdPct
	}
	if req.RollingWindow != nil {
		cfg.RollingWindow = *req.RollingWindow
	}
	if req.MemoryCadence != nil {
		cfg.MemorySampleCadence = *req.MemoryCadence
	}
	if req.StopTokens != nil {
		cfg.StopTokens = req.StopTokens
	}

	loop, err := inference.NewLoop(s.model, cfg)
	if err != nil {
		// Loop construction only fails on bad configuration, which the
		// request controls.
		return nil, "", newInvalidRequest(err.Error())
	}

	prompt, err := s.tok.Encode(req.Prompt)
	if err != nil {
		return nil, "", newInvalidRequest(fmt.Sprintf("prompt: %v", err))
	}

	result, err := loop.Run(ctx, prompt, nil)
	if err != nil {
		return nil, "", err
	}

	text, err := s.tok.Decode(result.Tokens)
	if err != nil {
		return nil, "", fmt.Errorf("decode generated tokens: %w", err)
	}
	return result, text, nil
}
