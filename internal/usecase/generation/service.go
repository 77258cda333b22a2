package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	pkgai "github.com/johnquangdev/meeting-notes/pkg/ai"
)

var _ Gateway = (*Service)(nil)

// Service is the Gateway backed by a text completion provider.
type Service struct {
	client        pkgai.Completer
	maxRetries    uint64
	retryInterval time.Duration
	logger        *zap.Logger
}

// NewService constructs a gateway over client. maxRetries bounds the extra
// attempts made for retryable provider failures.
func NewService(client pkgai.Completer, maxRetries uint64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:        client,
		maxRetries:    maxRetries,
		retryInterval: 500 * time.Millisecond,
		logger:        logger,
	}
}

// Generate builds the prompt, calls the provider with retry and decodes the answer.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, &Error{Kind: req.Kind, Err: err}
	}

	text, err := s.complete(ctx, req.Kind, prompt)
	if err != nil {
		s.logger.Warn("Generation failed",
			zap.String("kind", string(req.Kind)),
			zap.Error(err),
		)
		return nil, &Error{Kind: req.Kind, Retryable: pkgai.IsRetryable(err), Err: err}
	}

	result := &Result{Kind: req.Kind}
	if req.Kind == KindPrefillAgenda {
		sections, err := ParseSections(text)
		if err != nil {
			s.logger.Warn("Failed to parse prefill response",
				zap.String("kind", string(req.Kind)),
				zap.Error(err),
			)
			return nil, &Error{Kind: req.Kind, Err: err}
		}
		result.Sections = sections
	} else {
		result.Text = text
	}

	s.logger.Info("Generation completed", zap.String("kind", string(req.Kind)))
	return result, nil
}

func (s *Service) complete(ctx context.Context, kind Kind, prompt string) (string, error) {
	var text string
	operation := func() error {
		out, err := s.client.Complete(ctx, prompt)
		if err != nil {
			if !pkgai.IsRetryable(err) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if strings.TrimSpace(out) == "" {
			return backoff.Permanent(ErrEmptyResponse)
		}
		text = out
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInterval
	bo.MaxInterval = 10 * s.retryInterval
	bo.MaxElapsedTime = 30 * time.Second

	notify := func(err error, wait time.Duration) {
		s.logger.Debug("Retrying generation",
			zap.String("kind", string(kind)),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(bo, s.maxRetries), ctx), notify)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return "", permanent.Err
		}
		return "", err
	}
	return text, nil
}
