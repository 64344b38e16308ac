package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookatlas/atlas-server/internal/config"
	"github.com/bookatlas/atlas-server/internal/logger"
	"github.com/bookatlas/atlas-server/internal/openai"
	"github.com/bookatlas/atlas-server/internal/ratelimit"
	"github.com/bookatlas/atlas-server/internal/recommend"
)

// ProvideOpenAIClient provides the OpenAI Responses API client. A
// missing API key is allowed here; the chat endpoint reports it
// per-request so the catalog endpoints stay usable.
func ProvideOpenAIClient(i do.Injector) (*openai.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Chat.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set - chat requests will fail with a machine-readable error")
	}

	return openai.NewClient(cfg.Chat.APIKey, cfg.Chat.RequestTimeout, log.Logger), nil
}

// ProvideRequester provides the recommendation requester.
func ProvideRequester(i do.Injector) (*recommend.Requester, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*openai.Client](i)

	return recommend.NewRequester(client, cfg.Chat.Model, log.Logger), nil
}

// RateLimiterHandle wraps the keyed rate limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client chat rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Chat.RateRPS, cfg.Chat.RateBurst),
	}, nil
}
