package llm

import (
	"fmt"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/port"
)

// ProviderFactory creates a Completer from the LLM config.
type ProviderFactory func(cfg *config.LLMConfig) (port.Completer, error)

// registry of completer factories, populated via RegisterProvider from main.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a completer factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewCompleter creates a Completer for cfg.Provider using the registered factory.
func NewCompleter(cfg *config.LLMConfig) (port.Completer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
