// factory.go - Provider construction from configuration

package ai

import (
	"log"

	"github.com/eduparser/edu_parser_gemini/configs"
)

// NewProviderFromConfig builds the Gemini provider over the configured key
// rotation. Returns nil when no API key is set; callers then skip extraction
// and the AI matching tier rather than fail.
func NewProviderFromConfig() *GeminiProvider {
	keys := configs.AllAPIKeys()
	if len(keys) == 0 {
		return nil
	}
	log.Printf("Creating Gemini provider (model=%s, keys=%d)", configs.MODEL_NAME, len(keys))
	return NewGeminiProvider(keys, configs.MODEL_NAME)
}
