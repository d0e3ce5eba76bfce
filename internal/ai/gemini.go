// gemini.go - Gemini-backed document extraction and name matching

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/eduparser/edu_parser_gemini/internal/common"
	"github.com/eduparser/edu_parser_gemini/internal/ratelimit"
	"github.com/eduparser/edu_parser_gemini/internal/records"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider calls the Gemini API with automatic key rotation: when a key
// hits its rate limit or quota, the next configured key is tried before the
// request is given up on.
type GeminiProvider struct {
	apiKeys []string
	model   string
}

// NewGeminiProvider creates a provider over one or more API keys, tried in order.
func NewGeminiProvider(apiKeys []string, model string) *GeminiProvider {
	return &GeminiProvider{apiKeys: apiKeys, model: model}
}

// ProviderName returns the backing provider name.
func (p *GeminiProvider) ProviderName() string {
	return "gemini"
}

// generate runs one Gemini request, rotating through the configured API keys
// when a key is exhausted (rate limit / quota). Other failures are returned
// after the per-key retry policy runs out.
func (p *GeminiProvider) generate(ctx context.Context, parts []genai.Part, reqCtx *common.RequestContext) (*genai.GenerateContentResponse, error) {
	if len(p.apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys configured")
	}

	var lastErr error
	for idx, key := range p.apiKeys {
		ratelimit.WaitForRateLimit()

		client, err := genai.NewClient(ctx, option.WithAPIKey(key))
		if err != nil {
			lastErr = fmt.Errorf("failed to create gemini client: %w", err)
			continue
		}

		model := client.GenerativeModel(p.model)
		model.SetTemperature(0.1)

		resp, err := callWithRetry(ctx, model, parts, reqCtx, DefaultRetryConfig)
		client.Close()
		if err == nil {
			return resp, nil
		}
		lastErr = err

		geminiErr := categorizeGeminiError(err)
		if geminiErr != nil && geminiErr.KeyExhausted && idx < len(p.apiKeys)-1 {
			if reqCtx != nil {
				reqCtx.LogWarning("API key %d exhausted (%s), switching to fallback key %d", idx+1, geminiErr.Category, idx+2)
			}
			continue
		}
		break
	}

	return nil, lastErr
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("response contains no text parts")
	}
	return b.String(), nil
}

// tokenUsage converts response metadata into a costed TokenUsage.
func tokenUsage(resp *genai.GenerateContentResponse) *common.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	usage := common.CalculateTokenCost(
		int(resp.UsageMetadata.PromptTokenCount),
		int(resp.UsageMetadata.CandidatesTokenCount),
	)
	return &usage
}

var jsonStringRe = regexp.MustCompile(`"([^"]*(?:\\.[^"]*)*)"`)

// cleanJSONResponse strips markdown code fences around the model's JSON and
// repairs literal control characters inside string values (Gemini sometimes
// emits raw newlines where \n is required).
func cleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}
	text = strings.TrimSpace(text)

	return jsonStringRe.ReplaceAllStringFunc(text, func(match string) string {
		if len(match) < 2 {
			return match
		}
		content := match[1 : len(match)-1]
		content = strings.ReplaceAll(content, "\n", "\\n")
		content = strings.ReplaceAll(content, "\r", "\\r")
		content = strings.ReplaceAll(content, "\t", "\\t")
		return `"` + content + `"`
	})
}

// imagePart loads an image file into a genai part, picking the format from
// the file extension.
func imagePart(imagePath string) (genai.Part, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	format := "jpeg"
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".png":
		format = "png"
	case ".webp":
		format = "webp"
	}
	return genai.ImageData(format, data), nil
}

// eduWire is the JSON shape the extraction prompt asks for.
type eduWire struct {
	Records []struct {
		Name            string `json:"name"`
		FatherName      string `json:"father_name"`
		CountryCode     string `json:"country_code"`
		DegreeStartDate string `json:"degree_start_date"`
		DegreeEndDate   string `json:"degree_end_date"`
		AverageGrade    string `json:"average_grade"`
		EducationLevel  string `json:"education_level"`
		DegreeName      string `json:"degree_name"`
		Graduated       string `json:"graduated"`
		Major           string `json:"major"`
		School          string `json:"school"`
	} `json:"records"`
}

// ExtractEducation parses a certificate image into education records.
func (p *GeminiProvider) ExtractEducation(ctx context.Context, imagePath string, reqCtx *common.RequestContext) ([]records.EducationRecord, *common.TokenUsage, error) {
	img, err := imagePart(imagePath)
	if err != nil {
		return nil, nil, err
	}

	resp, err := p.generate(ctx, []genai.Part{genai.Text(educationExtractionPrompt), img}, reqCtx)
	if err != nil {
		return nil, nil, err
	}
	usage := tokenUsage(resp)

	text, err := responseText(resp)
	if err != nil {
		return nil, usage, err
	}

	var wire eduWire
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &wire); err != nil {
		return nil, usage, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	recs := make([]records.EducationRecord, 0, len(wire.Records))
	for _, w := range wire.Records {
		recs = append(recs, records.EducationRecord{
			Name:            strings.TrimSpace(w.Name),
			FatherName:      strings.TrimSpace(w.FatherName),
			CountryCode:     strings.TrimSpace(w.CountryCode),
			DegreeStartDate: strings.TrimSpace(w.DegreeStartDate),
			DegreeEndDate:   strings.TrimSpace(w.DegreeEndDate),
			AverageGrade:    strings.TrimSpace(w.AverageGrade),
			EducationLevel:  strings.TrimSpace(w.EducationLevel),
			DegreeName:      strings.TrimSpace(w.DegreeName),
			Graduated:       strings.TrimSpace(w.Graduated),
			Major:           strings.TrimSpace(w.Major),
			School:          strings.TrimSpace(w.School),
		})
	}
	return recs, usage, nil
}

// expWire is the JSON shape the CV prompt asks for.
type expWire struct {
	Records []struct {
		Name        string `json:"name"`
		Employer    string `json:"employer"`
		JobTitle    string `json:"job_title"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		Description string `json:"description"`
	} `json:"records"`
}

// ExtractExperience parses a CV page image into work-experience records.
func (p *GeminiProvider) ExtractExperience(ctx context.Context, imagePath string, reqCtx *common.RequestContext) ([]records.ExperienceRecord, *common.TokenUsage, error) {
	img, err := imagePart(imagePath)
	if err != nil {
		return nil, nil, err
	}

	resp, err := p.generate(ctx, []genai.Part{genai.Text(experienceExtractionPrompt), img}, reqCtx)
	if err != nil {
		return nil, nil, err
	}
	usage := tokenUsage(resp)

	text, err := responseText(resp)
	if err != nil {
		return nil, usage, err
	}

	var wire expWire
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &wire); err != nil {
		return nil, usage, fmt.Errorf("failed to parse CV response: %w", err)
	}

	recs := make([]records.ExperienceRecord, 0, len(wire.Records))
	for _, w := range wire.Records {
		recs = append(recs, records.ExperienceRecord{
			Name:        strings.TrimSpace(w.Name),
			Employer:    strings.TrimSpace(w.Employer),
			JobTitle:    strings.TrimSpace(w.JobTitle),
			StartDate:   strings.TrimSpace(w.StartDate),
			EndDate:     strings.TrimSpace(w.EndDate),
			Description: strings.TrimSpace(w.Description),
		})
	}
	return recs, usage, nil
}

// MatchNames implements the tier-3 name matching contract: each query maps to
// its best roster candidate or "" for no match. An unparseable response is an
// error; the caller degrades the batch to all-null.
func (p *GeminiProvider) MatchNames(ctx context.Context, queries []string, candidates []string, reqCtx *common.RequestContext) (map[string]string, error) {
	prompt, err := nameMatchingPrompt(queries, candidates)
	if err != nil {
		return nil, err
	}

	resp, err := p.generate(ctx, []genai.Part{genai.Text(prompt)}, reqCtx)
	if err != nil {
		return nil, err
	}
	if reqCtx != nil {
		if usage := tokenUsage(resp); usage != nil {
			reqCtx.TotalTokens.InputTokens += usage.InputTokens
			reqCtx.TotalTokens.OutputTokens += usage.OutputTokens
			reqCtx.TotalTokens.TotalTokens += usage.TotalTokens
			reqCtx.TotalTokens.CostUSD += usage.CostUSD
			reqCtx.TotalTokens.CostPKR += usage.CostPKR
		}
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var wire struct {
		Matches map[string]*string `json:"matches"`
	}
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse matching response: %w", err)
	}

	matches := make(map[string]string, len(wire.Matches))
	for query, candidate := range wire.Matches {
		if candidate == nil || strings.EqualFold(strings.TrimSpace(*candidate), "null") {
			matches[query] = ""
			continue
		}
		matches[query] = strings.TrimSpace(*candidate)
	}
	return matches, nil
}
