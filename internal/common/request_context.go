// request_context.go - Request tracking and logging system

package common

import (
	"fmt"
	"log"
	"time"

	"github.com/eduparser/edu_parser_gemini/configs"
	"github.com/google/uuid"
)

// RequestContext tracks the entire request lifecycle with timing and costs
type RequestContext struct {
	RequestID        string
	StartTime        time.Time
	Steps            []StepLog
	TotalTokens      TokenUsage
	CurrentStep      string
	CurrentStepStart time.Time
}

// StepLog represents a single processing step
type StepLog struct {
	Name      string      `json:"name"`
	StartTime time.Time   `json:"start_time"`
	Duration  int64       `json:"duration_ms"`
	Status    string      `json:"status"` // "success", "failed", "skipped"
	Tokens    *TokenUsage `json:"tokens,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// TokenUsage tracks API token consumption
type TokenUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	CostPKR      float64 `json:"cost_pkr"`
}

// NewRequestContext creates a new request tracking context
func NewRequestContext() *RequestContext {
	reqID := uuid.New().String()
	now := time.Now()

	log.Printf("[%s] request started at %s", reqID, now.Format("15:04:05"))

	return &RequestContext{
		RequestID: reqID,
		StartTime: now,
		Steps:     []StepLog{},
	}
}

// StartStep begins tracking a new processing step
func (rc *RequestContext) StartStep(stepName string) {
	rc.CurrentStep = stepName
	rc.CurrentStepStart = time.Now()
	log.Printf("[%s] step: %s", rc.RequestID, stepName)
}

// EndStep completes the current step and records timing
func (rc *RequestContext) EndStep(status string, tokens *TokenUsage, err error) {
	duration := time.Since(rc.CurrentStepStart).Milliseconds()

	stepLog := StepLog{
		Name:      rc.CurrentStep,
		StartTime: rc.CurrentStepStart,
		Duration:  duration,
		Status:    status,
		Tokens:    tokens,
	}

	if err != nil {
		stepLog.Error = err.Error()
		log.Printf("[%s] step %s FAILED (%.2fs): %v",
			rc.RequestID, rc.CurrentStep, float64(duration)/1000, err)
	} else {
		logMsg := fmt.Sprintf("[%s] step %s done (%.2fs)",
			rc.RequestID, rc.CurrentStep, float64(duration)/1000)

		if tokens != nil {
			rc.TotalTokens.InputTokens += tokens.InputTokens
			rc.TotalTokens.OutputTokens += tokens.OutputTokens
			rc.TotalTokens.TotalTokens += tokens.TotalTokens
			rc.TotalTokens.CostUSD += tokens.CostUSD
			rc.TotalTokens.CostPKR += tokens.CostPKR

			logMsg += fmt.Sprintf(" | tokens: %d in + %d out = %d | cost: Rs %.2f",
				tokens.InputTokens, tokens.OutputTokens, tokens.TotalTokens, tokens.CostPKR)
		}

		log.Print(logMsg)
	}

	rc.Steps = append(rc.Steps, stepLog)
	rc.CurrentStep = ""
}

// CalculateTokenCost computes USD and PKR cost from token counts
func CalculateTokenCost(inputTokens, outputTokens int) TokenUsage {
	totalTokens := inputTokens + outputTokens

	inputCost := float64(inputTokens) * configs.GEMINI_INPUT_PRICE_PER_MILLION / 1_000_000
	outputCost := float64(outputTokens) * configs.GEMINI_OUTPUT_PRICE_PER_MILLION / 1_000_000
	costUSD := inputCost + outputCost
	costPKR := costUSD * configs.USD_TO_PKR

	return TokenUsage{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  totalTokens,
		CostUSD:      costUSD,
		CostPKR:      costPKR,
	}
}

// GetSummary returns a final summary of the entire request
func (rc *RequestContext) GetSummary() map[string]interface{} {
	totalDuration := time.Since(rc.StartTime).Milliseconds()

	stepBreakdown := make(map[string]int64)
	for _, step := range rc.Steps {
		stepBreakdown[step.Name] = step.Duration
	}

	summary := map[string]interface{}{
		"request_id":         rc.RequestID,
		"total_duration_ms":  totalDuration,
		"total_duration_sec": float64(totalDuration) / 1000,
		"step_breakdown":     stepBreakdown,
		"total_steps":        len(rc.Steps),
		"token_usage": map[string]interface{}{
			"input_tokens":  rc.TotalTokens.InputTokens,
			"output_tokens": rc.TotalTokens.OutputTokens,
			"total_tokens":  rc.TotalTokens.TotalTokens,
			"cost_usd":      fmt.Sprintf("$%.4f", rc.TotalTokens.CostUSD),
			"cost_pkr":      fmt.Sprintf("Rs %.2f", rc.TotalTokens.CostPKR),
		},
	}

	log.Printf("[%s] finished: %.2fs | steps: %d | tokens: %d | cost: Rs %.2f",
		rc.RequestID,
		float64(totalDuration)/1000,
		len(rc.Steps),
		rc.TotalTokens.TotalTokens,
		rc.TotalTokens.CostPKR)

	return summary
}

// LogInfo logs info-level message with request ID prefix
func (rc *RequestContext) LogInfo(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] INFO %s", rc.RequestID, msg)
}

// LogWarning logs warning-level message with request ID prefix
func (rc *RequestContext) LogWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] WARN %s", rc.RequestID, msg)
}

// LogError logs error-level message with request ID prefix
func (rc *RequestContext) LogError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] ERROR %s", rc.RequestID, msg)
}
