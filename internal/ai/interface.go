// interface.go - Provider interface for document extraction and name matching

package ai

import (
	"context"

	"github.com/eduparser/edu_parser_gemini/internal/common"
	"github.com/eduparser/edu_parser_gemini/internal/records"
)

// DocumentExtractor turns a scanned document image into structured records.
// Implementations are opaque collaborators: the matching engines only consume
// their outputs.
type DocumentExtractor interface {
	// ExtractEducation parses a Pakistani educational certificate
	// (degree, transcript, marksheet) into education records. A single
	// image may yield multiple records (e.g. a consolidated transcript).
	ExtractEducation(ctx context.Context, imagePath string, reqCtx *common.RequestContext) ([]records.EducationRecord, *common.TokenUsage, error)

	// ExtractExperience parses a CV page into work-experience records.
	ExtractExperience(ctx context.Context, imagePath string, reqCtx *common.RequestContext) ([]records.ExperienceRecord, *common.TokenUsage, error)

	// ProviderName returns the backing provider (e.g. "gemini").
	ProviderName() string
}
