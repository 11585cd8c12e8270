package services

import (
	"context"
	"fmt"

	"pixelsage-server/internal/domain/report"
	"pixelsage-server/internal/platform/logging"
)

// MedicalReport is the structured analysis plus the unparsed model output.
type MedicalReport struct {
	Analysis    MedicalSections `json:"analysis"`
	RawResponse string          `json:"raw_response"`
}

// MedicalSections are the four narrative sections of the report.
type MedicalSections struct {
	TechnicalAssessment    string `json:"technical_assessment"`
	AnatomicalObservations string `json:"anatomical_observations"`
	NotableFindings        string `json:"notable_findings"`
	Recommendations        string `json:"recommendations"`
}

// MedicalService generates educational reports for medical images.
type MedicalService struct {
	analyzer *Analyzer
	text     *TextService
	logger   *logging.Logger
}

// NewMedicalService creates the medical pipeline service.
func NewMedicalService(analyzer *Analyzer, text *TextService, logger *logging.Logger) *MedicalService {
	return &MedicalService{
		analyzer: analyzer,
		text:     text,
		logger:   logger,
	}
}

// Analyze sends the image with a section-structured prompt to the vision
// model and parses the answer. An optional context string from the caller is
// appended to the prompt.
func (s *MedicalService) Analyze(ctx context.Context, raw []byte, mimeType, extraContext string) ServiceResult {
	baseDescription := s.analyzer.Describe(ctx, raw, mimeType)

	prompt := fmt.Sprintf(`Analyze this medical image and provide a detailed report.

Base Image Description: %s

Focus on:
1. Anatomical structures visible
2. Any notable patterns or abnormalities
3. Image quality and technical aspects
4. Potential clinical relevance

Format your response in these sections:
1. Technical Assessment
2. Anatomical Observations
3. Notable Findings
4. Recommendations

Remember: This is for educational purposes only, not for diagnosis.`, baseDescription)

	if extraContext != "" {
		prompt += fmt.Sprintf("\n\nAdditional Context: %s", extraContext)
	}

	analysis, err := s.text.llm.CompleteWithImage(ctx, prompt, raw, mimeType)
	if err != nil {
		return Fail(CodeAnalysisError, err.Error())
	}

	parsed := report.Parse(analysis, report.MedicalSpec())
	return Ok(MedicalReport{
		Analysis: MedicalSections{
			TechnicalAssessment:    parsed.Text[report.KeyTechnicalAssessment],
			AnatomicalObservations: parsed.Text[report.KeyAnatomicalObservations],
			NotableFindings:        parsed.Text[report.KeyNotableFindings],
			Recommendations:        parsed.Text[report.KeyRecommendations],
		},
		RawResponse: analysis,
	})
}
