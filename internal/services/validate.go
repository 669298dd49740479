package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

const dateLayout = "2006-01-02"

// AssessmentInput carries assessment fields for create and update. Pointers
// distinguish "absent" from "empty" so partial updates only touch what the
// caller sent.
type AssessmentInput struct {
	CaseName               *string `json:"case_name"`
	JudgeName              *string `json:"judge_name"`
	AssessorName           *string `json:"assessor_name"`
	AssessmentDate         *string `json:"assessment_date"`
	CaseID                 *string `json:"case_id"`
	CaseManagementSystemID *string `json:"case_management_system_id"`
}

// FactorInput is one factor rating as submitted by the client.
type FactorInput struct {
	ID         string  `json:"id"`
	Likelihood *int    `json:"likelihood"`
	Impact     *int    `json:"impact"`
	Notes      *string `json:"notes"`
}

// CMSLinkInput carries link fields for the CMS link endpoint.
type CMSLinkInput struct {
	CMSType  string `json:"cms_type"`
	CaseID   string `json:"case_id"`
	MatterID string `json:"matter_id"`
	SyncData *bool  `json:"sync_data"`
}

// WebhookInput carries webhook fields for register and update.
type WebhookInput struct {
	TargetURL   *string  `json:"target_url"`
	Events      []string `json:"events"`
	Description *string  `json:"description"`
	Secret      *string  `json:"secret"`
	Active      *bool    `json:"active"`
	ContentType *string  `json:"content_type"`
}

func validateAssessmentInput(input AssessmentInput, requireAll bool) apperr.FieldErrors {
	errs := apperr.FieldErrors{}

	required := map[string]*string{
		"case_name":     input.CaseName,
		"judge_name":    input.JudgeName,
		"assessor_name": input.AssessorName,
	}
	for field, val := range required {
		if val == nil {
			if requireAll {
				errs[field] = field + " is required"
			}
			continue
		}
		if *val == "" {
			errs[field] = field + " is required"
			continue
		}
		if len(*val) > 255 {
			errs[field] = field + " must be 255 characters or less"
		}
	}

	if input.AssessmentDate != nil && !isDateFormat(*input.AssessmentDate) {
		errs["assessment_date"] = "assessment_date must be in YYYY-MM-DD format"
	}

	return errs
}

func isDateFormat(val string) bool {
	parts := strings.Split(val, "-")
	return len(parts) == 3 && len(parts[0]) == 4 && len(parts[1]) == 2 && len(parts[2]) == 2
}

func validateFactorInput(input FactorInput, requireID bool) apperr.FieldErrors {
	errs := apperr.FieldErrors{}

	if requireID && input.ID == "" {
		errs["id"] = "id is required"
	}
	if input.Likelihood != nil && (*input.Likelihood < 1 || *input.Likelihood > 5) {
		errs["likelihood"] = "likelihood must be between 1 and 5"
	}
	if input.Impact != nil && (*input.Impact < 1 || *input.Impact > 5) {
		errs["impact"] = "impact must be between 1 and 5"
	}
	if input.Notes != nil && len(*input.Notes) > 10000 {
		errs["notes"] = "notes must be 10000 characters or less"
	}

	return errs
}

func validateCMSLinkInput(input CMSLinkInput) apperr.FieldErrors {
	errs := apperr.FieldErrors{}

	if input.CMSType == "" {
		errs["cms_type"] = "cms_type is required"
	} else if len(input.CMSType) > 100 {
		errs["cms_type"] = "cms_type must be 100 characters or less"
	}
	if input.CaseID == "" {
		errs["case_id"] = "case_id is required"
	} else if len(input.CaseID) > 100 {
		errs["case_id"] = "case_id must be 100 characters or less"
	}
	if len(input.MatterID) > 100 {
		errs["matter_id"] = "matter_id must be 100 characters or less"
	}

	return errs
}

func validateWebhookInput(input WebhookInput) apperr.FieldErrors {
	errs := apperr.FieldErrors{}

	if input.TargetURL == nil || *input.TargetURL == "" {
		errs["target_url"] = "target_url is required"
	} else if !strings.HasPrefix(*input.TargetURL, "http://") && !strings.HasPrefix(*input.TargetURL, "https://") {
		errs["target_url"] = "target_url must be a valid HTTP or HTTPS URL"
	} else if len(*input.TargetURL) > 255 {
		errs["target_url"] = "target_url must be 255 characters or less"
	}

	if input.Events == nil {
		errs["events"] = "events is required"
	} else if len(input.Events) == 0 {
		errs["events"] = "events array cannot be empty"
	} else if invalid := invalidEvents(input.Events); len(invalid) > 0 {
		errs["events"] = fmt.Sprintf("Invalid events: %s", strings.Join(invalid, ", "))
	}

	if input.Secret == nil || *input.Secret == "" {
		errs["secret"] = "secret is required"
	} else if len(*input.Secret) < 16 {
		errs["secret"] = "secret must be at least 16 characters"
	} else if len(*input.Secret) > 100 {
		errs["secret"] = "secret must be 100 characters or less"
	}

	if input.ContentType != nil && *input.ContentType != types.ContentTypeJSON && *input.ContentType != types.ContentTypeForm {
		errs["content_type"] = fmt.Sprintf("content_type must be one of: %s, %s", types.ContentTypeJSON, types.ContentTypeForm)
	}

	return errs
}

func invalidEvents(events []string) []string {
	valid := make(map[string]struct{}, len(types.ValidEvents))
	for _, e := range types.ValidEvents {
		valid[e] = struct{}{}
	}
	var invalid []string
	for _, e := range events {
		if _, ok := valid[e]; !ok {
			invalid = append(invalid, e)
		}
	}
	return invalid
}
