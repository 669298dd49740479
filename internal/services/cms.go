package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

type LinkResult struct {
	Status    string    `json:"status"`
	CMSType   string    `json:"cms_type"`
	CaseID    string    `json:"case_id"`
	LinkedAt  time.Time `json:"linked_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LinkList struct {
	AssessmentID string           `json:"assessment_id"`
	Links        []*types.CMSLink `json:"links"`
}

type LinkDeleted struct {
	Status    string    `json:"status"`
	CMSType   string    `json:"cms_type"`
	DeletedAt time.Time `json:"deleted_at"`
}

type SyncResult struct {
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	SyncedFields []string  `json:"synced_fields,omitempty"`
	SyncedCMS    []string  `json:"synced_cms,omitempty"`
	SyncedAt     time.Time `json:"synced_at,omitempty"`
}

// CMSSystem describes one supported case management vendor.
type CMSSystem struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Features         []string `json:"features"`
	DocumentationURL string   `json:"documentation_url"`
}

type CMSService interface {
	Link(ctx context.Context, assessmentID string, input CMSLinkInput) (*LinkResult, error)
	ListLinks(ctx context.Context, assessmentID string) (*LinkList, error)
	DeleteLink(ctx context.Context, assessmentID, cmsType string) (*LinkDeleted, error)
	Sync(ctx context.Context, assessmentID string) (*SyncResult, error)
	ListSystems() []CMSSystem
}

type cmsService struct {
	log         *logger.Logger
	db          *gorm.DB
	assessments repos.AssessmentRepo
	links       repos.CMSLinkRepo
	events      EventService
}

func NewCMSService(log *logger.Logger, db *gorm.DB, assessments repos.AssessmentRepo, links repos.CMSLinkRepo, events EventService) CMSService {
	return &cmsService{
		log:         log.With("service", "CMSService"),
		db:          db,
		assessments: assessments,
		links:       links,
		events:      events,
	}
}

func (s *cmsService) Link(ctx context.Context, assessmentID string, input CMSLinkInput) (*LinkResult, error) {
	if errs := validateCMSLinkInput(input); errs.HasErrors() {
		return nil, errs
	}
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing, err := s.links.GetByAssessmentAndType(ctx, nil, assessment.ID, input.CMSType)
	if err != nil {
		return nil, err
	}

	var link *types.CMSLink
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if existing != nil {
			existing.CMSCaseID = input.CaseID
			existing.CMSMatterID = input.MatterID
			if input.SyncData != nil {
				existing.SyncData = *input.SyncData
			}
			existing.UpdatedAt = now
			link = existing
			if err := s.links.Save(ctx, tx, link); err != nil {
				return err
			}
		} else {
			link = &types.CMSLink{
				AssessmentID: assessment.ID,
				CMSType:      input.CMSType,
				CMSCaseID:    input.CaseID,
				CMSMatterID:  input.MatterID,
				LinkedAt:     now,
			}
			if input.SyncData != nil {
				link.SyncData = *input.SyncData
			}
			if err := s.links.Create(ctx, tx, link); err != nil {
				return err
			}
		}
		return s.assessments.Touch(ctx, tx, assessment, assessment.Status, now)
	})
	if err != nil {
		s.log.Error("Failed to link assessment", "assessment_id", assessmentID, "cms_type", input.CMSType, "error", err)
		return nil, err
	}

	eventType := types.EventLinkCreated
	status := "linked"
	if existing != nil {
		eventType = types.EventLinkUpdated
		status = "updated"
	}
	s.events.Trigger(eventType, map[string]interface{}{
		"assessment_id": assessmentID,
		"cms_type":      link.CMSType,
		"cms_case_id":   link.CMSCaseID,
		"cms_matter_id": link.CMSMatterID,
		"sync_data":     link.SyncData,
		"timestamp":     now.Format(time.RFC3339Nano),
	})

	return &LinkResult{
		Status:    status,
		CMSType:   link.CMSType,
		CaseID:    link.CMSCaseID,
		LinkedAt:  link.LinkedAt,
		UpdatedAt: link.UpdatedAt,
	}, nil
}

func (s *cmsService) ListLinks(ctx context.Context, assessmentID string) (*LinkList, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	links, err := s.links.GetByAssessment(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}
	return &LinkList{AssessmentID: assessmentID, Links: links}, nil
}

func (s *cmsService) DeleteLink(ctx context.Context, assessmentID, cmsType string) (*LinkDeleted, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	link, err := s.links.GetByAssessmentAndType(ctx, nil, assessment.ID, cmsType)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, apperr.ErrNotFound
	}

	now := time.Now().UTC()
	s.events.Trigger(types.EventLinkDeleted, map[string]interface{}{
		"assessment_id": assessmentID,
		"cms_type":      link.CMSType,
		"cms_case_id":   link.CMSCaseID,
		"deleted_at":    now.Format(time.RFC3339Nano),
	})

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.links.Delete(ctx, tx, link); err != nil {
			return err
		}
		return s.assessments.Touch(ctx, tx, assessment, assessment.Status, now)
	})
	if err != nil {
		s.log.Error("Failed to delete CMS link", "assessment_id", assessmentID, "cms_type", cmsType, "error", err)
		return nil, err
	}

	return &LinkDeleted{Status: "deleted", CMSType: cmsType, DeletedAt: now}, nil
}

func (s *cmsService) Sync(ctx context.Context, assessmentID string) (*SyncResult, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	links, err := s.links.GetByAssessment(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, apperr.Invalid("Assessment " + assessmentID + " is not linked to any CMS")
	}

	var syncedCMS []string
	for _, link := range links {
		if link.SyncData {
			syncedCMS = append(syncedCMS, link.CMSType)
		}
	}
	if len(syncedCMS) == 0 {
		return &SyncResult{
			Status:  "no_sync",
			Message: "No CMS links are configured for data synchronization",
		}, nil
	}

	now := time.Now().UTC()
	if err := s.assessments.Touch(ctx, nil, assessment, assessment.Status, now); err != nil {
		return nil, err
	}

	return &SyncResult{
		Status:       "synced",
		SyncedFields: []string{"case_name", "judge_name", "dates"},
		SyncedCMS:    syncedCMS,
		SyncedAt:     now,
	}, nil
}

func (s *cmsService) ListSystems() []CMSSystem {
	return []CMSSystem{
		{
			ID:               "clio",
			Name:             "Clio",
			Description:      "Clio is a cloud-based legal practice management software.",
			Features:         []string{"Two-way sync", "Document attachment", "Calendar integration"},
			DocumentationURL: "https://api.prejudicerisk.example.com/docs/cms/clio",
		},
		{
			ID:               "practice_panther",
			Name:             "Practice Panther",
			Description:      "Practice Panther is a legal management software for law firms.",
			Features:         []string{"Matter linking", "Contact synchronization", "Billing integration"},
			DocumentationURL: "https://api.prejudicerisk.example.com/docs/cms/practice_panther",
		},
		{
			ID:               "mycase",
			Name:             "MyCase",
			Description:      "MyCase is a web-based legal practice management software.",
			Features:         []string{"Document generation", "Task creation", "Client portal integration"},
			DocumentationURL: "https://api.prejudicerisk.example.com/docs/cms/mycase",
		},
		{
			ID:               "rocket_matter",
			Name:             "Rocket Matter",
			Description:      "Rocket Matter is a cloud-based legal practice management software.",
			Features:         []string{"Matter linking", "Calendar integration", "Billing codes"},
			DocumentationURL: "https://api.prejudicerisk.example.com/docs/cms/rocket_matter",
		},
	}
}
