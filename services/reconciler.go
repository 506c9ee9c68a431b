package services

import (
	"context"
	"errors"

	"github.com/alriefqyd/gemba-api/errs"
	"github.com/alriefqyd/gemba-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReconcileResult reports what one reconciliation pass did. Findings holds
// the final collection in insertion order, which is not necessarily the
// order the inputs were supplied in.
type ReconcileResult struct {
	Created  int              `json:"created"`
	Updated  int              `json:"updated"`
	Deleted  int              `json:"deleted"`
	Findings []models.Finding `json:"findings"`
}

// ReconcileFindings reconciles a client-submitted desired findings list
// against the persisted set for one project: inputs carrying an ID update
// the matching finding (full replace), inputs without one create a new
// finding, and every current finding whose ID appears in neither group is
// deleted afterwards. Row mutations run in a single transaction; superseded
// and orphaned blobs are released only after a successful commit.
func (s *ProjectService) ReconcileFindings(ctx context.Context, projectID uuid.UUID, inputs []FindingInput) (*ReconcileResult, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var result *ReconcileResult
	var obsolete, stored []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.reconcileTx(ctx, tx, project, inputs, &obsolete, &stored)
		return txErr
	})
	if err != nil {
		if len(stored) > 0 {
			s.logger.Warn().
				Strs("paths", stored).
				Msg("reconciliation rolled back, stored blobs left unreferenced")
		}
		return nil, err
	}

	s.releaseBlobs(ctx, obsolete)
	return result, nil
}

// reconcileTx runs the create/update/delete-by-difference pass on an open
// transaction. New blobs are stored before the rows referencing them are
// saved; paths that become unreferenced are appended to obsolete for the
// caller to release after commit, and freshly stored paths to stored so the
// caller can log the leak if the transaction rolls back.
func (s *ProjectService) reconcileTx(ctx context.Context, tx *gorm.DB, project *models.Project, inputs []FindingInput, obsolete, stored *[]string) (*ReconcileResult, error) {
	findings := s.findings.WithTx(tx)

	// Snapshot the current ID set before anything mutates; the delete pass
	// must diff against the state the submission was made against, not a
	// live view that excludes rows updated above.
	current, err := findings.FindIDsByProject(project.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "findings", err)
	}

	result := &ReconcileResult{}
	touched := make(map[uuid.UUID]bool, len(inputs))

	for _, in := range inputs {
		if in.ID != nil {
			finding, err := findings.FindByID(*in.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Stale ID from the client; skipped, not fatal.
				s.logger.Warn().Str("findingID", in.ID.String()).Msg("finding not found during update, skipping")
				continue
			}
			if err != nil {
				return nil, errs.NewDatabaseError("find", "finding", err)
			}
			if finding.ProjectID != project.ID {
				s.logger.Warn().Str("findingID", in.ID.String()).Msg("finding belongs to another project, skipping")
				continue
			}

			oldImage := finding.ImagePath()
			in.apply(finding)

			if in.Image != nil {
				path, err := s.storeImage(ctx, in.Image)
				if err != nil {
					return nil, err
				}
				*stored = append(*stored, path)
				finding.Image = &path
				if oldImage != "" {
					*obsolete = append(*obsolete, oldImage)
				}
			}

			if err := findings.Update(finding); err != nil {
				return nil, errs.NewDatabaseError("update", "finding", err)
			}
			touched[finding.ID] = true
			result.Updated++
			continue
		}

		finding := &models.Finding{ID: uuid.New(), ProjectID: project.ID}
		in.apply(finding)

		if in.Image != nil {
			path, err := s.storeImage(ctx, in.Image)
			if err != nil {
				return nil, err
			}
			*stored = append(*stored, path)
			finding.Image = &path
		}

		if err := findings.Add(finding); err != nil {
			return nil, errs.NewDatabaseError("create", "finding", err)
		}
		touched[finding.ID] = true
		result.Created++
	}

	for _, id := range diffFindingIDs(current, touched) {
		finding, err := findings.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, errs.NewDatabaseError("find", "finding", err)
		}
		if path := finding.ImagePath(); path != "" {
			*obsolete = append(*obsolete, path)
		}
		if err := findings.Delete(id); err != nil {
			return nil, errs.NewDatabaseError("delete", "finding", err)
		}
		result.Deleted++
	}

	final, err := findings.FindAllByProject(project.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "findings", err)
	}
	result.Findings = final
	return result, nil
}

// diffFindingIDs returns the IDs from the snapshot that were neither updated
// nor recreated during the pass, preserving snapshot order.
func diffFindingIDs(snapshot []uuid.UUID, touched map[uuid.UUID]bool) []uuid.UUID {
	var toDelete []uuid.UUID
	for _, id := range snapshot {
		if !touched[id] {
			toDelete = append(toDelete, id)
		}
	}
	return toDelete
}
