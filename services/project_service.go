package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/alriefqyd/gemba-api/database"
	"github.com/alriefqyd/gemba-api/errs"
	"github.com/alriefqyd/gemba-api/models"
	"github.com/alriefqyd/gemba-api/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// findingsImageDir is the prefix under which finding photos are stored in
// the attachment store.
const findingsImageDir = "findings_images"

// ProjectService owns the project aggregate: project metadata, the findings
// collection and its attachment lifecycle. All row mutations of one call run
// inside a single database transaction; blob writes and deletes happen
// outside that transaction and are therefore best-effort (a rolled-back call
// can leave unreferenced blobs behind, never dangling references).
type ProjectService struct {
	db       *gorm.DB
	projects *database.ProjectRepo
	findings *database.FindingRepo
	store    storage.Storage
	logger   zerolog.Logger
}

func NewProjectService(db database.Database, store storage.Storage) *ProjectService {
	return &ProjectService{
		db:       db.DB(),
		projects: db.ProjectRepo(),
		findings: db.FindingRepo(),
		store:    store,
		logger:   log.With().Str("serviceName", "projectService").Logger(),
	}
}

// ListProjects returns all projects with their findings
func (s *ProjectService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.projects.FindAll()
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, nil
}

// GetProject returns one project with its findings in insertion order
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFound("project")
		}
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

// CreateProject persists a project together with its initial findings batch
// as one all-or-nothing submission. If any row insert fails the whole
// transaction rolls back; blobs already stored for the failed attempt are
// left behind as unreferenced garbage and logged.
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectInput, createdBy *string) (*models.Project, error) {
	project := &models.Project{
		ID:           uuid.New(),
		ProjectTitle: input.ProjectTitle,
		ProjectNo:    input.ProjectNo,
		ProjectArea:  input.ProjectArea,
		Images:       models.PlaceholderImage,
		CreatedBy:    createdBy,
	}

	var stored []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		projects := s.projects.WithTx(tx)
		findings := s.findings.WithTx(tx)

		if err := projects.Add(project); err != nil {
			return errs.NewDatabaseError("create", "project", err)
		}

		for _, in := range input.Findings {
			finding := &models.Finding{ID: uuid.New(), ProjectID: project.ID}
			in.apply(finding)

			if in.Image != nil {
				path, err := s.storeImage(ctx, in.Image)
				if err != nil {
					return err
				}
				stored = append(stored, path)
				finding.Image = &path
			}

			if err := findings.Add(finding); err != nil {
				return errs.NewDatabaseError("create", "finding", err)
			}
		}
		return nil
	})
	if err != nil {
		if len(stored) > 0 {
			s.logger.Warn().
				Strs("paths", stored).
				Msg("project create rolled back, stored blobs left unreferenced")
		}
		return nil, err
	}

	return s.GetProject(ctx, project.ID)
}

// UpdateProject applies a full-state submission: project fields are replaced
// and the desired findings list is reconciled against the persisted set in
// the same transaction.
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, input ProjectInput) (*models.Project, *ReconcileResult, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	project.ProjectTitle = input.ProjectTitle
	project.ProjectNo = input.ProjectNo
	project.ProjectArea = input.ProjectArea
	// Legacy behaviour: the images column is overwritten with a placeholder
	// on every update regardless of uploads.
	project.Images = models.UpdatedPlaceholderImage

	var result *ReconcileResult
	var obsolete, stored []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.projects.WithTx(tx).Update(project); err != nil {
			return errs.NewDatabaseError("update", "project", err)
		}
		var txErr error
		result, txErr = s.reconcileTx(ctx, tx, project, input.Findings, &obsolete, &stored)
		return txErr
	})
	if err != nil {
		if len(stored) > 0 {
			s.logger.Warn().
				Strs("paths", stored).
				Msg("project update rolled back, stored blobs left unreferenced")
		}
		return nil, nil, err
	}

	s.releaseBlobs(ctx, obsolete)

	updated, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return updated, result, nil
}

// DeleteProject destroys a project and all its findings. Rows go in one
// transaction; attachment blobs are released afterwards so a failed commit
// never leaves a surviving row with a missing blob.
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	var obsolete []string
	for _, f := range project.Findings {
		if path := f.ImagePath(); path != "" {
			obsolete = append(obsolete, path)
		}
	}
	if project.HasImage() {
		obsolete = append(obsolete, project.Images)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.findings.WithTx(tx).DeleteByProject(id); err != nil {
			return errs.NewDatabaseError("delete", "findings", err)
		}
		if err := s.projects.WithTx(tx).Delete(id); err != nil {
			return errs.NewDatabaseError("delete", "project", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.releaseBlobs(ctx, obsolete)
	return nil
}

// storeImage saves an uploaded photo under a fresh name and returns its
// storage path. Put failures are fatal to the enclosing operation.
func (s *ProjectService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	path := fmt.Sprintf("%s/%s%s", findingsImageDir, uuid.New().String(), extensionFor(img.ContentType))
	if err := s.store.Save(ctx, path, bytes.NewReader(img.Data), img.ContentType); err != nil {
		return "", errs.NewStoragePutError(path, err)
	}
	return path, nil
}

// releaseBlobs deletes superseded or orphaned blobs. Failures are logged and
// swallowed: an unreachable or already-missing blob must not block logical
// completion.
func (s *ProjectService) releaseBlobs(ctx context.Context, paths []string) {
	var g errgroup.Group
	g.SetLimit(4)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := s.store.Delete(ctx, path); err != nil {
				s.logger.Warn().Err(err).Str("path", path).Msg("failed to release attachment blob")
			}
			return nil
		})
	}
	g.Wait()
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
