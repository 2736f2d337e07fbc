package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"travelhub/internal/domain"
)

// MaxDocuments caps verification documents per agent.
const MaxDocuments = 20

type Service struct {
	agents AgentRepository
	store  FileStore
	log    zerolog.Logger
}

func NewService(agents AgentRepository, store FileStore, log zerolog.Logger) *Service {
	return &Service{agents: agents, store: store, log: log}
}

// UploadDocument stores a verification document and appends its public URL to the agent.
// Any agent may upload, pending ones included: documents back the approval decision.
func (s *Service) UploadDocument(ctx context.Context, actor domain.Actor, name string, size int64, r io.Reader) (*StoredFile, domain.Outbox, error) {
	if actor.Role != domain.RoleAgent {
		return nil, domain.Outbox{}, domain.ErrForbidden
	}
	agent, err := s.agents.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Outbox{}, domain.ErrForbidden
		}
		return nil, domain.Outbox{}, err
	}
	if len(agent.Documents) >= MaxDocuments {
		return nil, domain.Outbox{}, ErrTooManyFiles
	}

	file, err := s.store.Save(name, size, r)
	if err != nil {
		return nil, domain.Outbox{}, err
	}

	agent.Documents = append(agent.Documents, file.URL)
	if err := s.agents.Update(ctx, agent); err != nil {
		if rmErr := s.store.Remove(file); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("path", file.Path).Msg("remove orphaned upload")
		}
		return nil, domain.Outbox{}, fmt.Errorf("save document url: %w", err)
	}

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: domain.ActivityDocumentUploaded,
		Description:  fmt.Sprintf("Document %q uploaded", file.Name),
		EntityType:   domain.EntityAgent,
		EntityID:     domain.Ref(agent.ID),
		Metadata:     map[string]any{"url": file.URL, "mime_type": file.MimeType, "size": file.Size},
	})
	return file, box, nil
}
