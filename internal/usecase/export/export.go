// Package export renders generated content and meetings as plain text and
// optionally hands them out through object storage.
package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

const (
	// DefaultFilename is the download name for generated text.
	DefaultFilename = "ai_summary.txt"

	// DateLayout is the long-form date used in exported meetings.
	DateLayout = "January 2, 2006"

	// LinkExpiry is how long an uploaded export stays downloadable.
	LinkExpiry = 24 * time.Hour
)

// ErrStorageDisabled is returned by Upload when no object storage is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// ObjectStorage is the part of the object store exports need.
type ObjectStorage interface {
	PutText(ctx context.Context, objectName, filename, content string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Document is a rendered plain-text file.
type Document struct {
	Filename string
	Content  string
}

// Service builds export documents. Storage may be nil.
type Service struct {
	storage ObjectStorage
	prefix  string
	logger  *zap.Logger
}

// NewService creates an export service. Objects are written under prefix.
func NewService(storage ObjectStorage, prefix string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, prefix: strings.Trim(prefix, "/"), logger: logger}
}

// StorageEnabled reports whether Upload can succeed.
func (s *Service) StorageEnabled() bool {
	return s.storage != nil
}

// StripMarkup removes HTML tags and non-breaking space entities.
func StripMarkup(content string) string {
	return strings.ReplaceAll(tagPattern.ReplaceAllString(content, ""), "&nbsp;", " ")
}

// Text wraps generated content as a download.
func (s *Service) Text(content string) Document {
	return Document{Filename: DefaultFilename, Content: StripMarkup(content)}
}

// Meeting renders a meeting with its title, long-form date and labeled sections.
func (s *Service) Meeting(m *entities.Meeting) Document {
	var b strings.Builder
	b.WriteString(m.Title)
	b.WriteString("\n")
	b.WriteString(m.Date.Format(DateLayout))
	b.WriteString("\n")
	for _, key := range entities.SectionKeys() {
		b.WriteString("\n")
		b.WriteString(key.Label())
		b.WriteString("\n")
		b.WriteString(StripMarkup(m.Sections.Get(key)))
		b.WriteString("\n")
	}
	return Document{
		Filename: fmt.Sprintf("meeting-%s.txt", m.Date.Format("2006-01-02")),
		Content:  b.String(),
	}
}

// Upload stores doc under a fresh object name and returns a download link.
func (s *Service) Upload(ctx context.Context, doc Document) (string, error) {
	if s.storage == nil {
		return "", ErrStorageDisabled
	}

	objectName := uuid.NewString() + "/" + doc.Filename
	if s.prefix != "" {
		objectName = s.prefix + "/" + objectName
	}

	if err := s.storage.PutText(ctx, objectName, doc.Filename, doc.Content); err != nil {
		s.logger.Error("Failed to upload export", zap.String("object", objectName), zap.Error(err))
		return "", err
	}
	link, err := s.storage.PresignedURL(ctx, objectName, LinkExpiry)
	if err != nil {
		s.logger.Error("Failed to sign export link", zap.String("object", objectName), zap.Error(err))
		return "", err
	}

	s.logger.Info("Export uploaded", zap.String("object", objectName))
	return link, nil
}
