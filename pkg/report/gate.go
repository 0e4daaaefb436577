package report

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/chemviz/chemviz/pkg/contract"
	"github.com/chemviz/chemviz/pkg/entities"
	"github.com/chemviz/chemviz/pkg/store"
)

const ContentTypePDF = "application/pdf"

type Renderer interface {
	Render(dataset *entities.Dataset, generatedAt time.Time) ([]byte, error)
}

// Gate guards report export with a single credential.
type Gate struct {
	secrets  SecretHolder
	store    store.DatasetStore
	renderer Renderer
	now      func() time.Time
}

func NewGate(secrets SecretHolder, datasetStore store.DatasetStore, renderer Renderer) *Gate {
	return &Gate{
		secrets:  secrets,
		store:    datasetStore,
		renderer: renderer,
		now:      time.Now,
	}
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

func isBcryptHash(secret string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(secret, prefix) {
			return true
		}
	}

	return false
}

func denied() *contract.Error {
	return contract.NewError(contract.ErrorCode_PERMISSION_DENIED, "Invalid username or password")
}

// Authorize checks credential against the configured secret. An unconfigured secret
// denies everyone.
func (g *Gate) Authorize(credential Credential) *contract.Error {
	expected, err := g.secrets.Credential()
	if err != nil {
		return contract.NewErrorWith(contract.ErrorCode_INTERNAL_ERROR, "report credential is unavailable", err)
	}

	if expected.Username == "" || expected.Password == "" {
		logrus.Warn("Report export requested but no report credential is configured")

		return denied()
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(credential.Username), []byte(expected.Username)) == 1

	var passwordOK bool
	if isBcryptHash(expected.Password) {
		passwordOK = bcrypt.CompareHashAndPassword([]byte(expected.Password), []byte(credential.Password)) == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(credential.Password), []byte(expected.Password)) == 1
	}

	if !usernameOK || !passwordOK {
		return denied()
	}

	return nil
}

// Export authorizes first and only then looks the dataset up, so a wrong credential is
// denied whether or not the dataset exists.
func (g *Gate) Export(ctx context.Context, datasetID int64, credential Credential) (*entities.ReportArtifact, *contract.Error) {
	if err := g.Authorize(credential); err != nil {
		return nil, err
	}

	dataset, err := g.store.GetDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	generatedAt := g.now()

	content, renderErr := g.renderer.Render(dataset, generatedAt)
	if renderErr != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCode_RENDER_ERROR,
			"Error generating report. Please try again.",
			renderErr,
		)
	}

	logrus.WithFields(logrus.Fields{
		"dataset_id": dataset.ID,
		"user":       credential.Username,
		"bytes":      len(content),
	}).Info("Report generated")

	return &entities.ReportArtifact{
		Content:     content,
		ContentType: ContentTypePDF,
		Filename:    fmt.Sprintf("equipment_report_%d_%s.pdf", dataset.ID, generatedAt.Format(time.DateOnly)),
	}, nil
}
