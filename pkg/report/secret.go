package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/chemviz/chemviz/pkg/config"
)

type Credential struct {
	Username string
	Password string
}

// SecretHolder supplies the credential that unlocks report export. Implementations are
// consulted on every check so the secret can be rotated without a restart.
type SecretHolder interface {
	Credential() (Credential, error)
}

type StaticSecret struct {
	credential Credential
}

func NewStaticSecret(username, password string) StaticSecret {
	return StaticSecret{credential: Credential{Username: username, Password: password}}
}

func (s StaticSecret) Credential() (Credential, error) {
	return s.credential, nil
}

// FileSecret reads the password from a file, e.g. a mounted Kubernetes or Docker secret.
type FileSecret struct {
	Username string
	Path     string
}

func (s FileSecret) Credential() (Credential, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to read password file: %w", err)
	}

	return Credential{
		Username: s.Username,
		Password: strings.TrimRight(string(content), "\r\n"),
	}, nil
}

// SecretFromConfig prefers the password file over an inline password.
//
//nolint:ireturn
func SecretFromConfig(cfg config.ReportConfig) SecretHolder {
	if cfg.PasswordFile != "" {
		return FileSecret{Username: cfg.Username, Path: cfg.PasswordFile}
	}

	return NewStaticSecret(cfg.Username, cfg.Password)
}
