// internal/infra/secrets/provider.go
package secrets

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Provider reads secret payloads from Secret Manager (SendGrid API key).
type Provider struct {
	sm *secretmanager.Client
}

func NewProvider(ctx context.Context) (*Provider, error) {
	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Provider{sm: sm}, nil
}

// AccessString reads one secret version as a trimmed string. name is either
// a full resource name or "projects/<p>/secrets/<s>" (then "latest" is
// appended).
func (p *Provider) AccessString(ctx context.Context, name string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errors.New("secrets: provider not configured")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("secrets: secret name is empty")
	}
	if !strings.Contains(name, "/versions/") {
		name = name + "/versions/latest"
	}

	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secrets: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secrets: empty payload (" + name + ")")
	}

	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

func (p *Provider) Close() error {
	if p == nil || p.sm == nil {
		return nil
	}
	return p.sm.Close()
}
