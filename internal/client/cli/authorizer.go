package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/api"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
)

// terminalAuthorizer drives the social-login step in a terminal: the user
// pastes the assertion obtained from the provider, or leaves the line empty
// to dismiss the prompt, which maps to api.ErrProviderCancelled.
type terminalAuthorizer struct {
	reader *bufio.Reader
	out    io.Writer
}

func (t *terminalAuthorizer) Authorize(ctx context.Context, provider models.Provider) (string, error) {
	prompt := fmt.Sprintf("Paste the %s sign-in token (empty line to cancel)", provider)
	assertion, err := GetSimpleText(t.reader, prompt, t.out)
	if err != nil {
		return "", err
	}
	if assertion == "" {
		return "", api.ErrProviderCancelled
	}
	return assertion, nil
}
