package httperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"bizdesk/cli/internal/apiclient"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, ClassUnknown},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ClassTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.invalid"}, ClassDNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ClassRefused},
		{"tls", errors.New("tls: failed to verify certificate: x509: unknown authority"), ClassTLS},
		{"5xx", &apiclient.APIError{StatusCode: 503}, ClassServer},
		{"4xx", &apiclient.APIError{StatusCode: 404}, ClassUnknown},
		{"other", errors.New("boom"), ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestDescribe_RefusedAgainstClosedServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	err := apiclient.New(base).Get(context.Background(), "/customers", nil)
	h := Describe(err, "listing customers", HostOf(base))
	assert.Equal(t, "Connection refused while listing customers", h.Title)
	assert.Contains(t, h.Lines[0], HostOf(base))
}

func TestPrint(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var buf bytes.Buffer
	Print(&buf, errors.New("boom"), "logging in", "")
	assert.Contains(t, buf.String(), "Cannot reach the API server while logging in")
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "localhost:5000", HostOf("http://localhost:5000/api"))
	assert.Equal(t, "", HostOf("::bad"))
}
