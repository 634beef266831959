package geocode

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
)

func TestClientResolveRequest(t *testing.T) {
	respBody := `[{"lat":"14.5995","lon":"120.9842","display_name":"Manila, Philippines"}]`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	httpClient := &http.Client{Transport: rt}
	client := NewClient(WithBaseURL("http://geo.test"), WithHTTPClient(httpClient), WithUserAgent("ecosort-test"))

	coords, err := client.Resolve(context.Background(), "Manila, Philippines")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if coords == nil {
		t.Fatal("expected coordinates")
	}
	if coords.Latitude != 14.5995 || coords.Longitude != 120.9842 {
		t.Fatalf("unexpected coordinates %+v", coords)
	}
	if !strings.HasPrefix(capturedURL, "http://geo.test/search?") {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if !strings.Contains(capturedURL, "format=json") || !strings.Contains(capturedURL, "limit=1") {
		t.Fatalf("missing query params in %q", capturedURL)
	}
	if capturedHeaders.Get("User-Agent") != "ecosort-test" {
		t.Fatalf("unexpected user agent %q", capturedHeaders.Get("User-Agent"))
	}
}

func TestClientResolveNoCandidates(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`[]`)),
			Header:     http.Header{},
		}, nil
	})

	client := NewClient(WithBaseURL("http://geo.test"), WithHTTPClient(&http.Client{Transport: rt}))

	coords, err := client.Resolve(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if coords != nil {
		t.Fatalf("expected nil coordinates, got %+v", coords)
	}
}

func TestClientResolveUpstreamFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(strings.NewReader("overloaded")),
			Header:     http.Header{},
		}, nil
	})

	client := NewClient(WithBaseURL("http://geo.test"), WithHTTPClient(&http.Client{Transport: rt}))

	_, err := client.Resolve(context.Background(), "Manila")
	if err == nil {
		t.Fatal("expected error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestClientResolveEmptyAddress(t *testing.T) {
	client := NewClient()

	_, err := client.Resolve(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
