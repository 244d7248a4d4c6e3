package httpx

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestNormalizeBaseURL() {
	cases := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{"full url with scheme", "http://example.com", "http://example.com", false},
		{"url without scheme", "example.com", "http://example.com", false},
		{"url with port", "localhost:11434", "http://localhost:11434", false},
		{"missing scheme separator only", "://invalid", "", true},
		{"contains space", "http://exa mple.com", "", true},
	}

	for _, tt := range cases {
		s.Run(tt.name, func() {
			got, err := normalizeBaseURL(tt.input)
			if tt.expectError {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.Equal(tt.expected, got)
		})
	}
}

func (s *ClientTestSuite) TestNewClientDefaults() {
	c, err := NewClient("http://example.com")
	s.Require().NoError(err)
	s.Equal(DefaultTimeout, c.timeout)
	s.Equal("http://example.com", c.baseURL)
}

func (s *ClientTestSuite) TestNewClientWithoutBaseURL() {
	c, err := NewClient()
	s.Require().NoError(err)
	s.Empty(c.baseURL)
}
